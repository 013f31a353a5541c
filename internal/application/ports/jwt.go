package ports

import (
	"sheet-insights-api/internal/domain/user"
)

type Auth interface {
	GenerateToken(u *user.User, requestPassword string) (string, error)
	// VerifyPassword returns ErrInvalidCredentials on mismatch.
	VerifyPassword(u *user.User, requestPassword string) error
}
