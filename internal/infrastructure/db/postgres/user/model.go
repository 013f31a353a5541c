package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		ID           uuid.UUID
		Name         string
		Email        string
		PasswordHash *string
		ProfilePic   *string
		Role         string

		CreatedAt time.Time
	}
)

func (u *User) scanTargets() []any {
	return []any{
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.ProfilePic,
		&u.Role,
		&u.CreatedAt,
	}
}
