package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/user"
	"sheet-insights-api/internal/infrastructure/jwt"
)

const tokenTTL = time.Hour

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
)

type AuthService struct {
	jwtService *jwt.Service
}

func NewAuthService(jwtService *jwt.Service) ports.Auth {
	return &AuthService{jwtService: jwtService}
}

func (as *AuthService) VerifyPassword(u *user.User, requestPassword string) error {
	if u == nil || u.PasswordHash == nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(requestPassword)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

func (as *AuthService) GenerateToken(u *user.User, requestPassword string) (string, error) {
	if err := as.VerifyPassword(u, requestPassword); err != nil {
		return "", err
	}

	token, err := as.jwtService.GenerateJWT(u.UUID.String(), u.Role, tokenTTL)
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}
