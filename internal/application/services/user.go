package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/user"
)

var ErrWeakPassword = errors.New("password must be at least 8 characters")

const minPasswordLen = 8

type UserService struct {
	userRepository user.Repository
	mCounter       *prometheus.CounterVec
}

func NewUserService(userRepository user.Repository, mCounter *prometheus.CounterVec) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		mCounter:       mCounter,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return us.userRepository.FetchUserByID(ctx, uuid)
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return us.userRepository.FetchUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// CreateUser hashes password with bcrypt before storing u.
func (us *UserService) CreateUser(ctx context.Context, u user.User, password string) (*user.User, error) {
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	h := string(hash)
	u.PasswordHash = &h

	uRet, err := us.userRepository.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}

	us.mCounter.WithLabelValues("user_created_total").Inc()

	return uRet, nil
}
