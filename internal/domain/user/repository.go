package user

import (
	"context"
	"errors"
)

var ErrEmailAlreadyExists = errors.New("email already exists")

type Repository interface {
	FetchUserByID(ctx context.Context, uuid UUID) (*User, error)
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	// CreateUser returns ErrEmailAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, req User) (*User, error)
	DeleteUser(ctx context.Context, uuid UUID) (bool, error)
}
