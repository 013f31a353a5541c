package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"sheet-insights-api/internal/domain/user"
	"sheet-insights-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, uuid)
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByEmail, strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repository) fetchOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u := new(User)
	if err := r.db.QueryRow(ctx, query, arg).Scan(u.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	role := req.Role
	if role == "" {
		role = user.RoleUser
	}

	u := new(User)
	err := r.db.QueryRow(
		ctx,
		InsertUser,
		req.Name, strings.ToLower(strings.TrimSpace(req.Email)), req.PasswordHash, req.ProfilePic, role,
	).Scan(u.scanTargets()...)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) DeleteUser(ctx context.Context, uuid user.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteUserByID, uuid)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
