package file

import (
	"context"

	"github.com/google/uuid"
)

// Repository lookups are always scoped by owner: a record owned by somebody
// else is indistinguishable from a missing one and comes back as (nil, nil).
type Repository interface {
	Create(ctx context.Context, req *File) (*File, error)
	FetchByID(ctx context.Context, id, ownerID uuid.UUID) (*File, error)
	FetchByOwner(ctx context.Context, ownerID uuid.UUID, page int) (Files, error)
	FetchAllByOwner(ctx context.Context, ownerID uuid.UUID) (Files, error)
	FetchLatestByOwner(ctx context.Context, ownerID uuid.UUID, limit int) (Files, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	FetchRowCountMismatches(ctx context.Context) ([]RowCountMismatch, error)
	UpdateRowCount(ctx context.Context, id uuid.UUID, rowCount int) error
}
