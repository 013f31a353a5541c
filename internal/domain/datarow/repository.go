package datarow

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	InsertBatch(ctx context.Context, rows DataRows) (int64, error)
	// FetchByFile returns rows ordered by row index; limit <= 0 means all rows.
	FetchByFile(ctx context.Context, fileID, ownerID uuid.UUID, limit int) (DataRows, error)
	FetchLatestByOwner(ctx context.Context, ownerID uuid.UUID, limit int) (DataRows, error)
	CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	DeleteByFile(ctx context.Context, fileID uuid.UUID) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
