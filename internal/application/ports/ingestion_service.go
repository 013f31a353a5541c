package ports

import (
	"context"

	"github.com/google/uuid"

	"sheet-insights-api/internal/domain/file"
)

type (
	IngestRequest struct {
		OwnerID      uuid.UUID
		OriginalName string
		ContentType  string
		Data         []byte
	}
	IngestResult struct {
		File     *file.File
		RowCount int
	}
)

type IngestionService interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
	IngestPath(ctx context.Context, ownerID uuid.UUID, path string) (*IngestResult, error)
}
