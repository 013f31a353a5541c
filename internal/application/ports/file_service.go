package ports

import (
	"context"
	"io"

	"github.com/google/uuid"

	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
)

type (
	// Download carries either a direct link or an open stream of the stored file.
	Download struct {
		File        *file.File
		RedirectURL string
		Body        io.ReadCloser
	}
	DashboardSummary struct {
		FileCount   int64
		RowCount    int64
		LatestFiles file.Files
	}
	ReconcileReport struct {
		Mismatches []file.RowCountMismatch
		Repaired   int
	}
)

type FileService interface {
	ListFiles(ctx context.Context, ownerID uuid.UUID, page int) (file.Files, error)
	GetFile(ctx context.Context, ownerID, fileID uuid.UUID) (*file.File, error)
	Download(ctx context.Context, ownerID, fileID uuid.UUID) (*Download, error)
	FileRows(ctx context.Context, ownerID, fileID uuid.UUID) ([]datarow.Row, error)
	LatestRows(ctx context.Context, ownerID uuid.UUID) ([]datarow.Row, error)
	Summary(ctx context.Context, ownerID uuid.UUID) (*DashboardSummary, error)
	Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error)
}
