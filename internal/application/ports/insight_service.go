package ports

import (
	"context"

	"github.com/google/uuid"

	"sheet-insights-api/internal/domain/file"
	"sheet-insights-api/internal/domain/insight"
)

type FileInsights struct {
	File   *file.File
	Report *insight.Report
}

type InsightService interface {
	// Analyze returns the fallback report together with an error wrapping
	// services.ErrInsightsUnavailable when the analysis itself failed.
	Analyze(ctx context.Context, ownerID, fileID uuid.UUID) (*FileInsights, error)
	AnalyzeAll(ctx context.Context, ownerID uuid.UUID) ([]*FileInsights, error)
}
