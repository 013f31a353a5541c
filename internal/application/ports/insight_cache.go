package ports

import (
	"github.com/google/uuid"

	"sheet-insights-api/internal/domain/insight"
)

type InsightCache interface {
	Get(fileID uuid.UUID) (*insight.Report, bool)
	Set(fileID uuid.UUID, rep *insight.Report)
	Delete(fileID uuid.UUID)
}
