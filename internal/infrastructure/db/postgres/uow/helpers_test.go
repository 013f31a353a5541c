package uow

import (
	"github.com/google/uuid"

	domain "sheet-insights-api/internal/domain/datarow"
)

func nonEmptyBatch() domain.DataRows {
	return domain.DataRows{{FileID: uuid.New(), UploadedBy: uuid.New(), Data: domain.Row{"a": domain.Number(1)}}}
}
