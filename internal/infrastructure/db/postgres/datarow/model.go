package datarow

import (
	"time"

	"github.com/google/uuid"
)

type (
	DataRow struct {
		ID         uuid.UUID
		FileID     uuid.UUID
		RowIndex   int32
		Data       []byte
		UploadedBy uuid.UUID
		CreatedAt  time.Time
	}
	DataRows []*DataRow
)
