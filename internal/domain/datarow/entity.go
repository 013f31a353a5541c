package datarow

import (
	"time"

	"github.com/google/uuid"
)

type (
	DataRow struct {
		ID         uuid.UUID
		FileID     uuid.UUID
		RowIndex   int
		Data       Row
		UploadedBy uuid.UUID
		CreatedAt  time.Time
	}
	DataRows []*DataRow
)

// Values projects the stored rows back to their cell maps, keeping order.
func (rs DataRows) Values() []Row {
	out := make([]Row, len(rs))
	for idx, r := range rs {
		out[idx] = r.Data
	}

	return out
}
