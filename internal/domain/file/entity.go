package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	// File is the registry record of one uploaded spreadsheet.
	File struct {
		ID           uuid.UUID
		OriginalName string
		StoredName   string
		UploadedBy   uuid.UUID
		UploadedAt   time.Time
		RowCount     int
		DownloadURL  string
		ContentType  string
		SizeBytes    int64
		Columns      []string
	}
	Files []*File

	// RowCountMismatch is a record whose rowCount disagrees with the rows actually stored.
	RowCountMismatch struct {
		FileID     uuid.UUID
		UploadedBy uuid.UUID
		RowCount   int
		StoredRows int64
	}
)
