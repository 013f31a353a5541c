package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID           uuid.UUID
		OriginalName string
		StoredName   string
		UploadedBy   uuid.UUID
		UploadedAt   time.Time
		RowCount     int32
		DownloadURL  string
		ContentType  string
		SizeBytes    int64
		Header       []string
	}
	Files []*File
)

func (f *File) scanTargets() []any {
	return []any{
		&f.ID,
		&f.OriginalName,
		&f.StoredName,
		&f.UploadedBy,
		&f.UploadedAt,
		&f.RowCount,
		&f.DownloadURL,
		&f.ContentType,
		&f.SizeBytes,
		&f.Header,
	}
}
