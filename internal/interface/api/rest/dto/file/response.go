package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID           uuid.UUID `json:"id"`
		OriginalName string    `json:"originalName"`
		StoredName   string    `json:"storedName"`
		UploadedBy   uuid.UUID `json:"uploadedBy"`
		UploadedAt   time.Time `json:"uploadedAt"`
		RowCount     int       `json:"rowCount"`
		DownloadURL  string    `json:"downloadUrl"`
		ContentType  string    `json:"contentType,omitempty"`
		SizeBytes    int64     `json:"sizeBytes"`
		Columns      []string  `json:"columns"`
	}
	Files []File

	UploadResponse struct {
		Message  string `json:"message"`
		FileMeta File   `json:"fileMeta"`
		RowCount int    `json:"rowCount"`
	}

	DeleteDetails struct {
		FileName               string   `json:"fileName"`
		DataRowsDeleted        int64    `json:"dataRowsDeleted"`
		FileDeletedFromStorage bool     `json:"fileDeletedFromStorage"`
		FileSize               int64    `json:"fileSize"`
		Warnings               []string `json:"warnings,omitempty"`
	}
	DeleteResponse struct {
		Message string        `json:"message"`
		Details DeleteDetails `json:"details"`
	}

	BulkDeleteRequest struct {
		FileIDs []string `json:"fileIds"`
	}
	BulkDeleted struct {
		FileID                 uuid.UUID `json:"fileId"`
		FileName               string    `json:"fileName"`
		DataRowsDeleted        int64     `json:"dataRowsDeleted"`
		FileDeletedFromStorage bool      `json:"fileDeletedFromStorage"`
	}
	BulkFailed struct {
		FileID string `json:"fileId"`
		Reason string `json:"reason"`
	}
	BulkResults struct {
		Successful           []BulkDeleted `json:"successful"`
		Failed               []BulkFailed  `json:"failed"`
		TotalDeleted         int           `json:"totalDeleted"`
		TotalDataRowsDeleted int64         `json:"totalDataRowsDeleted"`
	}
	BulkDeleteResponse struct {
		Message string      `json:"message"`
		Results BulkResults `json:"results"`
	}

	SummaryResponse struct {
		FileCount   int64 `json:"fileCount"`
		RowCount    int64 `json:"rowCount"`
		LatestFiles Files `json:"latestFiles"`
	}

	Mismatch struct {
		FileID     uuid.UUID `json:"fileId"`
		UploadedBy uuid.UUID `json:"uploadedBy"`
		RowCount   int       `json:"rowCount"`
		StoredRows int64     `json:"storedRows"`
	}
	ReconcileResponse struct {
		Mismatches []Mismatch `json:"mismatches"`
		Repaired   int        `json:"repaired"`
	}
)
