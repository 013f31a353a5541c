package ports

import (
	"context"

	"github.com/google/uuid"

	"sheet-insights-api/internal/domain/user"
)

type (
	FileDeletion struct {
		Found           bool
		FileID          uuid.UUID
		FileName        string
		DataRowsDeleted int64
		MetadataDeleted bool
		BlobDeleted     bool
		BytesFreed      int64
		Warnings        []string
	}
	BulkFailure struct {
		FileID string
		Reason string
	}
	BulkDeletion struct {
		Successful           []*FileDeletion
		Failed               []BulkFailure
		TotalDeleted         int
		TotalDataRowsDeleted int64
	}
	AccountDeletion struct {
		Success             bool
		User                *user.User
		FilesDeleted        int
		DataRowsDeleted     int64
		FileMetadataDeleted int64
		StorageFreed        int64
		ProfilePicDeleted   bool
		Errors              []string
		Warnings            []string
	}
	AccountDeletionStats struct {
		User        *user.User
		Files       int
		DataRows    int64
		StorageUsed int64
	}
)

type DeletionService interface {
	DeleteFile(ctx context.Context, ownerID, fileID uuid.UUID) (*FileDeletion, error)
	DeleteFiles(ctx context.Context, ownerID uuid.UUID, fileIDs []string) (*BulkDeletion, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID, reason string) (*AccountDeletion, error)
	AccountDeletionStats(ctx context.Context, userID uuid.UUID) (*AccountDeletionStats, error)
}
