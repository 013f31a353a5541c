package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
	"sheet-insights-api/internal/domain/user"
	"sheet-insights-api/internal/infrastructure/blob"
	"sheet-insights-api/internal/infrastructure/mq"
)

const ReasonNotFound = "File not found or access denied"

type DeletionService struct {
	userRepository user.Repository
	fileRepository file.Repository
	rowRepository  datarow.Repository
	tx             ports.Transactor
	blobs          ports.BlobStore
	cache          ports.InsightCache
	events         ports.EventPublisher
	mCounter       *prometheus.CounterVec
	logger         *zap.Logger
}

func NewDeletionService(
	userRepository user.Repository,
	fileRepository file.Repository,
	rowRepository datarow.Repository,
	tx ports.Transactor,
	blobs ports.BlobStore,
	cache ports.InsightCache,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.DeletionService {
	return &DeletionService{
		userRepository: userRepository,
		fileRepository: fileRepository,
		rowRepository:  rowRepository,
		tx:             tx,
		blobs:          blobs,
		cache:          cache,
		events:         events,
		mCounter:       mCounter,
		logger:         logger,
	}
}

// DeleteFile removes one file owned by ownerID. A missing or foreign file
// yields Found=false and no error, so repeating the call is harmless.
func (ds *DeletionService) DeleteFile(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileDeletion, error) {
	f, err := ds.fileRepository.FetchByID(ctx, fileID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	if f == nil {
		return &ports.FileDeletion{FileID: fileID}, nil
	}

	return ds.deleteOne(ctx, f)
}

func (ds *DeletionService) DeleteFiles(ctx context.Context, ownerID uuid.UUID, fileIDs []string) (*ports.BulkDeletion, error) {
	res := &ports.BulkDeletion{
		Successful: make([]*ports.FileDeletion, 0, len(fileIDs)),
		Failed:     make([]ports.BulkFailure, 0),
	}

	for _, raw := range fileIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			res.Failed = append(res.Failed, ports.BulkFailure{FileID: raw, Reason: ReasonNotFound})
			continue
		}

		d, err := ds.DeleteFile(ctx, ownerID, id)
		if err != nil {
			ds.logger.Error("DeleteFiles() error", zap.String("file_id", raw), zap.Error(err))
			res.Failed = append(res.Failed, ports.BulkFailure{FileID: raw, Reason: "Failed to delete file"})
			continue
		}
		if !d.Found {
			res.Failed = append(res.Failed, ports.BulkFailure{FileID: raw, Reason: ReasonNotFound})
			continue
		}

		res.Successful = append(res.Successful, d)
		res.TotalDeleted++
		res.TotalDataRowsDeleted += d.DataRowsDeleted
	}

	return res, nil
}

// DeleteAccount tears down everything a user owns and then the user itself.
// Every step tolerates data that is already gone, so a retry after a partial
// failure converges.
func (ds *DeletionService) DeleteAccount(ctx context.Context, userID uuid.UUID, reason string) (*ports.AccountDeletion, error) {
	u, err := ds.userRepository.FetchUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	res := &ports.AccountDeletion{User: u, Errors: []string{}, Warnings: []string{}}
	if u == nil {
		res.Warnings = append(res.Warnings, "User not found")
	}

	files, err := ds.fileRepository.FetchAllByOwner(ctx, userID)
	if err != nil {
		ds.logger.Error("DeleteAccount() error", zap.Error(err))
		res.Errors = append(res.Errors, "Failed to list user files")
	}
	for _, f := range files {
		d, err := ds.deleteOne(ctx, f)
		if err != nil {
			ds.logger.Error("DeleteAccount() error", zap.String("file_id", f.ID.String()), zap.Error(err))
			res.Errors = append(res.Errors, fmt.Sprintf("Failed to delete file %s", f.OriginalName))
			continue
		}
		if d.BlobDeleted {
			res.FilesDeleted++
		}
		if d.MetadataDeleted {
			res.FileMetadataDeleted++
		}
		res.DataRowsDeleted += d.DataRowsDeleted
		res.StorageFreed += d.BytesFreed
		res.Warnings = append(res.Warnings, d.Warnings...)
	}

	if u != nil && u.ProfilePic != nil && *u.ProfilePic != "" {
		freed, err := ds.deleteBlob(ctx, *u.ProfilePic, 0)
		switch {
		case errors.Is(err, blob.ErrNotFound):
			res.Warnings = append(res.Warnings, "Profile picture file not found in storage")
		case err != nil:
			res.Warnings = append(res.Warnings, "Failed to delete profile picture: "+err.Error())
		default:
			res.ProfilePicDeleted = true
			res.StorageFreed += freed
		}
	}

	// rows and records left behind by earlier failed attempts
	n, err := ds.rowRepository.DeleteByOwner(ctx, userID)
	if err != nil {
		ds.logger.Error("DeleteAccount() error", zap.Error(err))
		res.Errors = append(res.Errors, "Failed to delete remaining data rows")
	}
	res.DataRowsDeleted += n

	m, err := ds.fileRepository.DeleteByOwner(ctx, userID)
	if err != nil {
		ds.logger.Error("DeleteAccount() error", zap.Error(err))
		res.Errors = append(res.Errors, "Failed to delete remaining file records")
	}
	res.FileMetadataDeleted += m

	if u != nil {
		if _, err = ds.userRepository.DeleteUser(ctx, userID); err != nil {
			ds.logger.Error("DeleteAccount() error", zap.Error(err))
			res.Errors = append(res.Errors, "Failed to delete user account")
		}
	}

	res.Success = len(res.Errors) == 0
	if res.Success && u != nil {
		ds.mCounter.WithLabelValues("account_deleted_total").Inc()
		ds.events.Enqueue(mq.NewEvent(mq.ActionAccountDeleted, userID.String(), "", map[string]any{
			"reason":          reason,
			"filesDeleted":    res.FilesDeleted,
			"dataRowsDeleted": res.DataRowsDeleted,
		}))
	}
	ds.logger.Info("account deletion finished",
		zap.String("user_id", userID.String()),
		zap.String("reason", reason),
		zap.Bool("success", res.Success),
		zap.Int("warnings", len(res.Warnings)),
	)

	return res, nil
}

// AccountDeletionStats previews what DeleteAccount would remove. Nil for unknown users.
func (ds *DeletionService) AccountDeletionStats(ctx context.Context, userID uuid.UUID) (*ports.AccountDeletionStats, error) {
	u, err := ds.userRepository.FetchUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if u == nil {
		return nil, nil
	}

	files, err := ds.fileRepository.FetchAllByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch files: %w", err)
	}
	rows, err := ds.rowRepository.CountByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	stats := &ports.AccountDeletionStats{User: u, Files: len(files), DataRows: rows}
	for _, f := range files {
		stats.StorageUsed += f.SizeBytes
	}

	return stats, nil
}

// deleteOne runs the per-file sequence: rows and record in one transaction,
// then the blob on a best-effort basis.
func (ds *DeletionService) deleteOne(ctx context.Context, f *file.File) (*ports.FileDeletion, error) {
	res := &ports.FileDeletion{
		Found:    true,
		FileID:   f.ID,
		FileName: f.OriginalName,
		Warnings: []string{},
	}

	err := ds.tx.RunInTx(ctx, func(repos ports.TxRepos) error {
		n, err := repos.Rows.DeleteByFile(ctx, f.ID)
		if err != nil {
			return fmt.Errorf("delete rows: %w", err)
		}
		ok, err := repos.Files.Delete(ctx, f.ID, f.UploadedBy)
		if err != nil {
			return fmt.Errorf("delete file record: %w", err)
		}
		res.DataRowsDeleted, res.MetadataDeleted = n, ok
		return nil
	})
	if err != nil {
		return nil, err
	}
	ds.cache.Delete(f.ID)

	freed, err := ds.deleteBlob(ctx, f.StoredName, f.SizeBytes)
	switch {
	case errors.Is(err, blob.ErrNotFound):
		res.Warnings = append(res.Warnings, fmt.Sprintf("File %s not found in storage", f.OriginalName))
	case err != nil:
		res.Warnings = append(res.Warnings, fmt.Sprintf("Failed to delete file %s from storage: %v", f.OriginalName, err))
	default:
		res.BlobDeleted = true
		res.BytesFreed = freed
	}
	if err != nil {
		ds.logger.Warn("blob not deleted",
			zap.String("file_id", f.ID.String()),
			zap.String("stored_name", f.StoredName),
			zap.Error(err),
		)
	}

	ds.mCounter.WithLabelValues("file_deleted_total").Inc()
	ds.events.Enqueue(mq.NewEvent(mq.ActionFileDeleted, f.UploadedBy.String(), f.ID.String(), map[string]any{
		"fileName":        f.OriginalName,
		"dataRowsDeleted": res.DataRowsDeleted,
		"blobDeleted":     res.BlobDeleted,
	}))

	return res, nil
}

// deleteBlob returns the freed size, falling back to the recorded one when
// the store cannot stat the object.
func (ds *DeletionService) deleteBlob(ctx context.Context, key string, recorded int64) (int64, error) {
	size, err := ds.blobs.Size(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return 0, err
		}
		size = recorded
	}
	if err = ds.blobs.Delete(ctx, key); err != nil {
		return 0, err
	}

	return size, nil
}
