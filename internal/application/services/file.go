package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
	"sheet-insights-api/internal/infrastructure/blob"
)

const (
	latestRowsLimit  = 100
	latestFilesLimit = 5
	signedURLTTL     = 15 * time.Minute
)

type FileService struct {
	fileRepository file.Repository
	rowRepository  datarow.Repository
	blobs          ports.BlobStore
	mCounter       *prometheus.CounterVec
	logger         *zap.Logger
}

func NewFileService(
	fileRepository file.Repository,
	rowRepository datarow.Repository,
	blobs ports.BlobStore,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.FileService {
	return &FileService{
		fileRepository: fileRepository,
		rowRepository:  rowRepository,
		blobs:          blobs,
		mCounter:       mCounter,
		logger:         logger,
	}
}

func (fs *FileService) ListFiles(ctx context.Context, ownerID uuid.UUID, page int) (file.Files, error) {
	return fs.fileRepository.FetchByOwner(ctx, ownerID, page)
}

func (fs *FileService) GetFile(ctx context.Context, ownerID, fileID uuid.UUID) (*file.File, error) {
	return fs.fileRepository.FetchByID(ctx, fileID, ownerID)
}

// Download prefers a short-lived signed link and streams the blob whenever
// signing fails.
func (fs *FileService) Download(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.Download, error) {
	f, err := fs.fileRepository.FetchByID(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFileNotFound
	}

	link, err := fs.blobs.SignedURL(ctx, f.StoredName, signedURLTTL)
	if err == nil {
		return &ports.Download{File: f, RedirectURL: link}, nil
	}
	if !errors.Is(err, blob.ErrNoSignedURL) {
		fs.logger.Warn("SignedURL() error, streaming instead",
			zap.String("key", f.StoredName),
			zap.Error(err),
		)
	}

	body, err := fs.blobs.Open(ctx, f.StoredName)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}

	return &ports.Download{File: f, Body: body}, nil
}

func (fs *FileService) FileRows(ctx context.Context, ownerID, fileID uuid.UUID) ([]datarow.Row, error) {
	rows, err := fs.rowRepository.FetchByFile(ctx, fileID, ownerID, 0)
	if err != nil {
		return nil, err
	}

	return rows.Values(), nil
}

func (fs *FileService) LatestRows(ctx context.Context, ownerID uuid.UUID) ([]datarow.Row, error) {
	rows, err := fs.rowRepository.FetchLatestByOwner(ctx, ownerID, latestRowsLimit)
	if err != nil {
		return nil, err
	}

	return rows.Values(), nil
}

func (fs *FileService) Summary(ctx context.Context, ownerID uuid.UUID) (*ports.DashboardSummary, error) {
	files, err := fs.fileRepository.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	rows, err := fs.rowRepository.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}
	latest, err := fs.fileRepository.FetchLatestByOwner(ctx, ownerID, latestFilesLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch latest files: %w", err)
	}

	return &ports.DashboardSummary{FileCount: files, RowCount: rows, LatestFiles: latest}, nil
}

// Reconcile finds records whose rowCount disagrees with the stored rows and,
// when repair is set, rewrites rowCount to the stored number.
func (fs *FileService) Reconcile(ctx context.Context, repair bool) (*ports.ReconcileReport, error) {
	mismatches, err := fs.fileRepository.FetchRowCountMismatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch mismatches: %w", err)
	}

	rep := &ports.ReconcileReport{Mismatches: mismatches}
	if !repair {
		return rep, nil
	}

	for _, m := range mismatches {
		if err = fs.fileRepository.UpdateRowCount(ctx, m.FileID, int(m.StoredRows)); err != nil {
			return rep, fmt.Errorf("repair %s: %w", m.FileID, err)
		}
		rep.Repaired++
	}
	if rep.Repaired > 0 {
		fs.mCounter.WithLabelValues("row_count_repaired_total").Add(float64(rep.Repaired))
		fs.logger.Info("row counts repaired", zap.Int("files", rep.Repaired))
	}

	return rep, nil
}
