package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
	"sheet-insights-api/internal/infrastructure/mq"
)

type IngestionKind string

const (
	ParseFailed         IngestionKind = "parse_failed"
	BlobWriteFailed     IngestionKind = "blob_write_failed"
	MetadataWriteFailed IngestionKind = "metadata_write_failed"
	RowWriteFailed      IngestionKind = "row_write_failed"
)

// IngestionError tells which stage of an upload failed.
type IngestionError struct {
	Kind IngestionKind
	Err  error
}

func (e *IngestionError) Error() string { return fmt.Sprintf("ingest: %s: %v", e.Kind, e.Err) }
func (e *IngestionError) Unwrap() error { return e.Err }

type IngestionService struct {
	parser    ports.SheetParser
	blobs     ports.BlobStore
	tx        ports.Transactor
	events    ports.EventPublisher
	mCounter  *prometheus.CounterVec
	mRows     prometheus.Histogram
	logger    *zap.Logger
	timeNowFn func() time.Time
}

func NewIngestionService(
	parser ports.SheetParser,
	blobs ports.BlobStore,
	tx ports.Transactor,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	mRows prometheus.Histogram,
	logger *zap.Logger,
) ports.IngestionService {
	return &IngestionService{
		parser:    parser,
		blobs:     blobs,
		tx:        tx,
		events:    events,
		mCounter:  mCounter,
		mRows:     mRows,
		logger:    logger,
		timeNowFn: time.Now,
	}
}

func (is *IngestionService) Ingest(ctx context.Context, req ports.IngestRequest) (*ports.IngestResult, error) {
	name := displayName(req.OriginalName)

	sh, err := is.parser.Parse(name, req.Data)
	if err != nil {
		is.mCounter.WithLabelValues("ingest_parse_failed_total").Inc()
		return nil, &IngestionError{Kind: ParseFailed, Err: err}
	}

	key := storageKey(name, req.ContentType, req.OwnerID, is.timeNowFn())
	url, err := is.blobs.Put(ctx, key, bytes.NewReader(req.Data), req.ContentType)
	if err != nil {
		return nil, &IngestionError{Kind: BlobWriteFailed, Err: err}
	}

	var created *file.File
	err = is.tx.RunInTx(ctx, func(repos ports.TxRepos) error {
		f, err := repos.Files.Create(ctx, &file.File{
			OriginalName: name,
			StoredName:   key,
			UploadedBy:   req.OwnerID,
			RowCount:     len(sh.Rows),
			DownloadURL:  url,
			ContentType:  req.ContentType,
			SizeBytes:    int64(len(req.Data)),
			Columns:      sh.Columns,
		})
		if err != nil {
			return &IngestionError{Kind: MetadataWriteFailed, Err: err}
		}

		rows := make(datarow.DataRows, len(sh.Rows))
		for idx, r := range sh.Rows {
			rows[idx] = &datarow.DataRow{
				FileID:     f.ID,
				RowIndex:   idx,
				Data:       r,
				UploadedBy: req.OwnerID,
			}
		}
		n, err := repos.Rows.InsertBatch(ctx, rows)
		if err != nil {
			return &IngestionError{Kind: RowWriteFailed, Err: err}
		}
		if n != int64(len(rows)) {
			return &IngestionError{
				Kind: RowWriteFailed,
				Err:  fmt.Errorf("stored %d of %d rows", n, len(rows)),
			}
		}

		created = f
		return nil
	})
	if err != nil {
		is.compensate(key)

		var ie *IngestionError
		if !errors.As(err, &ie) {
			ie = &IngestionError{Kind: MetadataWriteFailed, Err: err}
		}
		is.mCounter.WithLabelValues("ingest_write_failed_total").Inc()
		return nil, ie
	}

	is.mCounter.WithLabelValues("file_uploaded_total").Inc()
	is.mRows.Observe(float64(created.RowCount))
	is.events.Enqueue(mq.NewEvent(
		mq.ActionFileUploaded,
		req.OwnerID.String(),
		created.ID.String(),
		map[string]any{"fileName": created.OriginalName, "rowCount": created.RowCount},
	))

	return &ports.IngestResult{File: created, RowCount: created.RowCount}, nil
}

// IngestPath uploads a spreadsheet that already sits on local disk.
func (is *IngestionService) IngestPath(ctx context.Context, ownerID uuid.UUID, path string) (*ports.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return is.Ingest(ctx, ports.IngestRequest{
		OwnerID:      ownerID,
		OriginalName: filepath.Base(path),
		Data:         data,
	})
}

// compensate removes a blob whose metadata never made it to the database.
// The request context may already be gone at this point.
func (is *IngestionService) compensate(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := is.blobs.Delete(ctx, key); err != nil {
		is.logger.Warn("orphaned blob left after failed ingestion",
			zap.String("stored_name", key),
			zap.Error(err),
		)
	}
}
