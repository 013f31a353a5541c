package file

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sheet-insights-api/internal/domain/file"
	"sheet-insights-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) file.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req *file.File) (*file.File, error) {
	header := req.Columns
	if header == nil {
		header = []string{}
	}

	f := new(File)
	err := r.db.QueryRow(
		ctx,
		InsertFile,
		req.OriginalName, req.StoredName, req.UploadedBy, int32(req.RowCount),
		req.DownloadURL, req.ContentType, req.SizeBytes, header,
	).Scan(f.scanTargets()...)
	if err != nil {
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchByID(ctx context.Context, id, ownerID uuid.UUID) (*file.File, error) {
	f := new(File)
	err := r.db.QueryRow(ctx, SelectFileByID, id, ownerID).Scan(f.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchByOwner(ctx context.Context, ownerID uuid.UUID, page int) (file.Files, error) {
	return r.fetch(ctx, SelectFilesByOwner, ownerID, page)
}

func (r *Repository) FetchAllByOwner(ctx context.Context, ownerID uuid.UUID) (file.Files, error) {
	return r.fetch(ctx, SelectAllFilesByOwner, ownerID)
}

func (r *Repository) FetchLatestByOwner(ctx context.Context, ownerID uuid.UUID, limit int) (file.Files, error) {
	return r.fetch(ctx, SelectLatestFilesByOwner, ownerID, limit)
}

func (r *Repository) fetch(ctx context.Context, query string, args ...any) (file.Files, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fs := make(Files, 0)
	for rows.Next() {
		f := new(File)
		if err = rows.Scan(f.scanTargets()...); err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(fs), nil
}

func (r *Repository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, CountFilesByOwner, ownerID).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *Repository) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteFile, id, ownerID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, DeleteFilesByOwner, ownerID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *Repository) FetchRowCountMismatches(ctx context.Context) ([]file.RowCountMismatch, error) {
	rows, err := r.db.Query(ctx, SelectRowCountMismatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]file.RowCountMismatch, 0)
	for rows.Next() {
		var (
			m        file.RowCountMismatch
			rowCount int32
		)
		if err = rows.Scan(&m.FileID, &m.UploadedBy, &rowCount, &m.StoredRows); err != nil {
			return nil, err
		}
		m.RowCount = int(rowCount)
		out = append(out, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Repository) UpdateRowCount(ctx context.Context, id uuid.UUID, rowCount int) error {
	_, err := r.db.Exec(ctx, UpdateRowCount, id, int32(rowCount))
	return err
}
