package datarow

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) datarow.Repository {
	return &Repository{db: db}
}

// InsertBatch writes all rows with a single COPY.
func (r *Repository) InsertBatch(ctx context.Context, rows datarow.DataRows) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		return toCopyRow(rows[i])
	})

	return r.db.CopyFrom(ctx, pgx.Identifier{TableDataRows}, copyColumns, src)
}

func (r *Repository) FetchByFile(ctx context.Context, fileID, ownerID uuid.UUID, limit int) (datarow.DataRows, error) {
	if limit < 0 {
		limit = 0
	}
	return r.fetch(ctx, SelectRowsByFile, fileID, ownerID, limit)
}

func (r *Repository) FetchLatestByOwner(ctx context.Context, ownerID uuid.UUID, limit int) (datarow.DataRows, error) {
	return r.fetch(ctx, SelectLatestRowsByOwner, ownerID, limit)
}

func (r *Repository) fetch(ctx context.Context, query string, args ...any) (datarow.DataRows, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ms := make(DataRows, 0)
	for rows.Next() {
		m := new(DataRow)
		if err = rows.Scan(
			&m.ID,
			&m.FileID,
			&m.RowIndex,
			&m.Data,
			&m.UploadedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(ms)
}

func (r *Repository) CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	return r.count(ctx, CountRowsByFile, fileID)
}

func (r *Repository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return r.count(ctx, CountRowsByOwner, ownerID)
}

func (r *Repository) count(ctx context.Context, query string, id uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *Repository) DeleteByFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	return r.delete(ctx, DeleteRowsByFile, fileID)
}

func (r *Repository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return r.delete(ctx, DeleteRowsByOwner, ownerID)
}

func (r *Repository) delete(ctx context.Context, query string, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
