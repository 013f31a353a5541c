package file

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "sheet-insights-api/internal/domain/file"
)

var cols = []string{
	"id", "original_name", "stored_name", "uploaded_by", "uploaded_at",
	"row_count", "download_url", "content_type", "size_bytes", "header",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)

	owner, id := uuid.New(), uuid.New()
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	req := &domain.File{
		OriginalName: "sales.xlsx",
		StoredName:   "sheets/k/sales.xlsx",
		UploadedBy:   owner,
		RowCount:     3,
		DownloadURL:  "/uploads/sheets/k/sales.xlsx",
		ContentType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		SizeBytes:    2048,
		Columns:      []string{"name", "score"},
	}

	mock.ExpectQuery(InsertFile).
		WithArgs(req.OriginalName, req.StoredName, owner, int32(3), req.DownloadURL, req.ContentType, int64(2048), req.Columns).
		WillReturnRows(mock.NewRows(cols).AddRow(
			id, req.OriginalName, req.StoredName, owner, at,
			int32(3), req.DownloadURL, req.ContentType, int64(2048), req.Columns,
		))

	got, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 3, got.RowCount)
	assert.Equal(t, at, got.UploadedAt)
	assert.Equal(t, []string{"name", "score"}, got.Columns)
}

func TestRepository_FetchByID(t *testing.T) {
	owner, id := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		setup   func(m pgxmock.PgxPoolIface)
		wantNil bool
		wantErr bool
	}{
		{
			name: "found",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(SelectFileByID).WithArgs(id, owner).
					WillReturnRows(m.NewRows(cols).AddRow(
						id, "a.csv", "k", owner, time.Now(), int32(1), "", "text/csv", int64(4), []string(nil),
					))
			},
		},
		{
			name: "not found or not owned",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(SelectFileByID).WithArgs(id, owner).WillReturnError(pgx.ErrNoRows)
			},
			wantNil: true,
		},
		{
			name: "db error",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(SelectFileByID).WithArgs(id, owner).WillReturnError(errors.New("boom"))
			},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			got, err := NewRepository(mock).FetchByID(context.Background(), id, owner)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, id, got.ID)
			assert.NotNil(t, got.Columns)
		})
	}
}

func TestRepository_FetchByOwner(t *testing.T) {
	mock := newMock(t)
	owner := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(SelectFilesByOwner).WithArgs(owner, 2).
		WillReturnRows(mock.NewRows(cols).
			AddRow(a, "a.csv", "ka", owner, time.Now(), int32(1), "", "", int64(1), []string{"x"}).
			AddRow(b, "b.csv", "kb", owner, time.Now(), int32(2), "", "", int64(2), []string{"y"}))

	got, err := NewRepository(mock).FetchByOwner(context.Background(), owner, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, b, got[1].ID)
}

func TestRepository_FetchLatestByOwner_Empty(t *testing.T) {
	mock := newMock(t)
	owner := uuid.New()

	mock.ExpectQuery(SelectLatestFilesByOwner).WithArgs(owner, 5).WillReturnRows(mock.NewRows(cols))

	got, err := NewRepository(mock).FetchLatestByOwner(context.Background(), owner, 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepository_Delete(t *testing.T) {
	mock := newMock(t)
	owner, id := uuid.New(), uuid.New()
	repo := NewRepository(mock)

	mock.ExpectExec(DeleteFile).WithArgs(id, owner).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(DeleteFile).WithArgs(id, owner).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(DeleteFilesByOwner).WithArgs(owner).WillReturnResult(pgxmock.NewResult("DELETE", 4))

	ok, err := repo.Delete(context.Background(), id, owner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(context.Background(), id, owner)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.DeleteByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestRepository_CountByOwner(t *testing.T) {
	mock := newMock(t)
	owner := uuid.New()

	mock.ExpectQuery(CountFilesByOwner).WithArgs(owner).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := NewRepository(mock).CountByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestRepository_RowCountMismatches(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(SelectRowCountMismatches).
		WillReturnRows(mock.NewRows([]string{"id", "uploaded_by", "row_count", "count"}).
			AddRow(id, owner, int32(10), int64(4)))
	mock.ExpectExec(UpdateRowCount).WithArgs(id, int32(4)).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	got, err := repo.FetchRowCountMismatches(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.RowCountMismatch{FileID: id, UploadedBy: owner, RowCount: 10, StoredRows: 4}, got[0])

	require.NoError(t, repo.UpdateRowCount(context.Background(), id, 4))
}
