package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
	"sheet-insights-api/internal/domain/insight"
	"sheet-insights-api/internal/domain/user"
	"sheet-insights-api/internal/infrastructure/blob"
	"sheet-insights-api/internal/infrastructure/mq"
)

// memStore backs the file and row fakes. fail injects an error per operation name.
type memStore struct {
	files map[uuid.UUID]*file.File
	rows  []*datarow.DataRow
	seq   int
	fail  map[string]error
}

func newMemStore() *memStore {
	return &memStore{files: map[uuid.UUID]*file.File{}, fail: map[string]error{}}
}

func (m *memStore) repos() ports.TxRepos {
	return ports.TxRepos{Files: memFiles{m}, Rows: memRows{m}}
}

// addFile registers a file with n stored rows and returns it.
func (m *memStore) addFile(owner uuid.UUID, name string, n int) *file.File {
	m.seq++
	f := &file.File{
		ID:           uuid.New(),
		OriginalName: name,
		StoredName:   "sheets/" + name,
		UploadedBy:   owner,
		UploadedAt:   time.Unix(int64(m.seq), 0),
		RowCount:     n,
		SizeBytes:    int64(10 * n),
	}
	m.files[f.ID] = f
	for i := 0; i < n; i++ {
		m.seq++
		m.rows = append(m.rows, &datarow.DataRow{
			ID:         uuid.New(),
			FileID:     f.ID,
			RowIndex:   i,
			Data:       datarow.Row{"n": datarow.Number(float64(i + 1))},
			UploadedBy: owner,
			CreatedAt:  time.Unix(int64(m.seq), 0),
		})
	}

	return f
}

type memTx struct{ *memStore }

func (t memTx) RunInTx(_ context.Context, fn func(repos ports.TxRepos) error) error {
	if err := t.fail["Tx.Begin"]; err != nil {
		return err
	}

	files := make(map[uuid.UUID]*file.File, len(t.files))
	for k, v := range t.files {
		files[k] = v
	}
	rows := append([]*datarow.DataRow(nil), t.rows...)

	if err := fn(t.repos()); err != nil {
		t.files, t.rows = files, rows
		return err
	}

	return nil
}

type memFiles struct{ *memStore }

func (m memFiles) Create(_ context.Context, req *file.File) (*file.File, error) {
	if err := m.fail["Files.Create"]; err != nil {
		return nil, err
	}
	m.seq++
	f := *req
	f.ID = uuid.New()
	f.UploadedAt = time.Unix(int64(m.seq), 0)
	m.files[f.ID] = &f

	return &f, nil
}

func (m memFiles) FetchByID(_ context.Context, id, ownerID uuid.UUID) (*file.File, error) {
	if err := m.fail["Files.FetchByID"]; err != nil {
		return nil, err
	}
	f, ok := m.files[id]
	if !ok || f.UploadedBy != ownerID {
		return nil, nil
	}

	return f, nil
}

func (m memFiles) owned(ownerID uuid.UUID) file.Files {
	var out file.Files
	for _, f := range m.files {
		if f.UploadedBy == ownerID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })

	return out
}

func (m memFiles) FetchByOwner(_ context.Context, ownerID uuid.UUID, page int) (file.Files, error) {
	if err := m.fail["Files.FetchByOwner"]; err != nil {
		return nil, err
	}
	all := m.owned(ownerID)
	from := (page - 1) * 50
	if from >= len(all) {
		return file.Files{}, nil
	}

	return all[from:min(from+50, len(all))], nil
}

func (m memFiles) FetchAllByOwner(_ context.Context, ownerID uuid.UUID) (file.Files, error) {
	if err := m.fail["Files.FetchAllByOwner"]; err != nil {
		return nil, err
	}

	return m.owned(ownerID), nil
}

func (m memFiles) FetchLatestByOwner(_ context.Context, ownerID uuid.UUID, limit int) (file.Files, error) {
	all := m.owned(ownerID)

	return all[:min(limit, len(all))], nil
}

func (m memFiles) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	return int64(len(m.owned(ownerID))), nil
}

func (m memFiles) Delete(_ context.Context, id, ownerID uuid.UUID) (bool, error) {
	if err := m.fail["Files.Delete"]; err != nil {
		return false, err
	}
	f, ok := m.files[id]
	if !ok || f.UploadedBy != ownerID {
		return false, nil
	}
	delete(m.files, id)

	return true, nil
}

func (m memFiles) DeleteByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for id, f := range m.files {
		if f.UploadedBy == ownerID {
			delete(m.files, id)
			n++
		}
	}

	return n, nil
}

func (m memFiles) FetchRowCountMismatches(context.Context) ([]file.RowCountMismatch, error) {
	var out []file.RowCountMismatch
	for _, f := range m.files {
		n, _ := memRows(m).CountByFile(context.Background(), f.ID)
		if int64(f.RowCount) != n {
			out = append(out, file.RowCountMismatch{FileID: f.ID, UploadedBy: f.UploadedBy, RowCount: f.RowCount, StoredRows: n})
		}
	}

	return out, nil
}

func (m memFiles) UpdateRowCount(_ context.Context, id uuid.UUID, rowCount int) error {
	if f, ok := m.files[id]; ok {
		f.RowCount = rowCount
	}

	return nil
}

type memRows struct{ *memStore }

func (m memRows) InsertBatch(_ context.Context, rows datarow.DataRows) (int64, error) {
	if err := m.fail["Rows.InsertBatch"]; err != nil {
		return 0, err
	}
	for _, r := range rows {
		m.seq++
		c := *r
		c.ID = uuid.New()
		c.CreatedAt = time.Unix(int64(m.seq), 0)
		m.rows = append(m.rows, &c)
	}

	return int64(len(rows)), nil
}

func (m memRows) FetchByFile(_ context.Context, fileID, ownerID uuid.UUID, limit int) (datarow.DataRows, error) {
	if err := m.fail["Rows.FetchByFile"]; err != nil {
		return nil, err
	}
	var out datarow.DataRows
	for _, r := range m.rows {
		if r.FileID == fileID && r.UploadedBy == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RowIndex < out[j].RowIndex })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (m memRows) FetchLatestByOwner(_ context.Context, ownerID uuid.UUID, limit int) (datarow.DataRows, error) {
	var out datarow.DataRows
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].UploadedBy == ownerID {
			out = append(out, m.rows[i])
		}
	}

	return out, nil
}

func (m memRows) CountByFile(_ context.Context, fileID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.FileID == fileID {
			n++
		}
	}

	return n, nil
}

func (m memRows) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.UploadedBy == ownerID {
			n++
		}
	}

	return n, nil
}

func (m memRows) remove(keep func(r *datarow.DataRow) bool) int64 {
	kept := m.rows[:0:0]
	for _, r := range m.rows {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	n := int64(len(m.rows) - len(kept))
	m.rows = kept

	return n
}

func (m memRows) DeleteByFile(_ context.Context, fileID uuid.UUID) (int64, error) {
	if err := m.fail["Rows.DeleteByFile"]; err != nil {
		return 0, err
	}

	return m.remove(func(r *datarow.DataRow) bool { return r.FileID != fileID }), nil
}

func (m memRows) DeleteByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	if err := m.fail["Rows.DeleteByOwner"]; err != nil {
		return 0, err
	}

	return m.remove(func(r *datarow.DataRow) bool { return r.UploadedBy != ownerID }), nil
}

type memBlobs struct {
	objects map[string][]byte
	signed  bool
	fail    map[string]error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}, fail: map[string]error{}}
}

func (b *memBlobs) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if err := b.fail["Put"]; err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.objects[key] = data

	return b.URL(key), nil
}

func (b *memBlobs) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := b.objects[key]
	if !ok {
		return nil, blob.ErrNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memBlobs) Size(_ context.Context, key string) (int64, error) {
	if err := b.fail["Size"]; err != nil {
		return 0, err
	}
	data, ok := b.objects[key]
	if !ok {
		return 0, blob.ErrNotFound
	}

	return int64(len(data)), nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	if err := b.fail["Delete"]; err != nil {
		return err
	}
	if _, ok := b.objects[key]; !ok {
		return blob.ErrNotFound
	}
	delete(b.objects, key)

	return nil
}

func (b *memBlobs) URL(key string) string { return "/uploads/" + key }

func (b *memBlobs) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if err := b.fail["SignedURL"]; err != nil {
		return "", err
	}
	if !b.signed {
		return "", blob.ErrNoSignedURL
	}

	return "https://signed.example/" + key, nil
}

type memCache map[uuid.UUID]*insight.Report

func (c memCache) Get(id uuid.UUID) (*insight.Report, bool) { r, ok := c[id]; return r, ok }
func (c memCache) Set(id uuid.UUID, r *insight.Report)      { c[id] = r }
func (c memCache) Delete(id uuid.UUID)                      { delete(c, id) }

type memEvents struct{ events []mq.Event }

func (e *memEvents) Enqueue(ev mq.Event) { e.events = append(e.events, ev) }

func (e *memEvents) actions() []string {
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Action
	}

	return out
}

type memUsers struct {
	users map[uuid.UUID]*user.User
	fail  map[string]error
}

func newMemUsers(us ...*user.User) *memUsers {
	m := &memUsers{users: map[uuid.UUID]*user.User{}, fail: map[string]error{}}
	for _, u := range us {
		m.users[u.UUID] = u
	}

	return m
}

func (m *memUsers) FetchUserByID(_ context.Context, id user.UUID) (*user.User, error) {
	if err := m.fail["FetchUserByID"]; err != nil {
		return nil, err
	}

	return m.users[id], nil
}

func (m *memUsers) FetchUserByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}

	return nil, nil
}

func (m *memUsers) CreateUser(_ context.Context, req user.User) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == req.Email {
			return nil, user.ErrEmailAlreadyExists
		}
	}
	req.UUID = uuid.New()
	m.users[req.UUID] = &req

	return &req, nil
}

func (m *memUsers) DeleteUser(_ context.Context, id user.UUID) (bool, error) {
	if err := m.fail["DeleteUser"]; err != nil {
		return false, err
	}
	_, ok := m.users[id]
	delete(m.users, id)

	return ok, nil
}

func testCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
}

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zap.NewNop()
}
