package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
	domain "sheet-insights-api/internal/domain/user"
	jwtSvc "sheet-insights-api/internal/infrastructure/jwt"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *jwtSvc.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return gin.New(), jwtSvc.New(testSecret)
}

func SignJWT(secret, userID, role string, exp time.Duration) (string, error) {
	return jwtSvc.New(secret).GenerateJWT(userID, role, exp)
}

func bearer(t *testing.T, userID uuid.UUID, role string) map[string]string {
	t.Helper()
	tok, err := SignJWT(testSecret, userID.String(), role, time.Hour)
	require.NoError(t, err)

	return map[string]string{"Authorization": "Bearer " + tok}
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	switch v := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func doMultipartReq(t *testing.T, r *gin.Engine, path, fileName string, fileContent []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, _ = fw.Write(fileContent)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, path, &b)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

var errNotUsed = errors.New("not used")

type FakeUserService struct {
	FindUserByIDFunc func(ctx context.Context, id domain.UUID) (*domain.User, error)
	FindByEmailFunc  func(ctx context.Context, email string) (*domain.User, error)
	CreateUserFunc   func(ctx context.Context, u domain.User, password string) (*domain.User, error)
}

func (f *FakeUserService) FindUserByID(ctx context.Context, id domain.UUID) (*domain.User, error) {
	if f.FindUserByIDFunc == nil {
		return nil, errNotUsed
	}
	return f.FindUserByIDFunc(ctx, id)
}
func (f *FakeUserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.FindByEmailFunc == nil {
		return nil, errNotUsed
	}
	return f.FindByEmailFunc(ctx, email)
}
func (f *FakeUserService) CreateUser(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	if f.CreateUserFunc == nil {
		return nil, errNotUsed
	}
	return f.CreateUserFunc(ctx, u, password)
}

type fakeAuthService struct {
	GenerateTokenFunc  func(u *domain.User, password string) (string, error)
	VerifyPasswordFunc func(u *domain.User, password string) error
}

func (f *fakeAuthService) GenerateToken(u *domain.User, password string) (string, error) {
	if f.GenerateTokenFunc == nil {
		return "", errNotUsed
	}
	return f.GenerateTokenFunc(u, password)
}
func (f *fakeAuthService) VerifyPassword(u *domain.User, password string) error {
	if f.VerifyPasswordFunc == nil {
		return errNotUsed
	}
	return f.VerifyPasswordFunc(u, password)
}

type FakeIngestionService struct {
	IngestFunc     func(ctx context.Context, req ports.IngestRequest) (*ports.IngestResult, error)
	IngestPathFunc func(ctx context.Context, ownerID uuid.UUID, path string) (*ports.IngestResult, error)
}

func (f *FakeIngestionService) Ingest(ctx context.Context, req ports.IngestRequest) (*ports.IngestResult, error) {
	if f.IngestFunc == nil {
		return nil, errNotUsed
	}
	return f.IngestFunc(ctx, req)
}
func (f *FakeIngestionService) IngestPath(ctx context.Context, ownerID uuid.UUID, path string) (*ports.IngestResult, error) {
	if f.IngestPathFunc == nil {
		return nil, errNotUsed
	}
	return f.IngestPathFunc(ctx, ownerID, path)
}

type FakeFileService struct {
	ListFilesFunc  func(ctx context.Context, ownerID uuid.UUID, page int) (file.Files, error)
	GetFileFunc    func(ctx context.Context, ownerID, fileID uuid.UUID) (*file.File, error)
	DownloadFunc   func(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.Download, error)
	FileRowsFunc   func(ctx context.Context, ownerID, fileID uuid.UUID) ([]datarow.Row, error)
	LatestRowsFunc func(ctx context.Context, ownerID uuid.UUID) ([]datarow.Row, error)
	SummaryFunc    func(ctx context.Context, ownerID uuid.UUID) (*ports.DashboardSummary, error)
	ReconcileFunc  func(ctx context.Context, repair bool) (*ports.ReconcileReport, error)
}

func (f *FakeFileService) ListFiles(ctx context.Context, ownerID uuid.UUID, page int) (file.Files, error) {
	if f.ListFilesFunc == nil {
		return nil, errNotUsed
	}
	return f.ListFilesFunc(ctx, ownerID, page)
}
func (f *FakeFileService) GetFile(ctx context.Context, ownerID, fileID uuid.UUID) (*file.File, error) {
	if f.GetFileFunc == nil {
		return nil, errNotUsed
	}
	return f.GetFileFunc(ctx, ownerID, fileID)
}
func (f *FakeFileService) Download(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.Download, error) {
	if f.DownloadFunc == nil {
		return nil, errNotUsed
	}
	return f.DownloadFunc(ctx, ownerID, fileID)
}
func (f *FakeFileService) FileRows(ctx context.Context, ownerID, fileID uuid.UUID) ([]datarow.Row, error) {
	if f.FileRowsFunc == nil {
		return nil, errNotUsed
	}
	return f.FileRowsFunc(ctx, ownerID, fileID)
}
func (f *FakeFileService) LatestRows(ctx context.Context, ownerID uuid.UUID) ([]datarow.Row, error) {
	if f.LatestRowsFunc == nil {
		return nil, errNotUsed
	}
	return f.LatestRowsFunc(ctx, ownerID)
}
func (f *FakeFileService) Summary(ctx context.Context, ownerID uuid.UUID) (*ports.DashboardSummary, error) {
	if f.SummaryFunc == nil {
		return nil, errNotUsed
	}
	return f.SummaryFunc(ctx, ownerID)
}
func (f *FakeFileService) Reconcile(ctx context.Context, repair bool) (*ports.ReconcileReport, error) {
	if f.ReconcileFunc == nil {
		return nil, errNotUsed
	}
	return f.ReconcileFunc(ctx, repair)
}

type FakeDeletionService struct {
	DeleteFileFunc           func(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileDeletion, error)
	DeleteFilesFunc          func(ctx context.Context, ownerID uuid.UUID, fileIDs []string) (*ports.BulkDeletion, error)
	DeleteAccountFunc        func(ctx context.Context, userID uuid.UUID, reason string) (*ports.AccountDeletion, error)
	AccountDeletionStatsFunc func(ctx context.Context, userID uuid.UUID) (*ports.AccountDeletionStats, error)
}

func (f *FakeDeletionService) DeleteFile(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileDeletion, error) {
	if f.DeleteFileFunc == nil {
		return nil, errNotUsed
	}
	return f.DeleteFileFunc(ctx, ownerID, fileID)
}
func (f *FakeDeletionService) DeleteFiles(ctx context.Context, ownerID uuid.UUID, fileIDs []string) (*ports.BulkDeletion, error) {
	if f.DeleteFilesFunc == nil {
		return nil, errNotUsed
	}
	return f.DeleteFilesFunc(ctx, ownerID, fileIDs)
}
func (f *FakeDeletionService) DeleteAccount(ctx context.Context, userID uuid.UUID, reason string) (*ports.AccountDeletion, error) {
	if f.DeleteAccountFunc == nil {
		return nil, errNotUsed
	}
	return f.DeleteAccountFunc(ctx, userID, reason)
}
func (f *FakeDeletionService) AccountDeletionStats(ctx context.Context, userID uuid.UUID) (*ports.AccountDeletionStats, error) {
	if f.AccountDeletionStatsFunc == nil {
		return nil, errNotUsed
	}
	return f.AccountDeletionStatsFunc(ctx, userID)
}

type FakeInsightService struct {
	AnalyzeFunc    func(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileInsights, error)
	AnalyzeAllFunc func(ctx context.Context, ownerID uuid.UUID) ([]*ports.FileInsights, error)
}

func (f *FakeInsightService) Analyze(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileInsights, error) {
	if f.AnalyzeFunc == nil {
		return nil, errNotUsed
	}
	return f.AnalyzeFunc(ctx, ownerID, fileID)
}
func (f *FakeInsightService) AnalyzeAll(ctx context.Context, ownerID uuid.UUID) ([]*ports.FileInsights, error) {
	if f.AnalyzeAllFunc == nil {
		return nil, errNotUsed
	}
	return f.AnalyzeAllFunc(ctx, ownerID)
}
