package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
	domain "sheet-insights-api/internal/domain/user"
)

func TestDataController_GetLatestRowsHandler(t *testing.T) {
	owner := uuid.New()
	h := bearer(t, owner, domain.RoleUser)

	t.Run("rows", func(t *testing.T) {
		r, j := newTestRouter(t)
		NewDataController(r, &FakeFileService{LatestRowsFunc: func(ctx context.Context, ownerID uuid.UUID) ([]datarow.Row, error) {
			return []datarow.Row{
				{"name": datarow.String("Ann"), "score": datarow.Number(1.5), "paid": datarow.Bool(true), "note": datarow.Null()},
			}, nil
		}}, zap.NewNop(), j)

		rr := doReq(t, r, http.MethodGet, RouteData, nil, h)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"name":"Ann","score":1.5,"paid":true,"note":null}]`, rr.Body.String())
	})

	t.Run("no rows", func(t *testing.T) {
		r, j := newTestRouter(t)
		NewDataController(r, &FakeFileService{LatestRowsFunc: func(ctx context.Context, ownerID uuid.UUID) ([]datarow.Row, error) {
			return nil, nil
		}}, zap.NewNop(), j)

		rr := doReq(t, r, http.MethodGet, RouteData, nil, h)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		r, j := newTestRouter(t)
		NewDataController(r, &FakeFileService{}, zap.NewNop(), j)

		rr := doReq(t, r, http.MethodGet, RouteData, nil, h)
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to fetch data", decode(t, rr)["error"])
	})
}

func TestDataController_GetFileRowsHandler(t *testing.T) {
	owner := uuid.New()
	fileID := uuid.New()
	h := bearer(t, owner, domain.RoleUser)

	r, j := newTestRouter(t)
	NewDataController(r, &FakeFileService{FileRowsFunc: func(ctx context.Context, ownerID, id uuid.UUID) ([]datarow.Row, error) {
		if id != fileID {
			return nil, nil
		}
		return []datarow.Row{{"n": datarow.Number(1)}, {"n": datarow.Number(2)}}, nil
	}}, zap.NewNop(), j)

	rr := doReq(t, r, http.MethodGet, "/api/v1/data/file/"+fileID.String(), nil, h)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"n":1},{"n":2}]`, rr.Body.String())

	rr = doReq(t, r, http.MethodGet, "/api/v1/data/file/"+uuid.NewString(), nil, h)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = doReq(t, r, http.MethodGet, "/api/v1/data/file/123", nil, h)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "file_id must be a valid UUID", decode(t, rr)["error"])
}

func TestDataController_GetSummaryHandler(t *testing.T) {
	owner := uuid.New()
	h := bearer(t, owner, domain.RoleUser)

	r, j := newTestRouter(t)
	NewDataController(r, &FakeFileService{SummaryFunc: func(ctx context.Context, ownerID uuid.UUID) (*ports.DashboardSummary, error) {
		if ownerID != owner {
			return nil, errors.New("wrong owner")
		}
		return &ports.DashboardSummary{FileCount: 2, RowCount: 7, LatestFiles: file.Files{someFile(ownerID)}}, nil
	}}, zap.NewNop(), j)

	rr := doReq(t, r, http.MethodGet, RouteDashboardSummary, nil, h)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode(t, rr)
	assert.Equal(t, float64(2), resp["fileCount"])
	assert.Equal(t, float64(7), resp["rowCount"])
	assert.Len(t, resp["latestFiles"], 1)

	rr = doReq(t, r, http.MethodGet, RouteDashboardSummary, nil, bearer(t, uuid.New(), domain.RoleUser))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to fetch summary", decode(t, rr)["error"])
}
