package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/application/services"
	"sheet-insights-api/internal/domain/insight"
	domain "sheet-insights-api/internal/domain/user"
)

func TestInsightController_AnalyzeHandler(t *testing.T) {
	owner := uuid.New()
	f := someFile(owner)
	path := func(id string) string { return "/api/v1/insights/" + id + "/analyze" }

	tests := []struct {
		name            string
		path            string
		analyze         func(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileInsights, error)
		wantStatus      int
		wantErr         string
		wantStatusField insight.Status
	}{
		{
			name:       "invalid id",
			path:       path("nope"),
			wantStatus: http.StatusNotFound,
			wantErr:    "File not found",
		},
		{
			name: "not found",
			path: path(uuid.NewString()),
			analyze: func(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileInsights, error) {
				return nil, services.ErrFileNotFound
			},
			wantStatus: http.StatusNotFound,
			wantErr:    "File not found",
		},
		{
			name: "lookup failure",
			path: path(f.ID.String()),
			analyze: func(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileInsights, error) {
				return nil, errors.New("db down")
			},
			wantStatus: http.StatusInternalServerError,
			wantErr:    "Failed to analyze file for AI insights",
		},
		{
			name: "degraded",
			path: path(f.ID.String()),
			analyze: func(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileInsights, error) {
				return &ports.FileInsights{File: f, Report: insight.FallbackReport()},
					fmt.Errorf("%w: rows: timeout", services.ErrInsightsUnavailable)
			},
			wantStatus:      http.StatusOK,
			wantStatusField: insight.StatusDegraded,
		},
		{
			name: "ok",
			path: path(f.ID.String()),
			analyze: func(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileInsights, error) {
				if ownerID != owner || fileID != f.ID {
					return nil, services.ErrFileNotFound
				}
				rep := insight.EmptyReport()
				rep.Status = insight.StatusOK
				return &ports.FileInsights{File: f, Report: rep}, nil
			},
			wantStatus:      http.StatusOK,
			wantStatusField: insight.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r, j := newTestRouter(t)
			NewInsightController(r, &FakeInsightService{AnalyzeFunc: tt.analyze}, zap.NewNop(), j)

			rr := doReq(t, r, http.MethodGet, tt.path, nil, bearer(t, owner, domain.RoleUser))
			require.Equal(t, tt.wantStatus, rr.Code)

			resp := decode(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
				return
			}
			assert.Equal(t, f.ID.String(), resp["fileId"])
			assert.Equal(t, "sales.xlsx", resp["fileName"])
			assert.Equal(t, string(tt.wantStatusField), resp["insights"].(map[string]any)["status"])
		})
	}
}

func TestInsightController_GetInsightsHandler(t *testing.T) {
	owner := uuid.New()

	t.Run("list", func(t *testing.T) {
		r, j := newTestRouter(t)
		NewInsightController(r, &FakeInsightService{AnalyzeAllFunc: func(ctx context.Context, ownerID uuid.UUID) ([]*ports.FileInsights, error) {
			return []*ports.FileInsights{
				{File: someFile(ownerID), Report: insight.EmptyReport()},
				{File: someFile(ownerID), Report: insight.FallbackReport()},
			}, nil
		}}, zap.NewNop(), j)

		rr := doReq(t, r, http.MethodGet, RouteInsights, nil, bearer(t, owner, domain.RoleUser))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"summary":"No data available for analysis"`)
		assert.Contains(t, rr.Body.String(), `"status":"degraded"`)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		r, j := newTestRouter(t)
		NewInsightController(r, &FakeInsightService{AnalyzeAllFunc: func(ctx context.Context, ownerID uuid.UUID) ([]*ports.FileInsights, error) {
			return nil, nil
		}}, zap.NewNop(), j)

		rr := doReq(t, r, http.MethodGet, RouteInsights, nil, bearer(t, owner, domain.RoleUser))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		r, j := newTestRouter(t)
		NewInsightController(r, &FakeInsightService{AnalyzeAllFunc: func(ctx context.Context, ownerID uuid.UUID) ([]*ports.FileInsights, error) {
			return nil, errors.New("db down")
		}}, zap.NewNop(), j)

		rr := doReq(t, r, http.MethodGet, RouteInsights, nil, bearer(t, owner, domain.RoleUser))
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to fetch insights", decode(t, rr)["error"])
	})
}
