package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/application/services"
	"sheet-insights-api/internal/infrastructure/jwt"
	"sheet-insights-api/internal/interface/api/rest/dto/insight"
	"sheet-insights-api/internal/interface/api/rest/middleware"
	"sheet-insights-api/internal/interface/api/rest/validator"
)

type InsightController struct {
	insightService ports.InsightService
	logger         *zap.Logger
}

func NewInsightController(
	r *gin.Engine,
	insightService ports.InsightService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *InsightController {
	ic := &InsightController{
		insightService: insightService,
		logger:         logger,
	}

	r.GET(RouteInsights, middleware.AuthMiddleware(jwtService), ic.GetInsightsHandler)
	r.GET(RouteInsightAnalyze, middleware.AuthMiddleware(jwtService), ic.AnalyzeHandler)

	return ic
}

func (ic *InsightController) GetInsightsHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	all, err := ic.insightService.AnalyzeAll(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to fetch insights"},
		)
		ic.logger.Error("AnalyzeAll() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, insight.ToResponses(all))
}

// AnalyzeHandler answers 200 with the degraded fallback report when the
// analysis itself failed; only lookup failures turn into 5xx.
func (ic *InsightController) AnalyzeHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "File not found"},
		)
		return
	}

	fi, err := ic.insightService.Analyze(c.Request.Context(), ownerID, fileID)
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "File not found"},
		)
		return
	case errors.Is(err, services.ErrInsightsUnavailable) && fi != nil:
		ic.logger.Error("Analyze() error", zap.Stringer("file_id", fileID), zap.Error(err))
	case err != nil:
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to analyze file for AI insights"},
		)
		ic.logger.Error("Analyze() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, insight.ToResponse(*fi))
}
