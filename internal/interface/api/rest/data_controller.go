package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/infrastructure/jwt"
	"sheet-insights-api/internal/interface/api/rest/dto/file"
	"sheet-insights-api/internal/interface/api/rest/middleware"
	"sheet-insights-api/internal/interface/api/rest/validator"
)

// DataController serves stored rows and the dashboard summary.
type DataController struct {
	fileService ports.FileService
	logger      *zap.Logger
}

func NewDataController(
	r *gin.Engine,
	fileService ports.FileService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *DataController {
	dc := &DataController{
		fileService: fileService,
		logger:      logger,
	}

	authMW := middleware.AuthMiddleware(jwtService)
	r.GET(RouteData, authMW, dc.GetLatestRowsHandler)
	r.GET(RouteDataFile, authMW, dc.GetFileRowsHandler)
	r.GET(RouteDashboardSummary, authMW, dc.GetSummaryHandler)

	return dc
}

func (dc *DataController) GetLatestRowsHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	rows, err := dc.fileService.LatestRows(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to fetch data"},
		)
		dc.logger.Error("LatestRows() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, nonNilRows(rows))
}

func (dc *DataController) GetFileRowsHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	rows, err := dc.fileService.FileRows(c.Request.Context(), ownerID, fileID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to fetch data"},
		)
		dc.logger.Error("FileRows() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, nonNilRows(rows))
}

func (dc *DataController) GetSummaryHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	sum, err := dc.fileService.Summary(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to fetch summary"},
		)
		dc.logger.Error("Summary() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, file.ToSummaryResponse(*sum))
}

func nonNilRows(rows []datarow.Row) []datarow.Row {
	if rows == nil {
		return []datarow.Row{}
	}
	return rows
}
