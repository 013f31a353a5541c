package rest

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/application/services"
	"sheet-insights-api/internal/infrastructure/jwt"
	"sheet-insights-api/internal/interface/api/rest/dto/file"
	"sheet-insights-api/internal/interface/api/rest/middleware"
	"sheet-insights-api/internal/interface/api/rest/validator"
)

// multipartOverhead is the request body allowance on top of the file limit
// for boundaries and part headers.
const multipartOverhead = 1 << 20

type FileController struct {
	ingestionService ports.IngestionService
	fileService      ports.FileService
	deletionService  ports.DeletionService
	maxUploadBytes   int64
	logger           *zap.Logger
}

func NewFileController(
	r *gin.Engine,
	ingestionService ports.IngestionService,
	fileService ports.FileService,
	deletionService ports.DeletionService,
	maxUploadBytes int64,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *FileController {
	fc := &FileController{
		ingestionService: ingestionService,
		fileService:      fileService,
		deletionService:  deletionService,
		maxUploadBytes:   maxUploadBytes,
		logger:           logger,
	}

	authMW := middleware.AuthMiddleware(jwtService)
	r.POST(RouteUpload, authMW, fc.UploadHandler)
	r.GET(RouteFiles, authMW, fc.GetFilesHandler)
	r.GET(RouteFile, authMW, fc.GetFileHandler)
	r.GET(RouteFileDownload, authMW, fc.DownloadHandler)
	r.DELETE(RouteFile, authMW, fc.DeleteFileHandler)
	r.DELETE(RouteFilesBulkDelete, authMW, fc.BulkDeleteHandler)
	r.POST(RouteFilesReconcile, authMW, middleware.AdminOnly(), fc.ReconcileHandler)

	return fc
}

func (fc *FileController) UploadHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	limit := fc.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large or empty"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large or empty"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if err = validator.ValidateUploadName(fh.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only Excel (.xlsx, .xls) and CSV files are allowed"})
		return
	}
	if fh.Size <= 0 || fh.Size > fc.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large or empty"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		fc.logger.Error("FormFile.Open() error", zap.Error(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, fc.maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		fc.logger.Error("ReadAll() error", zap.Error(err))
		return
	}

	res, err := fc.ingestionService.Ingest(c.Request.Context(), ports.IngestRequest{
		OwnerID:      ownerID,
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})

		kind := services.IngestionKind("unknown")
		var ie *services.IngestionError
		if errors.As(err, &ie) {
			kind = ie.Kind
		}
		fc.logger.Error("Ingest() error",
			zap.String("kind", string(kind)),
			zap.String("file_name", fh.Filename),
			zap.Error(err),
		)
		return
	}

	c.JSON(http.StatusCreated, file.ToUploadResponse(*res))
}

func (fc *FileController) GetFilesHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	page, err := validator.ValidatePage(c.Query("page"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return
	}

	files, err := fc.fileService.ListFiles(c.Request.Context(), ownerID, page)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to fetch files"},
		)
		fc.logger.Error("ListFiles() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, file.ToResponseFiles(files))
}

func (fc *FileController) GetFileHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	f, err := fc.fileService.GetFile(c.Request.Context(), ownerID, fileID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to fetch file"},
		)
		fc.logger.Error("GetFile() error", zap.Error(err))
		return
	}
	if f == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "File not found"},
		)
		return
	}

	c.JSON(http.StatusOK, file.ToResponseFile(*f))
}

func (fc *FileController) DownloadHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	d, err := fc.fileService.Download(c.Request.Context(), ownerID, fileID)
	if errors.Is(err, services.ErrFileNotFound) {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "File not found"},
		)
		return
	}
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to download file"},
		)
		fc.logger.Error("Download() error", zap.Error(err))
		return
	}

	if d.RedirectURL != "" {
		c.Redirect(http.StatusFound, d.RedirectURL)
		return
	}
	defer d.Body.Close()

	ct := d.File.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	size := d.File.SizeBytes
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, ct, d.Body, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": d.File.OriginalName}),
	})
}

func (fc *FileController) DeleteFileHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "File not found or access denied"},
		)
		return
	}

	res, err := fc.deletionService.DeleteFile(c.Request.Context(), ownerID, fileID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to delete file"},
		)
		fc.logger.Error("DeleteFile() error", zap.Error(err))
		return
	}
	if !res.Found {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "File not found or access denied"},
		)
		return
	}

	c.JSON(http.StatusOK, file.ToDeleteResponse(*res))
}

func (fc *FileController) BulkDeleteHandler(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	var req file.BulkDeleteRequest
	_ = c.ShouldBindJSON(&req)
	if err := validator.ValidateFileIDs(req.FileIDs); err != nil {
		msg := "File IDs array is required"
		if errors.Is(err, validator.ErrTooManyFileIDs) {
			msg = err.Error()
		}
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": msg},
		)
		return
	}

	res, err := fc.deletionService.DeleteFiles(c.Request.Context(), ownerID, req.FileIDs)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to perform bulk delete"},
		)
		fc.logger.Error("DeleteFiles() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, file.ToBulkDeleteResponse(*res))
}

func (fc *FileController) ReconcileHandler(c *gin.Context) {
	repair := false
	if q := c.Query("repair"); q != "" {
		b, err := strconv.ParseBool(q)
		if err != nil {
			c.JSON(
				http.StatusBadRequest,
				gin.H{"error": "repair must be a boolean"},
			)
			return
		}
		repair = b
	}

	rep, err := fc.fileService.Reconcile(c.Request.Context(), repair)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to reconcile files"},
		)
		fc.logger.Error("Reconcile() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, file.ToReconcileResponse(*rep))
}
