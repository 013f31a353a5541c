package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/infrastructure/jwt"
	"sheet-insights-api/internal/interface/api/rest/dto/account"
	"sheet-insights-api/internal/interface/api/rest/middleware"
	"sheet-insights-api/internal/interface/api/rest/validator"
)

// AccountController removes user accounts with everything they own. Callers
// may act on themselves; admins on anybody.
type AccountController struct {
	deletionService ports.DeletionService
	logger          *zap.Logger
}

func NewAccountController(
	r *gin.Engine,
	deletionService ports.DeletionService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *AccountController {
	ac := &AccountController{
		deletionService: deletionService,
		logger:          logger,
	}

	r.DELETE(RouteUser, middleware.AuthMiddleware(jwtService), ac.DeleteUserHandler)
	r.GET(RouteUserDeletionStats, middleware.AuthMiddleware(jwtService), ac.DeletionStatsHandler)

	return ac
}

// target resolves :user_id and checks the caller may act on it.
func (ac *AccountController) target(c *gin.Context) (uuid.UUID, bool) {
	ok, userID := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return uuid.Nil, false
	}

	callerID, _ := middleware.UserID(c)
	if callerID != userID && !middleware.IsAdmin(c) {
		c.JSON(
			http.StatusForbidden,
			gin.H{"error": "Access denied, admin only"},
		)
		return uuid.Nil, false
	}

	return userID, true
}

func (ac *AccountController) DeleteUserHandler(c *gin.Context) {
	userID, ok := ac.target(c)
	if !ok {
		return
	}

	reason := "Admin deletion"
	if callerID, _ := middleware.UserID(c); callerID == userID {
		reason = "Self deletion"
	}

	res, err := ac.deletionService.DeleteAccount(c.Request.Context(), userID, reason)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Server error during user deletion"},
		)
		ac.logger.Error("DeleteAccount() error", zap.Error(err))
		return
	}
	if res.User == nil && res.FileMetadataDeleted == 0 && res.DataRowsDeleted == 0 {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "User not found"},
		)
		return
	}
	if !res.Success {
		c.JSON(http.StatusInternalServerError, account.FailedResponse{
			Error:  "Failed to delete user",
			Errors: res.Errors,
		})
		return
	}

	c.JSON(http.StatusOK, account.DeletionResponse{
		Message: "User and all associated data deleted successfully",
		Details: account.ToDeletion(*res),
	})
}

func (ac *AccountController) DeletionStatsHandler(c *gin.Context) {
	userID, ok := ac.target(c)
	if !ok {
		return
	}

	stats, err := ac.deletionService.AccountDeletionStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to get user statistics"},
		)
		ac.logger.Error("AccountDeletionStats() error", zap.Error(err))
		return
	}
	if stats == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "User not found"},
		)
		return
	}

	c.JSON(http.StatusOK, account.ToStats(*stats))
}
