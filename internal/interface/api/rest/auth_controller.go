package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/application/services"
	"sheet-insights-api/internal/infrastructure/jwt"
	"sheet-insights-api/internal/interface/api/rest/dto/account"
	"sheet-insights-api/internal/interface/api/rest/dto/auth"
	"sheet-insights-api/internal/interface/api/rest/middleware"
	"sheet-insights-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger          *zap.Logger
	userService     ports.UserService
	authService     ports.Auth
	deletionService ports.DeletionService
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	userService ports.UserService,
	authService ports.Auth,
	deletionService ports.DeletionService,
	jwtService *jwt.Service,
) *AuthController {
	ac := &AuthController{
		logger:          logger,
		userService:     userService,
		authService:     authService,
		deletionService: deletionService,
	}

	r.POST(RouteLogin, ac.LoginHandler)
	r.DELETE(RouteDeleteAccount, middleware.AuthMiddleware(jwtService), ac.DeleteAccountHandler)

	return ac
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateLogin(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	u, err := ac.userService.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get a user"},
		)
		ac.logger.Error("FindByEmail() error", zap.Error(err))
		return
	}
	if u == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "User not found"},
		)
		return
	}

	token, err := ac.authService.GenerateToken(u, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		ac.logger.Error("GenerateToken() error", zap.Error(err), zap.Stringer("user_uuid", u.UUID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// DeleteAccountHandler lets callers remove their own account after re-entering the password.
func (ac *AuthController) DeleteAccountHandler(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req auth.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "Password is required to delete account"},
		)
		return
	}

	u, err := ac.userService.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to delete account"},
		)
		ac.logger.Error("FindUserByID() error", zap.Error(err))
		return
	}
	if u == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "User not found"},
		)
		return
	}
	if err = ac.authService.VerifyPassword(u, req.Password); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "Invalid password"},
		)
		return
	}

	res, err := ac.deletionService.DeleteAccount(c.Request.Context(), userID, "Self deletion")
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "Failed to delete account"},
		)
		ac.logger.Error("DeleteAccount() error", zap.Error(err))
		return
	}
	if !res.Success {
		c.JSON(http.StatusInternalServerError, account.FailedResponse{
			Error:  "Failed to delete account",
			Errors: res.Errors,
		})
		return
	}

	c.JSON(http.StatusOK, account.DeletionResponse{
		Message: "Account deleted successfully",
		Details: account.ToDeletion(*res),
	})
}
