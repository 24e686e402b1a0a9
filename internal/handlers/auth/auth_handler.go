// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"reviewlottery-service/internal/domain/merchant"
	"reviewlottery-service/internal/middleware"
	"reviewlottery-service/internal/pkg/response"
	service "reviewlottery-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a merchant account
func (h *AuthHandler) Register(c *gin.Context) {
	var req merchant.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	m, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to register", err)
		return
	}

	response.Success(c, http.StatusCreated, "merchant registered successfully", m)
}

// Login authenticates a merchant and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req merchant.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, "login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", result)
}

// Logout revokes the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), merchantID, jti); err != nil {
		response.FromError(c, "failed to logout", err)
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// Profile returns the authenticated merchant
func (h *AuthHandler) Profile(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	m, err := h.authService.GetProfile(c.Request.Context(), merchantID)
	if err != nil {
		response.FromError(c, "failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile", m)
}
