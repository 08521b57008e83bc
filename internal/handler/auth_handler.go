package handler

import (
	"context"
	"net/http"

	"artisan-market/pkg/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator issues tokens for valid credentials
type Authenticator interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error)
}

// UserLookup resolves the user behind a token
type UserLookup interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService Authenticator
	users       UserLookup
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService Authenticator, users UserLookup, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		users:       users,
		logger:      logger,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  user,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id") // Set by auth middleware
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
