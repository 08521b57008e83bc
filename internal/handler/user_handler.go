package handler

import (
	"context"
	"net/http"

	"artisan-market/pkg/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserService is the user store used by UserHandler
type UserService interface {
	Create(ctx context.Context, req model.UserCreateRequest) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, id string, req model.UserUpdateRequest) (*model.User, error)
	UpdateByPhone(ctx context.Context, req model.UserPhoneUpdateRequest) (*model.User, error)
	Delete(ctx context.Context, id string) error
	DeleteByPhone(ctx context.Context, phone string) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.UserCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUsers handles GET /api/users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUserByPhone handles GET /api/users/:phone
func (h *UserHandler) GetUserByPhone(c *gin.Context) {
	user, err := h.userService.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUserByPhone handles PUT /api/users
func (h *UserHandler) UpdateUserByPhone(c *gin.Context) {
	var req model.UserPhoneUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateByPhone(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUserByPhone handles DELETE /api/users/:phone
func (h *UserHandler) DeleteUserByPhone(c *gin.Context) {
	if err := h.userService.DeleteByPhone(c.Request.Context(), c.Param("phone")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUser handles GET /api/users/id/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/id/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req model.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/id/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
