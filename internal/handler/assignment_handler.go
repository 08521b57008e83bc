package handler

import (
	"context"
	"net/http"

	"artisan-market/pkg/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssignmentService is the assignment store used by AssignmentHandler
type AssignmentService interface {
	Create(ctx context.Context, req model.AssignmentCreateRequest) (*model.Assignment, error)
	List(ctx context.Context) ([]model.Assignment, error)
	ListByUser(ctx context.Context, userID string) ([]model.Assignment, error)
	Get(ctx context.Context, id string) (*model.Assignment, error)
	Update(ctx context.Context, id string, req model.AssignmentUpdateRequest) (*model.Assignment, error)
	Delete(ctx context.Context, id string) error
}

// AssignmentHandler handles assignment-related HTTP requests
type AssignmentHandler struct {
	assignmentService AssignmentService
	logger            *zap.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentService AssignmentService, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// CreateAssignment handles POST /api/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req model.AssignmentCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// GetAssignments handles GET /api/assignments
func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	assignments, err := h.assignmentService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// GetUserAssignments handles GET /api/assignments/user/:userId
func (h *AssignmentHandler) GetUserAssignments(c *gin.Context) {
	assignments, err := h.assignmentService.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// GetAssignment handles GET /api/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	assignment, err := h.assignmentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// UpdateAssignment handles PUT /api/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	var req model.AssignmentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignmentService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// DeleteAssignment handles DELETE /api/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	if err := h.assignmentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
