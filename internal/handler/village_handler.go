package handler

import (
	"context"
	"net/http"

	"artisan-market/pkg/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VillageService is the village store used by VillageHandler
type VillageService interface {
	Create(ctx context.Context, req model.VillageCreateRequest) (*model.Village, error)
	List(ctx context.Context) ([]model.Village, error)
	Get(ctx context.Context, id string) (*model.Village, error)
	Update(ctx context.Context, id string, req model.VillageUpdateRequest) (*model.Village, error)
	Delete(ctx context.Context, id string) error
	ListVendors(ctx context.Context, id string) ([]model.Vendor, error)
}

// VillageHandler handles village-related HTTP requests
type VillageHandler struct {
	villageService VillageService
	logger         *zap.Logger
}

// NewVillageHandler creates a new village handler
func NewVillageHandler(villageService VillageService, logger *zap.Logger) *VillageHandler {
	return &VillageHandler{
		villageService: villageService,
		logger:         logger,
	}
}

// CreateVillage handles POST /api/villages
func (h *VillageHandler) CreateVillage(c *gin.Context) {
	var req model.VillageCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	village, err := h.villageService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, village)
}

// GetVillages handles GET /api/villages
func (h *VillageHandler) GetVillages(c *gin.Context) {
	villages, err := h.villageService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, villages)
}

// GetVillage handles GET /api/villages/:id
func (h *VillageHandler) GetVillage(c *gin.Context) {
	village, err := h.villageService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, village)
}

// UpdateVillage handles PUT /api/villages/:id
func (h *VillageHandler) UpdateVillage(c *gin.Context) {
	var req model.VillageUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	village, err := h.villageService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, village)
}

// DeleteVillage handles DELETE /api/villages/:id
func (h *VillageHandler) DeleteVillage(c *gin.Context) {
	if err := h.villageService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetVillageVendors handles GET /api/villages/:id/vendors
func (h *VillageHandler) GetVillageVendors(c *gin.Context) {
	vendors, err := h.villageService.ListVendors(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, vendors)
}
