package handler

import (
	"context"
	"net/http"

	"artisan-market/pkg/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegionService is the region store used by RegionHandler
type RegionService interface {
	Create(ctx context.Context, req model.RegionCreateRequest) (*model.Region, error)
	List(ctx context.Context) ([]model.Region, error)
	Get(ctx context.Context, id string) (*model.Region, error)
	Update(ctx context.Context, id string, req model.RegionUpdateRequest) (*model.Region, error)
	Delete(ctx context.Context, id string) error
	ListVillages(ctx context.Context, id string) ([]model.Village, error)
}

// RegionHandler handles region-related HTTP requests
type RegionHandler struct {
	regionService RegionService
	logger        *zap.Logger
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(regionService RegionService, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{
		regionService: regionService,
		logger:        logger,
	}
}

// CreateRegion handles POST /api/regions
func (h *RegionHandler) CreateRegion(c *gin.Context) {
	var req model.RegionCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	region, err := h.regionService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, region)
}

// GetRegions handles GET /api/regions
func (h *RegionHandler) GetRegions(c *gin.Context) {
	regions, err := h.regionService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, regions)
}

// GetRegion handles GET /api/regions/:id
func (h *RegionHandler) GetRegion(c *gin.Context) {
	region, err := h.regionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, region)
}

// UpdateRegion handles PUT /api/regions/:id
func (h *RegionHandler) UpdateRegion(c *gin.Context) {
	var req model.RegionUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	region, err := h.regionService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, region)
}

// DeleteRegion handles DELETE /api/regions/:id
func (h *RegionHandler) DeleteRegion(c *gin.Context) {
	if err := h.regionService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRegionVillages handles GET /api/regions/:id/villages
func (h *RegionHandler) GetRegionVillages(c *gin.Context) {
	villages, err := h.regionService.ListVillages(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, villages)
}
