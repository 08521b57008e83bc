package handler

import (
	"context"
	"net/http"

	"artisan-market/pkg/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VendorService is the vendor store used by VendorHandler
type VendorService interface {
	Create(ctx context.Context, req model.VendorCreateRequest) (*model.Vendor, error)
	List(ctx context.Context) ([]model.Vendor, error)
	Get(ctx context.Context, id string) (*model.Vendor, error)
	Update(ctx context.Context, id string, req model.VendorUpdateRequest) (*model.Vendor, error)
	Delete(ctx context.Context, id string) error
}

// VendorHandler handles vendor-related HTTP requests
type VendorHandler struct {
	vendorService VendorService
	logger        *zap.Logger
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorService VendorService, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
		logger:        logger,
	}
}

// CreateVendor handles POST /api/vendors
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req model.VendorCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, vendor)
}

// GetVendors handles GET /api/vendors
func (h *VendorHandler) GetVendors(c *gin.Context) {
	vendors, err := h.vendorService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, vendors)
}

// GetVendor handles GET /api/vendors/:id
func (h *VendorHandler) GetVendor(c *gin.Context) {
	vendor, err := h.vendorService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// UpdateVendor handles PUT /api/vendors/:id
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	var req model.VendorUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// DeleteVendor handles DELETE /api/vendors/:id
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	if err := h.vendorService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
