package handler

import (
	"context"
	"net/http"

	"artisan-market/internal/regiondir"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegionDirectory is the external source for region and village listings
type RegionDirectory interface {
	FetchRegions(ctx context.Context) (*regiondir.Response, error)
	FetchVillages(ctx context.Context, regionID string) (*regiondir.Response, error)
}

// DirectoryHandler relays region listings from the external directory
type DirectoryHandler struct {
	directory RegionDirectory
	logger    *zap.Logger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory RegionDirectory, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		logger:    logger,
	}
}

// GetRegions handles GET /api/regions in directory mode
func (h *DirectoryHandler) GetRegions(c *gin.Context) {
	resp, err := h.directory.FetchRegions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch regions from directory", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch regions"})
		return
	}

	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

// GetRegionVillages handles GET /api/regions/:id/villages in directory mode
func (h *DirectoryHandler) GetRegionVillages(c *gin.Context) {
	regionID := c.Param("id")
	resp, err := h.directory.FetchVillages(c.Request.Context(), regionID)
	if err != nil {
		h.logger.Error("Failed to fetch villages from directory",
			zap.String("region_id", regionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch villages"})
		return
	}

	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}
