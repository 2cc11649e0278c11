package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tyee-ai/gpu-thermal/internal/api/dto"
	"github.com/tyee-ai/gpu-thermal/internal/domain"
	"github.com/tyee-ai/gpu-thermal/internal/storage"
)

// GPUHandler handles GPU-related API requests
type GPUHandler struct {
	events   storage.EventRepository
	metadata storage.GPUMetadataRepository
}

// NewGPUHandler creates a new GPU handler
func NewGPUHandler(events storage.EventRepository, metadata storage.GPUMetadataRepository) *GPUHandler {
	return &GPUHandler{
		events:   events,
		metadata: metadata,
	}
}

// ListGPUs returns every GPU that has thermal events, busiest first.
//
//	GET /api/gpus
func (h *GPUHandler) ListGPUs(c *gin.Context) {
	gpus, err := h.events.ListGPUs(c.Request.Context())
	if err != nil {
		storeError(c, "Failed to retrieve GPUs", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGPUListResponse(gpus))
}

// GetGPU returns the metadata record of a single GPU.
//
//	GET /api/gpus/:gpu_id
func (h *GPUHandler) GetGPU(c *gin.Context) {
	gpuID := c.Param("gpu_id")

	if gpuID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   "GPU ID is required",
			Timestamp: time.Now(),
		})
		return
	}

	meta, err := h.metadata.GetByGPUID(c.Request.Context(), gpuID)
	if err != nil {
		if errors.Is(err, domain.ErrGPUNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:     "GPU not found",
				Message:   "No GPU found with ID: " + gpuID,
				Timestamp: time.Now(),
			})
			return
		}
		storeError(c, "Failed to retrieve GPU", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGPUMetadataResponse(meta))
}
