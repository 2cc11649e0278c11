package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tyee-ai/gpu-thermal/internal/api/dto"
	"github.com/tyee-ai/gpu-thermal/internal/storage"
)

// EventHandler serves thermal event queries
type EventHandler struct {
	events storage.EventRepository
}

// NewEventHandler creates a new event handler
func NewEventHandler(events storage.EventRepository) *EventHandler {
	return &EventHandler{
		events: events,
	}
}

// GetData returns events matching the query filters, newest first.
//
//	GET /api/data?start_date=&end_date=&gpu_id=&issue_type=&node=
func (h *EventHandler) GetData(c *gin.Context) {
	records, err := h.events.Query(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		storeError(c, "Failed to retrieve events", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventListResponse(records))
}

// GetStats returns summary statistics over the filtered events.
//
//	GET /api/stats?start_date=&end_date=&gpu_id=&issue_type=&node=
func (h *EventHandler) GetStats(c *gin.Context) {
	stats, err := h.events.Summary(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		storeError(c, "Failed to compute statistics", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(stats))
}

// GetTimeSeries returns the filtered events bucketed by hour, day or week.
// Unknown intervals fall back to day.
//
//	GET /api/timeseries?interval=day&start_date=&end_date=&gpu_id=&issue_type=&node=
func (h *EventHandler) GetTimeSeries(c *gin.Context) {
	interval := storage.ParseInterval(c.DefaultQuery("interval", string(storage.IntervalDay)))

	buckets, err := h.events.TimeSeries(c.Request.Context(), filterFromQuery(c), interval)
	if err != nil {
		storeError(c, "Failed to compute time series", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeSeriesResponse(string(interval), buckets))
}

// filterFromQuery copies the filter parameters verbatim; the store is the
// one that rejects malformed dates.
func filterFromQuery(c *gin.Context) storage.EventFilter {
	return storage.EventFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		GPUID:     c.Query("gpu_id"),
		IssueType: c.Query("issue_type"),
		Node:      c.Query("node"),
	}
}

func storeError(c *gin.Context, title string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:     title,
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
}
