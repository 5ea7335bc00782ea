package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/specmock/specmock/internal/engine"
	"github.com/specmock/specmock/internal/models"
	"github.com/specmock/specmock/internal/stats"
	"github.com/specmock/specmock/internal/tracing"
)

// Handler handles admin API requests.
type Handler struct {
	mockEngine     *engine.Engine
	statsCollector *stats.Collector
	tracingService *tracing.Service
}

// NewHandler creates a new admin API handler.
func NewHandler(mockEngine *engine.Engine, statsCollector *stats.Collector, tracingService *tracing.Service) *Handler {
	return &Handler{
		mockEngine:     mockEngine,
		statsCollector: statsCollector,
		tracingService: tracingService,
	}
}

// ListHandlers returns all registered handlers.
func (h *Handler) ListHandlers(c *gin.Context) {
	c.JSON(http.StatusOK, h.mockEngine.Routes())
}

// GetGlobalStats returns aggregated statistics.
func (h *Handler) GetGlobalStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.statsCollector.GetGlobalStats(len(h.mockEngine.Routes())))
}

// GetHandlerStats returns statistics for one handler.
func (h *Handler) GetHandlerStats(c *gin.Context) {
	stat := h.statsCollector.GetHandlerStats(c.Param("id"))
	if stat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no statistics for handler"})
		return
	}
	c.JSON(http.StatusOK, stat)
}

// ResetStats clears all statistics.
func (h *Handler) ResetStats(c *gin.Context) {
	h.statsCollector.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// ListTraces returns traces matching query filters.
func (h *Handler) ListTraces(c *gin.Context) {
	filter := &models.TraceFilter{
		HandlerID: c.Query("handlerId"),
		Source:    c.Query("source"),
		Method:    c.Query("method"),
	}
	if code := c.Query("statusCode"); code != "" {
		if n, err := strconv.Atoi(code); err == nil {
			filter.StatusCode = n
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filter.Limit = n
		}
	}
	c.JSON(http.StatusOK, h.tracingService.GetTraces(filter))
}

// GetTrace returns a single trace by ID.
func (h *Handler) GetTrace(c *gin.Context) {
	trace := h.tracingService.GetTrace(c.Param("id"))
	if trace == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trace not found"})
		return
	}
	c.JSON(http.StatusOK, trace)
}

// ClearTraces removes all traces.
func (h *Handler) ClearTraces(c *gin.Context) {
	h.tracingService.ClearTraces()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// HealthCheck reports server health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
