package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gridforge/tabular/internal/logging"
	"github.com/gridforge/tabular/internal/monitoring"
	"github.com/gridforge/tabular/internal/service"
	"github.com/gridforge/tabular/internal/types"
)

const discoverLimit = 5

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	return &Handlers{
		registry: registry,
		metrics:  metrics,
		logger:   logger.Named("http"),
	}
}

// Root handles the basic liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "tabular",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"registry": h.registry.Stats(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// DiscoverServices scores services against a free-text query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req types.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = discoverLimit
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Query,
		"services": h.registry.Discover(req.Query, limit),
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	serviceID := req.ToolID
	if i := strings.IndexByte(serviceID, '.'); i > 0 {
		serviceID = serviceID[:i]
	}
	timer := monitoring.NewTimer(h.metrics, serviceID, req.ToolID)
	timer.SetRows(rowCount(req.Params))

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, nil)
	if err != nil {
		timer.Stop("error")
		h.logger.Warn("tool execution rejected",
			zap.String("tool", req.ToolID),
			zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if result.Success {
		timer.Stop("success")
	} else {
		timer.Stop("failure")
		errMsg := ""
		if result.Error != nil {
			errMsg = *result.Error
		}
		h.logger.Info("tool execution failed",
			zap.String("tool", req.ToolID),
			zap.String("reason", errMsg))
	}
	c.JSON(http.StatusOK, result)
}

// rowCount peeks at the rows parameter for the metrics histogram.
func rowCount(params map[string]interface{}) int {
	if rows, ok := params["rows"].([]interface{}); ok {
		return len(rows)
	}
	return 0
}
