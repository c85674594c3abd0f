package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	logger    *zap.Logger
	refs      ReferenceLookup
	startTime time.Time
}

func NewHealthHandler(refs ReferenceLookup, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		refs:      refs,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness waits for the reference datasets, which merges and lookups depend on.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.refs == nil || !h.refs.Loaded() {
		h.logger.Warn("Readiness check failed: reference data not loaded")
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Uptime: time.Since(h.startTime).String(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
