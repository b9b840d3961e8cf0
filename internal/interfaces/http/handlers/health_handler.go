package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceName is reported by the health endpoint
const ServiceName = "merchant-connect"

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	version string
	ping    func(ctx context.Context) error
}

// NewHealthHandler creates a new health handler. ping may be nil.
func NewHealthHandler(version string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{version: version, ping: ping}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"service": ServiceName,
		"version": h.version,
	}

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = "unavailable"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
	}

	c.JSON(http.StatusOK, body)
}
