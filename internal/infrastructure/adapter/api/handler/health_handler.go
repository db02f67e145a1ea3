package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// detailer is implemented by stores that expose extra health data
type detailer interface {
	HealthDetails() map[string]any
}

// HealthHandler reports liveness. The store check is skipped when pinger is nil.
type HealthHandler struct {
	pinger       Pinger
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(pinger Pinger, timeProvider coreport.TimeProvider, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, timeProvider: timeProvider, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	now := h.timeProvider.Now()
	body := gin.H{"status": "ok", "time": now}
	if h.pinger != nil {
		ctx, cancel := h.timeProvider.WithTimeout(c.Request.Context(), 2*coreport.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Error("Health check failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "time": now})
			return
		}
		if d, ok := h.pinger.(detailer); ok {
			body["database"] = d.HealthDetails()
		}
	}
	c.JSON(http.StatusOK, body)
}
