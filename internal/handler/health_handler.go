package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/catalog_assistant/internal/service"
	"github.com/GTDGit/catalog_assistant/internal/utils"
)

var startTime = time.Now()

// Pinger is a dependency whose reachability is reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	assistant *service.AssistantService
	redis     Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when
// sessions are kept in memory.
func NewHealthHandler(assistant *service.AssistantService, redis Pinger) *HealthHandler {
	return &HealthHandler{assistant: assistant, redis: redis}
}

// GetHealth responds with service status and the loaded dataset sizes.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ds, err := h.assistant.Dataset()
	if err != nil {
		utils.Error(c, 503, "CATALOG_UNAVAILABLE", "Catalog is not loaded yet")
		return
	}

	sessionStore := "memory"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			utils.Error(c, 503, "SESSION_STORE_UNAVAILABLE", "Session store is unreachable")
			return
		}
		sessionStore = "redis"
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":       "healthy",
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"sessionStore": sessionStore,
		"dataset": gin.H{
			"products":   ds.Catalog.Len(),
			"categories": len(ds.Catalog.Categories()),
			"purchases":  len(ds.Purchases),
			"loadedAt":   ds.LoadedAt.Format(time.RFC3339),
		},
	})
}
