package handlers

import (
	"net/http"

	"lifeops-server/services"
	"lifeops-server/ws"

	"github.com/gin-gonic/gin"
)

type cacheStats interface {
	Stats() map[string]interface{}
}

type HealthHandler struct {
	mgr     *ws.Manager
	cache   cacheStats
	janitor *services.Janitor
}

func NewHealthHandler(mgr *ws.Manager, cache cacheStats, janitor *services.Janitor) *HealthHandler {
	return &HealthHandler{
		mgr:     mgr,
		cache:   cache,
		janitor: janitor,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "OK",
		"connectedSockets": len(h.mgr.List()),
		"cache":            h.cache.Stats(),
		"lastSweep":        h.janitor.LastSweep(),
	})
}
