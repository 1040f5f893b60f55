package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"atlastours/database/repository"
	"atlastours/metrics"
)

// HealthHandler reports liveness and storage health. Failover is nil when
// the app runs on in-memory storage only.
type HealthHandler struct {
	Failover  *repository.FailoverStorage
	StartedAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(failover *repository.FailoverStorage) *HealthHandler {
	return &HealthHandler{Failover: failover, StartedAt: time.Now().UTC()}
}

// Health is the liveness probe.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SystemHealth reports the storage mode and circuit breaker state.
func (h *HealthHandler) SystemHealth(c *gin.Context) {
	body := gin.H{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(h.StartedAt).Seconds()),
	}
	if h.Failover == nil {
		body["storage"] = "memory"
		c.JSON(http.StatusOK, body)
		return
	}

	breaker := h.Failover.Breaker()
	state := breaker.State()
	metrics.SetBreakerState(float64(state))
	body["storage"] = "mongodb"
	body["degraded"] = h.Failover.Degraded()
	body["breaker"] = gin.H{
		"state":    state.String(),
		"failures": breaker.FailureCount(),
	}
	if h.Failover.Degraded() {
		body["storage"] = "memory-fallback"
	}
	c.JSON(http.StatusOK, body)
}
