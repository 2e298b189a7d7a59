package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/momtazchem/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and readiness probes
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	appName string
	started time.Time
}

// NewSystemHandler creates a new SystemHandler. db may be nil for tests.
func NewSystemHandler(db *persistence.Database, appName string) *SystemHandler {
	return &SystemHandler{
		db:      db,
		appName: appName,
		started: time.Now(),
	}
}

// RegisterRoutes mounts the probe endpoints on the engine root
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}

// Health reports process liveness
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"checked": time.Now().UTC(),
	})
}

// Ready reports whether the database is reachable
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  "database unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
