package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// SystemHandler serves the service root and the health probe
type SystemHandler struct {
	BaseHandler
	probe *persistence.HealthProbe
}

// NewSystemHandler creates a system handler
func NewSystemHandler(probe *persistence.HealthProbe) *SystemHandler {
	return &SystemHandler{probe: probe}
}

// RegisterRoutes registers the unprotected system routes on the engine root
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/", h.Root)
	engine.GET("/health", h.Health)
}

// Root reports that the service is up
func (h *SystemHandler) Root(c *gin.Context) {
	h.OK(c, gin.H{"api": "WWI multi-branch API", "status": "running"})
}

// Health probes every configured branch and reports per-branch connectivity.
// One branch being down never fails the request; its status carries the
// failure instead.
func (h *SystemHandler) Health(c *gin.Context) {
	tenants, checkedAt := h.probe.Check(c.Request.Context())
	host, _ := os.Hostname()
	c.JSON(http.StatusOK, gin.H{
		"api":       "OK",
		"timestamp": checkedAt.Format(time.RFC3339),
		"host":      host,
		"tenants":   tenants,
	})
}
