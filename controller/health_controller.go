// controller/health_controller.go
package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/bookclub/logging"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

type HealthController struct {
	checks map[string]Checker
}

func NewHealthController(checks map[string]Checker) *HealthController {
	return &HealthController{checks: checks}
}

// RegisterRoutes registers the API routes
func (hc *HealthController) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", hc.Health)
}

// Health returns 503 when any dependency check fails.
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	report := make(gin.H, len(hc.checks))
	for name, check := range hc.checks {
		if err := check(ctx); err != nil {
			logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			report[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "ok"
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": report})
}
