package handler

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/pkg/health"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	monitor *health.Monitor
}

type HealthCheckResponse struct {
	Status    string                        `json:"status"`
	Version   string                        `json:"version"`
	Timestamp time.Time                     `json:"timestamp"`
	Checks    map[string]health.CheckResult `json:"checks"`
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// HealthCheck reports the last result of every dependency check.
// Only an unhealthy critical dependency turns the response into a 503.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.monitor.Overall() == health.StatusUnknown {
		h.monitor.CheckAll(c.Request.Context())
	}

	overall := h.monitor.Overall()
	response := HealthCheckResponse{
		Status:    overall.String(),
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    make(map[string]health.CheckResult),
	}
	for _, result := range h.monitor.GetAllResults() {
		response.Checks[result.Name] = result
	}

	statusCode := http.StatusOK
	if overall == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

// BasicHealth returns a simple health check (for load balancers)
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   constants.AppVersion,
		"timestamp": time.Now(),
	})
}
