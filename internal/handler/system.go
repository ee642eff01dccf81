package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/user-pipeline/internal/middleware"
	"github.com/deppfellow/user-pipeline/internal/server"
)

// SystemHandler serves endpoints that are not part of the user pipeline:
// the root banner and the health check used by monitors and load balancers.
type SystemHandler struct {
	Handler
}

func NewSystemHandler(s *server.Server) *SystemHandler {
	return &SystemHandler{
		Handler: NewHandler(s),
	}
}

// Banner answers GET / with the configured banner message.
func (h *SystemHandler) Banner(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: h.server.Config.Server.Banner})
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Checks      map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status string `json:"status"`
}

// CheckHealth reports liveness. The pipeline has no external dependencies,
// so the only sub-check is whether New Relic reporting is active.
func (h *SystemHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	newRelic := "disabled"
	if h.server.LoggerService.GetApplication() != nil {
		newRelic = "enabled"
	}

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Uptime:      h.server.Uptime().Truncate(time.Second).String(),
		Checks: map[string]HealthCheck{
			"new_relic": {Status: newRelic},
		},
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":    "response",
				"operation":     "health_check",
				"error_type":    "json_response_error",
				"error_message": err.Error(),
			})
		}

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return nil
}
