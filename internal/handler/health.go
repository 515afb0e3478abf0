package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/portfolio-backend/internal/middleware"
	"github.com/deppfellow/portfolio-backend/internal/server"
)

// LivenessMessage is the plain-text body of GET /.
const LivenessMessage = "Portfolio server is running.."

const healthCheckTimeout = 5 * time.Second

// HealthHandler serves the liveness and health endpoints used by
// uptime monitors and load balancers.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// Live answers GET / without touching any dependency.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.String(http.StatusOK, LivenessMessage)
}

// CheckHealth pings the document store and, when configured, Redis.
//
// It returns 503 when the store is unreachable. Redis only backs
// Idempotency-Key replays, so a Redis failure is reported in checks
// but leaves the overall status healthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	dbCheck, err := h.runCheck(c.Request().Context(), "database", &logger, func(ctx context.Context) error {
		return h.server.DB.Ping(ctx)
	})
	dbCheck["driver"] = h.server.Config.Database.Driver
	checks["database"] = dbCheck
	if err != nil {
		isHealthy = false
	}

	if h.server.Redis != nil {
		checks["redis"], _ = h.runCheck(c.Request().Context(), "redis", &logger, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

// runCheck times ping under healthCheckTimeout and describes the result.
func (h *HealthHandler) runCheck(
	parent context.Context,
	name string,
	logger *zerolog.Logger,
	ping func(ctx context.Context) error,
) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(parent, healthCheckTimeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}, err
	}

	return map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, nil
}

func (h *HealthHandler) recordHealthCheckError(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
