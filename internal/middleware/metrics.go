package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/portfolio-backend/internal/server"
)

// unmatchedRoute labels requests no route matched, keeping raw paths
// out of the metric labels.
const unmatchedRoute = "unmatched"

// MetricsMiddleware feeds request counts and latencies to Prometheus.
type MetricsMiddleware struct {
	server *server.Server
}

func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	return &MetricsMiddleware{server: s}
}

// Record observes every request by route template, method and final status.
func (m *MetricsMiddleware) Record() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.server.Metrics == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if s := statusFromError(err); s != 0 {
				status = s
			} else if err != nil {
				status = 500
			}

			route := c.Path()
			if route == "" || errors.Is(err, echo.ErrNotFound) {
				route = unmatchedRoute
			}

			m.server.Metrics.RecordHTTPRequest(route, c.Request().Method, status, time.Since(start))
			return err
		}
	}
}
