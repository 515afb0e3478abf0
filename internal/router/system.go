package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/portfolio-backend/internal/handler"
	"github.com/deppfellow/portfolio-backend/internal/server"
)

// registerSystemRoutes registers the endpoints that are not portfolio
// content: liveness, health, Prometheus and the API docs.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/", h.Health.Live)

	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	// openapi.json and any other docs assets, embedded in the binary.
	r.StaticFS("/static", handler.StaticFiles())

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
