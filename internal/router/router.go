// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps every collection route to its
// handler.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/portfolio-backend/internal/handler"
	"github.com/deppfellow/portfolio-backend/internal/middleware"
	"github.com/deppfellow/portfolio-backend/internal/model"
	"github.com/deppfellow/portfolio-backend/internal/server"
)

// NewRouter builds the echo instance with global middleware, system
// routes and the portfolio collections.
func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	// Order matters: the request id and the New Relic transaction must
	// exist before the context logger is derived from them.
	router.Use(
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.ContextEnhancer.EnhanceContext(),
		m.Tracing.EnhanceTracing(),
		m.Global.RequestLogger(),
		m.Metrics.Record(),
		m.Global.Recover(),
		m.Global.Secure(),
		m.Global.CORS(),
	)

	if m.RateLimit.Enabled() {
		router.Use(m.RateLimit.Limit())
	}

	registerSystemRoutes(router, s, h)

	registerCollectionRoutes(router, model.CollectionSkills, h.Skills, m.Idempotency)
	registerCollectionRoutes(router, model.CollectionProjects, h.Projects, m.Idempotency)
	registerCollectionRoutes(router, model.CollectionBlogs, h.Blogs, m.Idempotency)

	router.GET("/links", handler.Handle(h.Links.Handler, h.Links.Get, http.StatusOK, handler.NewListRequest))
	router.POST("/links", handler.Handle(h.Links.Handler, h.Links.Replace, http.StatusOK, handler.NewDocumentRequest))

	return router
}

// registerCollectionRoutes binds list, get, create, update and delete
// under /<collection>. Creates honour Idempotency-Key.
func registerCollectionRoutes(
	router *echo.Echo,
	collection string,
	h *handler.CollectionHandler,
	idempotency *middleware.IdempotencyMiddleware,
) {
	g := router.Group("/" + collection)

	g.GET("", handler.Handle(h.Handler, h.List, http.StatusOK, handler.NewListRequest))
	g.GET("/:id", handler.Handle(h.Handler, h.Get, http.StatusOK, handler.NewIDRequest))
	g.POST("", handler.Handle(h.Handler, h.Create, http.StatusCreated, handler.NewDocumentRequest),
		idempotency.Create(collection))
	g.PUT("/:id", handler.Handle(h.Handler, h.Update, http.StatusOK, handler.NewUpdateRequest))
	g.DELETE("/:id", handler.Handle(h.Handler, h.Delete, http.StatusOK, handler.NewIDRequest))
}
