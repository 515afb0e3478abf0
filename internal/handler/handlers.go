package handler

import (
	"github.com/deppfellow/portfolio-backend/internal/server"
	"github.com/deppfellow/portfolio-backend/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Skills   *CollectionHandler
	Projects *CollectionHandler
	Blogs    *CollectionHandler
	Links    *LinkHandler

	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Skills:   NewCollectionHandler(s, services.Skills),
		Projects: NewCollectionHandler(s, services.Projects),
		Blogs:    NewCollectionHandler(s, services.Blogs),
		Links:    NewLinkHandler(s, services.Links),
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
	}
}
