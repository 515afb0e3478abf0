package service

import (
	"github.com/deppfellow/portfolio-backend/internal/repository"
	"github.com/deppfellow/portfolio-backend/internal/server"
)

// Services groups the business layer: one service per collection plus
// the idempotency cache used by create routes.
type Services struct {
	Skills   *CollectionService
	Projects *CollectionService
	Blogs    *CollectionService
	Links    *LinkService

	Idempotency *IdempotencyService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Skills:      NewCollectionService(s, repos.Skills),
		Projects:    NewCollectionService(s, repos.Projects),
		Blogs:       NewCollectionService(s, repos.Blogs),
		Links:       NewLinkService(s, repos.Links),
		Idempotency: NewIdempotencyService(s),
	}
}
