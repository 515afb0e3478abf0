package service

import (
	"context"
	"errors"

	"github.com/deppfellow/portfolio-backend/internal/errs"
	"github.com/deppfellow/portfolio-backend/internal/model"
	"github.com/deppfellow/portfolio-backend/internal/repository"
	"github.com/deppfellow/portfolio-backend/internal/server"
	"github.com/deppfellow/portfolio-backend/internal/storeerr"
)

// LinkService serves the singleton links document.
type LinkService struct {
	server *server.Server
	repo   *repository.SingletonRepository
}

func NewLinkService(s *server.Server, repo *repository.SingletonRepository) *LinkService {
	return &LinkService{server: s, repo: repo}
}

func (s *LinkService) Get(ctx context.Context) (model.Document, error) {
	doc, err := s.repo.Get(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil, errs.NewNotFoundError("Links not found")
	}
	if err != nil {
		return nil, storeerr.HandleError(s.repo.Name(), "Failed to fetch links", err)
	}
	return doc, nil
}

// Replace overwrites the links document, creating it on first use.
// Any successful round trip is a success, changed or not.
func (s *LinkService) Replace(ctx context.Context, doc model.Document) (*model.ResultResponse, error) {
	res, err := s.repo.Replace(ctx, doc)
	if err != nil {
		return nil, storeerr.HandleError(s.repo.Name(), "Failed to update links", err)
	}

	return &model.ResultResponse{
		Message: "Links updated successfully",
		Result:  res,
	}, nil
}
