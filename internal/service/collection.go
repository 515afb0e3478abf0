package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/portfolio-backend/internal/errs"
	"github.com/deppfellow/portfolio-backend/internal/model"
	"github.com/deppfellow/portfolio-backend/internal/repository"
	"github.com/deppfellow/portfolio-backend/internal/server"
	"github.com/deppfellow/portfolio-backend/internal/storeerr"
)

// CollectionService serves one id-addressed collection.
//
// Each method is a single store call; its outcome is turned into the
// confirmation message, a 404, or a 500 carrying the driver error.
type CollectionService struct {
	server *server.Server
	repo   *repository.CollectionRepository

	// label is the singular noun used in messages, e.g. "Skill".
	label string
}

func NewCollectionService(s *server.Server, repo *repository.CollectionRepository) *CollectionService {
	return &CollectionService{
		server: s,
		repo:   repo,
		label:  model.Label(repo.Name()),
	}
}

func (s *CollectionService) failure(message string, err error) error {
	return storeerr.HandleError(s.repo.Name(), message, err)
}

// List returns every document in the store's natural order, an empty
// slice when there are none.
func (s *CollectionService) List(ctx context.Context) ([]model.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.failure("Failed to fetch "+s.repo.Name(), err)
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

func (s *CollectionService) Get(ctx context.Context, id string) (model.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, errs.NewNotFoundError(s.label + " not found")
	}
	if err != nil {
		return nil, s.failure("Failed to fetch "+s.singular(), err)
	}
	return doc, nil
}

// Create stores doc as given. There is no validation and no
// de-duplication: two identical creates make two documents.
func (s *CollectionService) Create(ctx context.Context, doc model.Document) (*model.ResultResponse, error) {
	res, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, s.failure("Failed to add "+s.singular(), err)
	}

	zerolog.Ctx(ctx).Info().
		Str("collection", s.repo.Name()).
		Interface("inserted_id", res.InsertedID).
		Msg("document created")

	return &model.ResultResponse{
		Message: s.label + " added successfully",
		Result:  res,
	}, nil
}

// Update sets fields on the document. It succeeds only when exactly one
// document matched and was modified; an update that changes nothing is
// reported the same way as a missing id.
func (s *CollectionService) Update(ctx context.Context, id string, fields model.Document) (*model.MessageResponse, error) {
	res, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, s.failure("Failed to update "+s.singular(), err)
	}

	if res.MatchedCount != 1 || res.ModifiedCount != 1 {
		return nil, errs.NewNotFoundError(s.label + " not found or no changes made")
	}

	return &model.MessageResponse{Message: s.label + " updated successfully"}, nil
}

func (s *CollectionService) Delete(ctx context.Context, id string) (*model.MessageResponse, error) {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.failure("Failed to delete "+s.singular(), err)
	}

	if res.DeletedCount != 1 {
		return nil, errs.NewNotFoundError(s.label + " not found")
	}

	return &model.MessageResponse{Message: s.label + " deleted successfully"}, nil
}

func (s *CollectionService) singular() string {
	return strings.ToLower(s.label)
}
