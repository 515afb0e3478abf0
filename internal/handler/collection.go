package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/portfolio-backend/internal/model"
	"github.com/deppfellow/portfolio-backend/internal/server"
	"github.com/deppfellow/portfolio-backend/internal/service"
)

// CollectionHandler serves the five routes of one id-addressed
// collection (skills, projects or blogs).
type CollectionHandler struct {
	Handler
	service *service.CollectionService
}

func NewCollectionHandler(s *server.Server, svc *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *CollectionHandler) List(c echo.Context, _ *model.ListRequest) ([]model.Document, error) {
	return h.service.List(c.Request().Context())
}

func (h *CollectionHandler) Get(c echo.Context, req *model.IDRequest) (model.Document, error) {
	return h.service.Get(c.Request().Context(), req.ID)
}

func (h *CollectionHandler) Create(c echo.Context, req *model.DocumentRequest) (*model.ResultResponse, error) {
	return h.service.Create(c.Request().Context(), req.Doc())
}

func (h *CollectionHandler) Update(c echo.Context, req *model.UpdateRequest) (*model.MessageResponse, error) {
	return h.service.Update(c.Request().Context(), req.ID, req.Doc())
}

func (h *CollectionHandler) Delete(c echo.Context, req *model.IDRequest) (*model.MessageResponse, error) {
	return h.service.Delete(c.Request().Context(), req.ID)
}
