package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/portfolio-backend/internal/model"
	"github.com/deppfellow/portfolio-backend/internal/server"
	"github.com/deppfellow/portfolio-backend/internal/service"
)

// LinkHandler serves the singleton links document.
type LinkHandler struct {
	Handler
	service *service.LinkService
}

func NewLinkHandler(s *server.Server, svc *service.LinkService) *LinkHandler {
	return &LinkHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *LinkHandler) Get(c echo.Context, _ *model.ListRequest) (model.Document, error) {
	return h.service.Get(c.Request().Context())
}

// Replace is bound to POST: the whole document is overwritten, or
// created on first use.
func (h *LinkHandler) Replace(c echo.Context, req *model.DocumentRequest) (*model.ResultResponse, error) {
	return h.service.Replace(c.Request().Context(), req.Doc())
}
