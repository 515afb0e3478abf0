package handler

import "github.com/deppfellow/portfolio-backend/internal/model"

// Payload factories for Handle.

func NewListRequest() *model.ListRequest { return &model.ListRequest{} }

func NewIDRequest() *model.IDRequest { return &model.IDRequest{} }

func NewDocumentRequest() *model.DocumentRequest { return &model.DocumentRequest{} }

func NewUpdateRequest() *model.UpdateRequest { return &model.UpdateRequest{} }
