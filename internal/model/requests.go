package model

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ListRequest carries nothing; list and singleton reads take no input.
type ListRequest struct{}

func (r *ListRequest) Validate() error {
	return nil
}

// IDRequest addresses one document by the :id path parameter.
//
// The id is not checked against any identity format here: a malformed
// id is passed to the store as is.
type IDRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *IDRequest) Validate() error {
	return validate.Struct(r)
}

// Body is an opaque JSON object taken verbatim from the request.
//
// An absent body or a JSON null decodes to an empty document.
type Body struct {
	Document Document `json:"-"`
}

// UnmarshalJSON decodes the whole payload into Document. Numbers keep
// their float64 form, the same as any other decoded JSON value.
func (b *Body) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		b.Document = Document{}
		return nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	b.Document = doc
	return nil
}

// Doc returns the decoded document, never nil.
func (b *Body) Doc() Document {
	if b.Document == nil {
		return Document{}
	}
	return b.Document
}

// DocumentRequest is a create or replace payload.
type DocumentRequest struct {
	Body
}

func (r *DocumentRequest) Validate() error {
	return nil
}

// UpdateRequest is a partial update of the document at :id.
type UpdateRequest struct {
	ID string `param:"id" validate:"required"`
	Body
}

func (r *UpdateRequest) Validate() error {
	return validate.Struct(r)
}
