package storeerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/deppfellow/portfolio-backend/internal/errs"
	"github.com/deppfellow/portfolio-backend/internal/model"
)

func invalidHexError() error {
	_, err := primitive.ObjectIDFromHex("zzzzzzzzzzzzzzzzzzzzzzzz")
	return pkgerrors.Wrap(err, "invalid id")
}

func shortHexError() error {
	_, err := primitive.ObjectIDFromHex("abc")
	return pkgerrors.Wrap(err, "invalid id")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"not found", fmt.Errorf("get: %w", model.ErrNotFound), NotFound},
		{"pg malformed uuid", &pgconn.PgError{Code: "22P02"}, InvalidID},
		{"pg unique", pkgerrors.Wrap(&pgconn.PgError{Code: "23505"}, "insert"), DuplicateKey},
		{"pg canceled", &pgconn.PgError{Code: "57014"}, Timeout},
		{"pg connection", &pgconn.PgError{Code: "08006"}, Unavailable},
		{"pg other", &pgconn.PgError{Code: "42P01"}, Other},
		{"hex with bad characters", invalidHexError(), InvalidID},
		{"hex of wrong length", shortHexError(), InvalidID},
		{"mongo duplicate", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, DuplicateKey},
		{"deadline", pkgerrors.Wrap(context.DeadlineExceeded, "find"), Timeout},
		{"canceled", context.Canceled, Canceled},
		{"client disconnected", mongo.ErrClientDisconnected, Unavailable},
		{"plain", errors.New("boom"), Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "SKILL_INVALID_ID", ErrorCode(model.CollectionSkills, invalidHexError()))
	assert.Equal(t, "LINKS_ERROR", ErrorCode(model.CollectionLinks, errors.New("boom")))
	assert.Equal(t, "RECORD_TIMEOUT", ErrorCode("", context.DeadlineExceeded))
}

func TestHandleError(t *testing.T) {
	cause := shortHexError()

	err := HandleError(model.CollectionBlogs, "Failed to fetch blog", cause)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Failed to fetch blog", httpErr.Message)
	assert.Equal(t, cause.Error(), httpErr.Detail)
	assert.Equal(t, "BLOG_INVALID_ID", httpErr.Code)
	assert.ErrorIs(t, err, cause)
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	notFound := errs.NewNotFoundError("Blog not found")
	assert.Same(t, notFound, HandleError(model.CollectionBlogs, "Failed to fetch blog", notFound))
}
