package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundErrorShape(t *testing.T) {
	err := NewNotFoundError("Skill not found")

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "NOT_FOUND", err.Code)

	body, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, `{"message":"Skill not found"}`, string(body))
}

func TestInternalServerErrorShape(t *testing.T) {
	cause := errors.New("the provided hex string is not a valid ObjectID")
	err := NewInternalServerError("Failed to fetch skill", cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, cause)

	body, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, `{"message":"Failed to fetch skill","error":"the provided hex string is not a valid ObjectID"}`, string(body))
}

func TestInternalServerErrorDefaultMessage(t *testing.T) {
	err := NewInternalServerError("", nil)
	assert.Equal(t, "Internal Server Error", err.Message)
	assert.Empty(t, err.Detail)
}

func TestStatusOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewConflictError("in flight"))

	assert.Equal(t, http.StatusConflict, StatusOf(wrapped))
	assert.Equal(t, 0, StatusOf(errors.New("plain")))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", MakeUpperCaseWithUnderscores("Internal Server Error"))
}
