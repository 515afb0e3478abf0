package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/portfolio-backend/internal/errs"
	"github.com/deppfellow/portfolio-backend/internal/model"
)

func newContext(method, body, contentType string, id string) echo.Context {
	e := echo.New()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/skills/"+id, nil)
	} else {
		req = httptest.NewRequest(method, "/skills/"+id, strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	c := e.NewContext(req, httptest.NewRecorder())
	if id != "" {
		c.SetPath("/skills/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c
}

func TestBindAndValidateUpdate(t *testing.T) {
	c := newContext(http.MethodPut, `{"level":"expert"}`, echo.MIMEApplicationJSON, "abc")

	req := &model.UpdateRequest{}
	require.NoError(t, BindAndValidate(c, req))

	assert.Equal(t, "abc", req.ID)
	assert.Equal(t, model.Document{"level": "expert"}, req.Doc())
}

func TestBindAndValidateEmptyBody(t *testing.T) {
	c := newContext(http.MethodPost, "", "", "")

	req := &model.DocumentRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, model.Document{}, req.Doc())
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	c := newContext(http.MethodPost, `{"name":`, echo.MIMEApplicationJSON, "")

	err := BindAndValidate(c, &model.DocumentRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Invalid request body", httpErr.Message)
	assert.NotEmpty(t, httpErr.Detail)
}

func TestBindAndValidateArrayBody(t *testing.T) {
	c := newContext(http.MethodPost, `[1,2,3]`, echo.MIMEApplicationJSON, "")

	err := BindAndValidate(c, &model.DocumentRequest{})
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
}

func TestBindAndValidateUnsupportedMediaType(t *testing.T) {
	c := newContext(http.MethodPost, `name=Go`, "text/plain", "")

	err := BindAndValidate(c, &model.DocumentRequest{})

	var echoErr *echo.HTTPError
	require.ErrorAs(t, err, &echoErr)
	assert.Equal(t, http.StatusUnsupportedMediaType, echoErr.Code)
}

func TestBindAndValidateMissingID(t *testing.T) {
	c := newContext(http.MethodGet, "", "", "")

	err := BindAndValidate(c, &model.IDRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "is required"}}, httpErr.Errors)
}
