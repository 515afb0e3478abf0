package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/portfolio-backend/internal/model"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := NewManager()

	m.RecordHTTPRequest("/skills/:id", http.MethodGet, http.StatusOK, 15*time.Millisecond)
	m.RecordHTTPRequest("/skills/:id", http.MethodGet, http.StatusOK, 5*time.Millisecond)
	m.RecordHTTPRequest("/skills/:id", http.MethodGet, http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/skills/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/skills/:id", "GET", "404")))
}

func TestObserveStoreOperation(t *testing.T) {
	m := NewManager()

	m.ObserveStoreOperation(model.CollectionBlogs, "find_by_id", time.Millisecond, nil)
	m.ObserveStoreOperation(model.CollectionBlogs, "find_by_id", time.Millisecond, model.ErrNotFound)
	m.ObserveStoreOperation(model.CollectionBlogs, "find_by_id", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("blogs", "find_by_id", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("blogs", "find_by_id", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("blogs", "find_by_id", "error")))
}

func TestManagersAreIndependent(t *testing.T) {
	a := NewManager()
	b := NewManager()

	a.RecordIdempotentReplay()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.idempotentReplays))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.idempotentReplays))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewManager(WithNamespace("test"))
	m.RecordHTTPRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_api_http_requests_total{method="GET",route="/",status_code="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
