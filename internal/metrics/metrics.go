// Package metrics exposes Prometheus metrics for the portfolio API.
//
// Two families are recorded:
//   - HTTP requests, by route template, method and status code
//   - document store round trips, by collection, operation and outcome
//
// Everything is registered on a private registry so tests can build as
// many managers as they like.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deppfellow/portfolio-backend/internal/model"
)

// Manager owns the registry and every collector.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	storeOperations        *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec

	idempotentReplays prometheus.Counter
	idempotencyErrors prometheus.Counter
}

// NewManager creates a manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "portfolio",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"route", "method", "status_code"},
	)

	m.storeOperations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of document store operations by collection, operation and outcome",
		},
		[]string{"collection", "operation", "outcome"},
	)

	m.storeOperationDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Document store round trip duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"collection", "operation"},
	)

	m.idempotentReplays = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "idempotent_replays_total",
		Help:      "Create requests answered from a stored Idempotency-Key response",
	})

	m.idempotencyErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "idempotency_store_errors_total",
		Help:      "Create requests served without replay protection because the idempotency store failed",
	})
}

// RecordHTTPRequest records one completed request.
func (m *Manager) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, code).Observe(duration.Seconds())
}

// ObserveStoreOperation records one store round trip.
// Outcome is one of success, not_found or error.
func (m *Manager) ObserveStoreOperation(collection, operation string, duration time.Duration, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, model.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	m.storeOperations.WithLabelValues(collection, operation, outcome).Inc()
	m.storeOperationDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
}

// RecordIdempotentReplay counts a create answered from the idempotency cache.
func (m *Manager) RecordIdempotentReplay() {
	m.idempotentReplays.Inc()
}

// RecordIdempotencyFailure counts a create that bypassed an unavailable
// idempotency store.
func (m *Manager) RecordIdempotencyFailure() {
	m.idempotencyErrors.Inc()
}

// Registry returns the registry every metric lives on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
