// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request logging, CORS, tracing, metrics, rate limiting, idempotent
// creates and panic recovery.
package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/portfolio-backend/internal/server"
)

// Middlewares groups every middleware component used by the HTTP server.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and
	// the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches a request-scoped logger to each request.
	ContextEnhancer *ContextEnhancer

	// Tracing wires New Relic transactions and custom attributes.
	Tracing *TracingMiddleware

	// Metrics records Prometheus request metrics.
	Metrics *MetricsMiddleware

	// RateLimit enforces the optional per-IP request rate.
	RateLimit *RateLimitMiddleware

	// Idempotency replays create responses by Idempotency-Key.
	Idempotency *IdempotencyMiddleware
}

// NewMiddlewares constructs all middleware components.
//
// idempotency may be nil, in which case Idempotency-Key headers are ignored.
func NewMiddlewares(s *server.Server, idempotency IdempotencyStore) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		Metrics:         NewMetricsMiddleware(s),
		RateLimit:       NewRateLimitMiddleware(s),
		Idempotency:     NewIdempotencyMiddleware(s, idempotency),
	}
}
