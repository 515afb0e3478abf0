package middleware

import (
	"bytes"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/portfolio-backend/internal/errs"
	"github.com/deppfellow/portfolio-backend/internal/model"
	"github.com/deppfellow/portfolio-backend/internal/server"
)

const (
	// IdempotencyKeyHeader is sent by clients that want a create to be
	// applied at most once.
	IdempotencyKeyHeader = "Idempotency-Key"

	// IdempotentReplayHeader marks a response served from the cache.
	IdempotentReplayHeader = "Idempotent-Replayed"
)

// IdempotencyStore keeps create responses by key.
// service.IdempotencyService implements it on top of Redis.
type IdempotencyStore interface {
	Enabled() bool
	Begin(ctx context.Context, scope, key string) (*model.StoredResponse, error)
	Complete(ctx context.Context, scope, key string, status int, body []byte) error
	Abort(ctx context.Context, scope, key string) error
}

// IdempotencyMiddleware applies Idempotency-Key semantics to create routes.
type IdempotencyMiddleware struct {
	server *server.Server
	store  IdempotencyStore
}

func NewIdempotencyMiddleware(s *server.Server, store IdempotencyStore) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{server: s, store: store}
}

// bodyCapture copies everything written to the client.
type bodyCapture struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Create wraps a create route of collection scope.
//
// Requests without the header, or with no store configured, pass
// straight through. Otherwise:
//   - a completed key replays the stored status and body
//   - a key still in flight is rejected with 409
//   - a fresh key runs the handler; a 2xx response is stored, anything
//     else releases the key so the client may retry
//   - if the store itself fails, the create runs unprotected
func (m *IdempotencyMiddleware) Create(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(IdempotencyKeyHeader)
			if key == "" || m.store == nil || !m.store.Enabled() {
				return next(c)
			}

			ctx := c.Request().Context()
			logger := GetLogger(c).With().Str("idempotency_key", key).Logger()

			stored, err := m.store.Begin(ctx, scope, key)
			if err != nil {
				if errs.StatusOf(err) != 0 {
					return err
				}

				// The cache is unavailable: serve the create without it.
				logger.Error().Err(err).Msg("idempotency store unavailable, creating without replay protection")
				if m.server.Metrics != nil {
					m.server.Metrics.RecordIdempotencyFailure()
				}
				return next(c)
			}

			if stored != nil {
				if m.server.Metrics != nil {
					m.server.Metrics.RecordIdempotentReplay()
				}
				logger.Info().Int("status", stored.Status).Msg("replaying stored create response")

				c.Response().Header().Set(IdempotentReplayHeader, "true")
				return c.JSONBlob(stored.Status, stored.Body)
			}

			capture := &bodyCapture{ResponseWriter: c.Response().Writer}
			c.Response().Writer = capture

			err = next(c)

			status := c.Response().Status
			if err != nil || status < 200 || status >= 300 {
				if abortErr := m.store.Abort(context.WithoutCancel(ctx), scope, key); abortErr != nil {
					logger.Error().Err(abortErr).Msg("failed to release idempotency key")
				}
				return err
			}

			if completeErr := m.store.Complete(context.WithoutCancel(ctx), scope, key, status, capture.body.Bytes()); completeErr != nil {
				logger.Error().Err(completeErr).Msg("failed to store idempotent response")
			}
			return nil
		}
	}
}
