package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deppfellow/portfolio-backend/internal/errs"
	"github.com/deppfellow/portfolio-backend/internal/model"
	"github.com/deppfellow/portfolio-backend/internal/server"
)

const (
	idempotencyPrefix  = "idempotency"
	idempotencyPending = "pending"
)

// IdempotencyService remembers create responses by Idempotency-Key so a
// retried create returns the first result instead of inserting again.
//
// Keys are scoped per collection: idempotency:<collection>:<key>.
// Without Redis the service is disabled and creates stay at-least-once.
type IdempotencyService struct {
	server *server.Server
	ttl    time.Duration
}

func NewIdempotencyService(s *server.Server) *IdempotencyService {
	return &IdempotencyService{
		server: s,
		ttl:    s.Config.Redis.IdempotencyTTL,
	}
}

// Enabled reports whether a Redis client is configured.
func (s *IdempotencyService) Enabled() bool {
	return s.server.Redis != nil
}

func redisKey(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", idempotencyPrefix, scope, key)
}

// Begin claims key for the caller.
//
// It returns (nil, nil) when the caller owns the key and must run the
// create, the stored response when the key was already completed, and a
// 409 while another request holding the key is still in flight.
// Redis and decoding failures are returned as plain wrapped errors so
// callers can tell them from the 409.
func (s *IdempotencyService) Begin(ctx context.Context, scope, key string) (*model.StoredResponse, error) {
	rk := redisKey(scope, key)

	claimed, err := s.server.Redis.SetNX(ctx, rk, idempotencyPending, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if claimed {
		return nil, nil
	}

	raw, err := s.server.Redis.Get(ctx, rk).Result()
	if errors.Is(err, redis.Nil) {
		// Expired or aborted between SETNX and GET.
		return s.Begin(ctx, scope, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}

	if raw == idempotencyPending {
		return nil, errs.NewConflictError("A request with this Idempotency-Key is already in progress")
	}

	var stored model.StoredResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decode stored response: %w", err)
	}
	return &stored, nil
}

// Complete stores the response for key, replacing the pending marker.
func (s *IdempotencyService) Complete(ctx context.Context, scope, key string, status int, body []byte) error {
	payload, err := json.Marshal(model.StoredResponse{Status: status, Body: body})
	if err != nil {
		return err
	}
	return s.server.Redis.Set(ctx, redisKey(scope, key), payload, s.ttl).Err()
}

// Abort releases key so the client can retry a failed create.
func (s *IdempotencyService) Abort(ctx context.Context, scope, key string) error {
	return s.server.Redis.Del(ctx, redisKey(scope, key)).Err()
}
