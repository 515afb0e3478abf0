package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/portfolio-backend/internal/config"
	"github.com/deppfellow/portfolio-backend/internal/handler"
)

func unreachablePostgresConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: config.DatabaseConfig{
			Driver:      config.DriverPostgres,
			URI:         "postgres://u:p@127.0.0.1:1/db?connect_timeout=1",
			Name:        "portfolio-test",
			PingTimeout: time.Second,
		},
	}
}

func TestNewAppStartsWithDatabaseDown(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, r, err := newApp(ctx, unreachablePostgresConfig(), &log, nil, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	assert.Contains(t, buf.String(), "failed to migrate database")

	live := httptest.NewRecorder()
	r.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, live.Code)
	assert.Equal(t, handler.LivenessMessage, live.Body.String())

	list := httptest.NewRecorder()
	r.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/skills", nil))
	assert.Equal(t, http.StatusInternalServerError, list.Code)
	assert.Contains(t, list.Body.String(), "Failed to fetch skills")

	status := httptest.NewRecorder()
	r.ServeHTTP(status, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusServiceUnavailable, status.Code)
}

func TestRetryMigrationsStopsWithContext(t *testing.T) {
	log := zerolog.Nop()
	previous := migrationRetryInterval
	migrationRetryInterval = 10 * time.Millisecond
	t.Cleanup(func() { migrationRetryInterval = previous })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		retryMigrations(ctx, unreachablePostgresConfig(), &log)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("retryMigrations did not return after its context ended")
	}
}
