package main

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/portfolio-backend/internal/config"
	"github.com/deppfellow/portfolio-backend/internal/database"
	"github.com/deppfellow/portfolio-backend/internal/handler"
	"github.com/deppfellow/portfolio-backend/internal/logger"
	"github.com/deppfellow/portfolio-backend/internal/middleware"
	"github.com/deppfellow/portfolio-backend/internal/repository"
	"github.com/deppfellow/portfolio-backend/internal/router"
	"github.com/deppfellow/portfolio-backend/internal/server"
	"github.com/deppfellow/portfolio-backend/internal/service"
)

// migrationRetryInterval spaces out migration attempts while PostgreSQL
// is unreachable.
var migrationRetryInterval = 15 * time.Second

// newApp wires server, repositories, services, handlers and middleware
// into a ready router. An unreachable database never stops it: the
// failure is logged, requests fail with 500 until the database is back,
// and pending PostgreSQL migrations are retried in the background until
// ctx is done.
func newApp(
	ctx context.Context,
	cfg *config.Config,
	log *zerolog.Logger,
	loggerService *logger.LoggerService,
	runMigrations bool,
) (*server.Server, *echo.Echo, error) {
	if runMigrations && cfg.Database.Driver == config.DriverPostgres {
		if err := migrate(ctx, cfg, log); err != nil {
			log.Error().Err(err).Msg("failed to migrate database, retrying in the background")
			go retryMigrations(ctx, cfg, log)
		}
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return nil, nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)
	middlewares := middleware.NewMiddlewares(srv, services.Idempotency)

	r := router.NewRouter(srv, handlers, middlewares)
	srv.SetupHTTPServer(r)

	return srv, r, nil
}

func migrate(ctx context.Context, cfg *config.Config, log *zerolog.Logger) error {
	migrateCtx, cancel := context.WithTimeout(ctx, cfg.Database.PingTimeout+time.Second)
	defer cancel()
	return database.Migrate(migrateCtx, log, cfg)
}

func retryMigrations(ctx context.Context, cfg *config.Config, log *zerolog.Logger) {
	ticker := time.NewTicker(migrationRetryInterval)
	defer ticker.Stop()

	for attempt := 2; ; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := migrate(ctx, cfg, log); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("database migration still failing")
			continue
		}
		log.Info().Int("attempt", attempt).Msg("database migrated after startup")
		return
	}
}
