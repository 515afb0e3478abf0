// Package database contains the logic for establishing
// connections to the document database.
//
// Two backends are supported:
//   - MongoDB (the default), reached through the official driver with
//     the stable server API v1 in strict mode.
//   - PostgreSQL, where each collection is a table of JSONB documents,
//     reached through a pgx connection pool.
//
// It handles:
//   - opening the single long-lived connection at startup
//   - wiring query tracing/logging (pgx tracelog, New Relic nrpgx5)
//   - pinging, and closing on shutdown
package database

import (
	"context"
	"fmt"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/deppfellow/portfolio-backend/internal/config"
	loggerConfig "github.com/deppfellow/portfolio-backend/internal/logger"
)

// Database wraps the driver handle selected by config.
//
// Exactly one of Mongo or Pool is set, except for the memory driver
// where both are nil.
type Database struct {
	Driver string

	// Mongo is the database handle inside the shared client.
	Mongo *mongo.Database

	// Pool is the shared PostgreSQL connection pool.
	Pool *pgxpool.Pool

	client *mongo.Client
	log    *zerolog.Logger
}

// multiTracer allows chaining multiple pgx tracers.
//
// pgx supports a single Tracer in ConnConfig; this adapter runs the
// New Relic tracer and the local SQL logger side by side.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart implements pgx.QueryTracer.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

// TraceQueryEnd implements pgx.QueryTracer.
func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// New opens the connection for the configured driver.
//
// Behavior:
//   - Build the driver client (lazy: neither driver dials here)
//   - Ping with cfg.Database.PingTimeout
//   - A failed ping is logged and startup continues; requests will then
//     fail with 500 until the database becomes reachable
//
// Only configuration errors (bad URI/DSN) are returned.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	db := &Database{
		Driver: cfg.Database.Driver,
		log:    logger,
	}

	switch cfg.Database.Driver {
	case config.DriverMongo:
		if err := db.openMongo(cfg); err != nil {
			return nil, err
		}
	case config.DriverPostgres:
		if err := db.openPostgres(cfg, logger, loggerService); err != nil {
			return nil, err
		}
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory document store, data is lost on restart")
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeoutOrDefault(cfg.Database.PingTimeout))
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		logger.Error().
			Err(err).
			Str("driver", db.Driver).
			Msg("failed to connect to the database, continuing without a verified connection")
		return db, nil
	}

	logger.Info().Str("driver", db.Driver).Msg("connected to the database")

	return db, nil
}

// openMongo mirrors the client options the portfolio has always used:
// server API v1, strict, with deprecation errors.
func (db *Database) openMongo(cfg *config.Config) error {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(&options.BSONOptions{
			// Nested documents decode as maps so they render as JSON objects.
			DefaultDocumentM: true,
		})
	if cfg.Database.MaxConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.Database.MaxConns))
	}

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("failed to create mongo client: %w", err)
	}

	db.client = client
	db.Mongo = client.Database(cfg.Database.Name)
	return nil
}

func (db *Database) openPostgres(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) error {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.URI)
	if err != nil {
		return fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if cfg.Database.MaxConns > 0 {
		pgxPoolConfig.MaxConns = int32(cfg.Database.MaxConns)
	}

	if loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	// SQL statement logging is noisy, local env only.
	if cfg.IsLocal() {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}

		if pgxPoolConfig.ConnConfig.Tracer != nil {
			pgxPoolConfig.ConnConfig.Tracer = &multiTracer{
				tracers: []any{pgxPoolConfig.ConnConfig.Tracer, localTracer},
			}
		} else {
			pgxPoolConfig.ConnConfig.Tracer = localTracer
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}

	db.Pool = pool
	return nil
}

// Ping checks connectivity of whichever driver is open.
func (db *Database) Ping(ctx context.Context) error {
	switch {
	case db.client != nil:
		return db.client.Ping(ctx, nil)
	case db.Pool != nil:
		return db.Pool.Ping(ctx)
	default:
		return nil
	}
}

// Close releases the connection. It is safe to call on the memory driver.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Str("driver", db.Driver).Msg("closing database connection")

	if db.client != nil {
		if err := db.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to disconnect mongo client: %w", err)
		}
	}

	if db.Pool != nil {
		db.Pool.Close()
	}

	return nil
}

// DefaultPingTimeout applies when the configured ping timeout is zero.
const DefaultPingTimeout = 10 * time.Second

func pingTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultPingTimeout
	}
	return d
}
