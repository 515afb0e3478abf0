// Package config manages environment variables.
//
// It reads variables from the `.env` file (and optionally a YAML file),
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional values (port, driver, timeouts).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: triggers godotenv's autoload feature.
	// If a `.env` file exists, it gets loaded into process env
	// *before* the code below reads env vars.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

/*
	Key idea in this file:
	- An optional YAML file is loaded first, env vars override it.
	- Env vars are read using a prefix: PORTFOLIO_
	- The first "_" after the prefix separates the block from the field,
	  e.g. PORTFOLIO_SERVER_CORS_ALLOWED_ORIGINS -> server.cors_allowed_origins
	- The legacy PORT and DB_URI variables are honoured when the prefixed
	  ones are missing, so an existing deployment keeps working.
*/

// EnvPrefix is the prefix every application variable carries.
const EnvPrefix = "PORTFOLIO_"

// Supported database drivers.
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Redis    RedisConfig    `koanf:"redis"`
	Logging  LoggingConfig  `koanf:"logging" validate:"required"`
	NewRelic NewRelicConfig `koanf:"newrelic"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are plain seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is requests per second per client IP. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig selects the document store and how to reach it.
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=mongodb postgres memory"`

	// URI is the MongoDB connection string or the PostgreSQL DSN.
	// Not needed for the memory driver.
	URI string `koanf:"uri"`

	// Name is the MongoDB database name. PostgreSQL takes it from the DSN.
	Name string `koanf:"name" validate:"required"`

	MaxConns    int           `koanf:"max_conns" validate:"min=0"`
	PingTimeout time.Duration `koanf:"ping_timeout" validate:"min=0"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port"; empty disables Redis.
type RedisConfig struct {
	Address        string        `koanf:"address"`
	IdempotencyTTL time.Duration `koanf:"idempotency_ttl" validate:"min=0"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`

	// Format is "json" or "console".
	Format string `koanf:"format" validate:"required,oneof=json console"`
}

// NewRelicConfig holds configuration for New Relic APM and tracing.
// An empty LicenseKey disables the agent entirely.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

// DefaultDatabaseName is the MongoDB database existing deployments
// already hold their content in.
const DefaultDatabaseName = "sabbir-hassan-portfolio-db"

// ServiceName identifies this service in logs and APM dashboards.
const ServiceName = "portfolio"

// defaults returns the baseline every source is layered on top of.
func defaults() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "5000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Driver:      DriverMongo,
			Name:        DefaultDatabaseName,
			MaxConns:    10,
			PingTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			IdempotencyTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
		},
	}
}

// envKey turns PORTFOLIO_SERVER_CORS_ALLOWED_ORIGINS into
// server.cors_allowed_origins.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// envValue maps a raw variable to its koanf key and value.
// List-valued keys are comma separated.
func envValue(k, v string) (string, interface{}) {
	key := envKey(k)
	if key == "server.cors_allowed_origins" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		return key, origins
	}
	return key, v
}

// LoadConfig loads configuration from an optional YAML file and the
// environment, validates it and returns the result.
//
// path may be empty, in which case only the environment is read.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("could not load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	applyLegacyEnv(k, cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyLegacyEnv maps the unprefixed PORT and DB_URI variables.
// Prefixed values always win.
func applyLegacyEnv(k *koanf.Koanf, cfg *Config) {
	if !k.Exists("server.port") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Server.Port = port
		}
	}
	if !k.Exists("database.uri") {
		if uri := os.Getenv("DB_URI"); uri != "" {
			cfg.Database.URI = uri
		}
	}
}

// Validate applies cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Database.Driver != DriverMemory && c.Database.URI == "" {
		return fmt.Errorf("database uri is required for driver %q", c.Database.Driver)
	}

	for _, origin := range c.Server.CORSAllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("cors_allowed_origins contains an empty origin")
		}
	}

	return nil
}

// IsProduction reports whether the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}

// IsLocal reports whether the application runs on a developer machine.
// Local mode turns on SQL query logging.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
