package logger

import (
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/portfolio-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Logging: config.LoggingConfig{Level: "warn", Format: "json"},
	}
}

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger(testConfig())
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewLoggerServiceDisabledWithoutLicense(t *testing.T) {
	service, err := NewLoggerService(testConfig())
	require.NoError(t, err)

	assert.Nil(t, service.GetApplication())
	service.Shutdown()
}

func TestGetApplicationNilReceiver(t *testing.T) {
	var service *LoggerService
	assert.Nil(t, service.GetApplication())
}

func TestWithTraceContextNilTransaction(t *testing.T) {
	base := zerolog.Nop()
	assert.Equal(t, base, WithTraceContext(base, nil))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	tests := []struct {
		in   zerolog.Level
		want tracelog.LogLevel
	}{
		{zerolog.TraceLevel, tracelog.LogLevelTrace},
		{zerolog.DebugLevel, tracelog.LogLevelDebug},
		{zerolog.InfoLevel, tracelog.LogLevelInfo},
		{zerolog.WarnLevel, tracelog.LogLevelWarn},
		{zerolog.ErrorLevel, tracelog.LogLevelError},
		{zerolog.Disabled, tracelog.LogLevelNone},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, GetPgxTraceLogLevel(tt.in))
		})
	}
}
