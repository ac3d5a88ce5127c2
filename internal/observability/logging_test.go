package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestLoggerConfigByEnvironment(t *testing.T) {
	dev := loggerConfig(config.LoggerConfig{Level: "debug", Format: "console"}, config.AppConfig{Env: "development"})
	assert.Equal(t, "console", dev.Encoding)
	assert.True(t, dev.Development)
	assert.Nil(t, dev.Sampling)

	prod := loggerConfig(config.LoggerConfig{Level: "info", Format: "console"}, config.AppConfig{Env: "production"})
	assert.Equal(t, "json", prod.Encoding)
	assert.False(t, prod.Development)
	assert.True(t, prod.DisableStacktrace)
	require.NotNil(t, prod.Sampling)
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "warn"}, config.AppConfig{Name: "road-eye-api", Env: "test"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
