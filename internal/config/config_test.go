package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.Admin.Enabled())
	assert.False(t, cfg.Media.CloudinaryEnabled())
	assert.Equal(t, 30*time.Minute, cfg.Detection.CacheTTL())
	assert.Equal(t, time.Minute, cfg.HTTP.AuthRateWindow())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("ADMIN_EMAIL", " Admin@RoadApp.com ")
	t.Setenv("ADMIN_PASSWORD", "a-long-password")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")
	t.Setenv("DETECTION_CACHE_TTL_MINUTES", "5")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.App.Addr())
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, "admin@roadapp.com", cfg.Admin.Email)
	assert.True(t, cfg.Admin.Enabled())
	assert.True(t, cfg.Media.CloudinaryEnabled())
	assert.Equal(t, 5*time.Minute, cfg.Detection.CacheTTL())
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadRejectsShortAdminPassword(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@roadapp.com")
	t.Setenv("ADMIN_PASSWORD", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}
