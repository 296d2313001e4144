package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CONSUMPTION_POSTGRES_DSN", "postgres://localhost/water")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.InDelta(t, 2.31, cfg.Tariff.FixedWeeklyCharge, 1e-9)
	assert.InDelta(t, 2.10, cfg.Tariff.RatePerM3, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Feed.PingInterval)
	assert.Equal(t, 16, cfg.Feed.Buffer)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CONSUMPTION_POSTGRES_DSN", "postgres://localhost/water")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CONSUMPTION_HTTP_PORT", ":9000")
	t.Setenv("CONSUMPTION_REDIS_ADDR", "redis:6379")
	t.Setenv("CONSUMPTION_CACHE_TTL", "90s")
	t.Setenv("CONSUMPTION_TARIFF_RATE_PER_M3", "3.5")
	t.Setenv("CONSUMPTION_AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddress())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.InDelta(t, 3.5, cfg.Tariff.RatePerM3, 1e-9)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoadRequiresDSNAndSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CONSUMPTION_POSTGRES_DSN", "")
	t.Setenv("JWT_SECRET", "s3cret")
	_, err := Load()
	assert.ErrorContains(t, err, "DSN")

	t.Setenv("CONSUMPTION_POSTGRES_DSN", "postgres://localhost/water")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "jwt secret")
}
