package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("AUTH_POSTGRES_DSN", "postgres://localhost/users")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_JWT_EXPIRES_MINUTES", "30")
	t.Setenv("AUTH_HTTP_PORT", "8081")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTPAddress())
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiration())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Signup.AllowAdmin)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("AUTH_POSTGRES_DSN", "postgres://localhost/users")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "jwt secret")
}
