package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ":3001", cfg.Addr())
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_DRIVER", "pgx")
	t.Setenv("TOKEN_TTL", "90")
	t.Setenv("STATS_CACHE_TTL", "1m")
	t.Setenv("CORS_ORIGINS", "https://afyaconnect.co.ke, https://admin.afyaconnect.co.ke,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pgx", cfg.DatabaseDriver)
	assert.Equal(t, 90*time.Second, cfg.TokenTTL)
	assert.Equal(t, time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, []string{"https://afyaconnect.co.ke", "https://admin.afyaconnect.co.ke"}, cfg.CORSOrigins)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("TOKEN_TTL", "soon")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)

	t.Setenv("JWT_SECRET", "")
	t.Setenv("GIN_MODE", "debug")
	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Len(t, first.JWTSecret, 64)
	assert.NotEqual(t, first.JWTSecret, second.JWTSecret)

	t.Setenv("GIN_MODE", "release")
	_, err = Load()
	assert.EqualError(t, err, "JWT_SECRET must be set in release mode")
}
