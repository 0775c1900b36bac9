package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 12, cfg.DefaultLeaseTermMonths)
	assert.Equal(t, "@every 1h", cfg.LeaseSweepSchedule)
	assert.NotEmpty(t, cfg.CORSAllowedOrigins)
}

func TestLoad_ProdRejectsDefaultSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_ProdWithSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "real-jwt")
	t.Setenv("ADMIN_SECRET", "real-admin")
	t.Setenv("INTERNAL_API_TOKEN", "real-internal")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_ACCESS_TTL", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_ACCESS_TTL")

	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("DEFAULT_LEASE_TERM_MONTHS", "0")
	_, err = Load()
	assert.ErrorContains(t, err, "DEFAULT_LEASE_TERM_MONTHS")
}
