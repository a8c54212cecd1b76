package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testTokenKey = "test-secret"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKEN_KEY", testTokenKey)

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":443", cfg.HTTPAddr)
	assert.Equal(t, "server.crt", cfg.TLSCertFile)
	assert.Equal(t, "server.key", cfg.TLSKeyFile)
	assert.Equal(t, []byte(testTokenKey), cfg.TokenKey)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, rate.Limit(1), cfg.RateLimit)
	assert.Equal(t, 3, cfg.RateBurst)
	assert.Equal(t, "table", cfg.WindModel)
	assert.Equal(t, "imperial", cfg.WindUnits)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("TOKEN_KEY", testTokenKey)
	t.Setenv("HTTP_ADDR", ":8443")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/aeolus")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("WIND_MODEL", "simplified")
	t.Setenv("WIND_UNITS", "metric")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8443", cfg.HTTPAddr)
	assert.Equal(t, "postgres://u:p@db/aeolus", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, rate.Limit(2.5), cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, "simplified", cfg.WindModel)
	assert.Equal(t, "metric", cfg.WindUnits)
}

func TestLoad_MissingTokenKey(t *testing.T) {
	t.Setenv("TOKEN_KEY", "")
	_, err := fromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_KEY")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("TOKEN_KEY", testTokenKey)
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := fromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	t.Setenv("TOKEN_KEY", testTokenKey)
	t.Setenv("RATE_LIMIT_RPS", "fast")
	_, err := fromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_RPS")
}

func TestLoad_InvalidBurst(t *testing.T) {
	t.Setenv("TOKEN_KEY", testTokenKey)
	t.Setenv("RATE_LIMIT_BURST", "0")
	_, err := fromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_BURST")
}

func TestLoad_EmptyTLSCertServesPlainHTTP(t *testing.T) {
	t.Setenv("TOKEN_KEY", testTokenKey)
	t.Setenv("TLS_CERT_FILE", "")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.TLSCertFile)
	assert.Equal(t, "server.key", cfg.TLSKeyFile)
}
