package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// Config holds the server settings, populated from the environment and an
// optional .env file.
type Config struct {
	HTTPAddr        string
	TLSCertFile     string
	TLSKeyFile      string
	TokenKey        []byte
	DatabaseURL     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	RateLimit rate.Limit
	RateBurst int

	// Engine defaults, overridable per request.
	WindModel string
	WindUnits string
}

// Load reads .env when present, then the environment, applying defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	shutdown, err := time.ParseDuration(envOrDefault("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil || shutdown <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	rps, err := strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "1"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}
	burst, err := strconv.Atoi(envOrDefault("RATE_LIMIT_BURST", "3"))
	if err != nil || burst <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":443"),
		TLSCertFile:     envOrUnset("TLS_CERT_FILE", "server.crt"),
		TLSKeyFile:      envOrUnset("TLS_KEY_FILE", "server.key"),
		TokenKey:        []byte(os.Getenv("TOKEN_KEY")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdown,
		RateLimit:       rate.Limit(rps),
		RateBurst:       burst,
		WindModel:       envOrDefault("WIND_MODEL", "table"),
		WindUnits:       envOrDefault("WIND_UNITS", "imperial"),
	}
	if len(cfg.TokenKey) == 0 {
		return nil, errors.New("TOKEN_KEY is required")
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envOrUnset returns def only when key is absent, so an explicitly empty
// value survives. An empty TLS_CERT_FILE serves plain HTTP.
func envOrUnset(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
