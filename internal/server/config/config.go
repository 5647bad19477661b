// Package config loads runtime settings for the service from environment
// variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the authgate server.
//
// DATABASE_URL is required: the process refuses to start without it.
// JWT_SECRET is optional: when absent, a random secret is generated for the
// process lifetime and SecretIsEphemeral is set. Every token issued before
// a restart then becomes unverifiable.
type Config struct {
	Host          string `env:"HOST" envDefault:"0.0.0.0"`
	Port          int    `env:"PORT" envDefault:"3000"`
	DatabaseDSN   string `env:"DATABASE_URL"`
	JWTSecret     string `env:"JWT_SECRET"`
	JWTTTLSeconds int64  `env:"JWT_TTL_SECONDS" envDefault:"3600"`

	// SecretIsEphemeral is derived, not read from the environment.
	SecretIsEphemeral bool `env:"-"`
}

// Load builds a Config from the environment, applying defaults and the
// ephemeral-secret fallback.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DatabaseDSN == "" {
		return nil, errors.New("DATABASE_URL is required; the service will not start without a PostgreSQL DSN")
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		secret, err := generateSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		cfg.SecretIsEphemeral = true
	}

	return cfg, nil
}

// Addr returns the host:port bind address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TokenTTL returns the configured token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLSeconds) * time.Second
}

func generateSecret() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
