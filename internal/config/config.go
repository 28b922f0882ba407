// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Development fallbacks. Unsafe outside a local machine.
const (
	DevSessionSecret = "dev_key_change_me_in_prod"
	DevAdminPassword = "admin"
)

// Config holds all application configuration. It is read once at start-up
// and never mutated afterwards.
type Config struct {
	Port          string
	DBPath        string
	SessionSecret string
	AdminPassword string
	RecipientName string
	Env           string

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// friends. Only enable behind a reverse proxy that overwrites them.
	TrustProxyHeaders bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		DBPath:        getEnv("DB_PATH", "./instance/respuestas.db"),
		SessionSecret: getEnv("FLASK_SECRET_KEY", getEnv("SESSION_SECRET", DevSessionSecret)),
		AdminPassword: getEnv("ADMIN_PASSWORD", DevAdminPassword),
		RecipientName: getEnv("RECIPIENT_NAME", "Anghi"),
		Env:           strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "development"))),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("FLASK_SECRET_KEY cannot be empty")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD cannot be empty")
	}
	if c.RecipientName == "" {
		return fmt.Errorf("RECIPIENT_NAME cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

// UsesDevSecrets reports whether either secret is still the hardcoded fallback.
func (c *Config) UsesDevSecrets() bool {
	return c.SessionSecret == DevSessionSecret || c.AdminPassword == DevAdminPassword
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
