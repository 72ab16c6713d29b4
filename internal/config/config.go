package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	SessionSecret string
	Env           string // "development" or "production"
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./projtrack.db"),
		SessionSecret: secret,
		Env:           getEnv("APP_ENV", "development"),
	}, nil
}

// IsProduction reports whether the app is configured for production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
