// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-super-secret-key-change-this-in-production"

// Storage backends
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port            string
	Environment     string
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL   string
	RedisURL      string
	RunMigrations bool

	// Security
	JWTSecret string

	// Storage selection
	LikeStore        string // postgres, redis or memory
	DirectoryBackend string // postgres or memory

	// Matching
	MatchDefaultLimit int
	MatchMaxLimit     int
	MatchExcludeRoles []string

	// Logging
	LogLevel  string
	LogFormat string // json or pretty
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", "30s"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),

		LikeStore:        strings.ToLower(getEnv("LIKE_STORE", BackendPostgres)),
		DirectoryBackend: strings.ToLower(getEnv("DIRECTORY_BACKEND", BackendPostgres)),

		MatchDefaultLimit: getEnvInt("MATCH_DEFAULT_LIMIT", 10),
		MatchMaxLimit:     getEnvInt("MATCH_MAX_LIMIT", 50),
		MatchExcludeRoles: getEnvList("MATCH_EXCLUDE_ROLES", "admin,moderator"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWTSecret == defaultJWTSecret && c.IsProduction() {
		return fmt.Errorf("JWT secret must be changed for production")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	switch c.LikeStore {
	case BackendPostgres, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("invalid like store: %s", c.LikeStore)
	}
	switch c.DirectoryBackend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("invalid directory backend: %s", c.DirectoryBackend)
	}

	if c.NeedsPostgres() && c.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}
	if c.LikeStore == BackendRedis && c.RedisURL == "" {
		return fmt.Errorf("redis URL is required for the redis like store")
	}
	if c.IsProduction() && (c.LikeStore == BackendMemory || c.DirectoryBackend == BackendMemory) {
		return fmt.Errorf("memory backends cannot be used in production")
	}

	if c.MatchMaxLimit < 1 {
		return fmt.Errorf("match max limit must be positive")
	}
	if c.MatchDefaultLimit < 1 || c.MatchDefaultLimit > c.MatchMaxLimit {
		return fmt.Errorf("match default limit must be between 1 and %d", c.MatchMaxLimit)
	}

	switch c.LogFormat {
	case "json", "pretty":
	default:
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}

	return nil
}

// NeedsPostgres reports whether any selected backend is PostgreSQL
func (c *Config) NeedsPostgres() bool {
	return c.LikeStore == BackendPostgres || c.DirectoryBackend == BackendPostgres
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper functions

// getEnv gets a string value from environment with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment with a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment with a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment with a default
func getEnvDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
