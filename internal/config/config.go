// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is applied
// first when present, so local development does not need exported shell
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// DBMaxConns caps the connection pool. Defaults to 10.
	DBMaxConns int32

	// DBMinConns is the number of connections kept warm. Defaults to 2.
	DBMinConns int32

	// DBIdleTimeout is how long an idle connection may linger before the
	// pool closes it. Defaults to 5 minutes.
	DBIdleTimeout time.Duration

	// DBConnectTimeout bounds the initial connect-and-ping. Defaults to 10s.
	DBConnectTimeout time.Duration

	// DBMaxConnLifetime recycles connections older than this. Defaults to 1h.
	DBMaxConnLifetime time.Duration

	// CacheCapacity is the maximum number of entries the view cache holds
	// before evicting. Defaults to 10000.
	CacheCapacity int

	// CacheDefaultTTL is the lifetime of cache entries written without an
	// explicit TTL. Defaults to 5 minutes.
	CacheDefaultTTL time.Duration
}

// Load reads configuration from the environment (and a .env file, if one
// exists) and returns a Config. Returns an error listing any required
// variables that are not set or unparsable values.
func Load() (Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.DBMaxConns, err = getEnvInt32("DB_MAX_CONNECTIONS", 10); err != nil {
		return Config{}, err
	}
	if cfg.DBMinConns, err = getEnvInt32("DB_MIN_CONNECTIONS", 2); err != nil {
		return Config{}, err
	}
	if cfg.DBIdleTimeout, err = getEnvSeconds("DB_IDLE_TIMEOUT_SECONDS", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.DBConnectTimeout, err = getEnvSeconds("DB_CONNECT_TIMEOUT_SECONDS", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DBMaxConnLifetime, err = getEnvSeconds("DB_MAX_CONN_LIFETIME_SECONDS", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CacheDefaultTTL, err = getEnvSeconds("CACHE_DEFAULT_TTL_SECONDS", 5*time.Minute); err != nil {
		return Config{}, err
	}

	capacity, err := getEnvInt32("CACHE_CAPACITY", 10_000)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheCapacity = int(capacity)

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt32 parses the named variable as a positive integer.
func getEnvInt32(key string, fallback int32) (int32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return int32(n), nil
}

// getEnvSeconds parses the named variable as a positive whole-second duration.
func getEnvSeconds(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive number of seconds, got %q", key, v)
	}
	return time.Duration(n) * time.Second, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
