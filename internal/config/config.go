// Package config loads and validates application configuration from environment
// variables, optionally seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFormat selects the slog handler: "json" (default) or "text".
	LogFormat string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (React dev server).
	CORSOrigins []string

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// ReportLocation is the time zone that defines "the current month" for
	// analytics. Defaults to UTC.
	ReportLocation *time.Location

	Store    StoreConfig
	Identity IdentityConfig
}

// StoreConfig selects and locates the expense store.
type StoreConfig struct {
	// Backend is BackendPostgres (default) or BackendSQLite.
	Backend string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string
}

// IdentityConfig controls how the verified owner id reaches the API.
type IdentityConfig struct {
	// Header is the request header an authenticating gateway sets to the
	// verified user id. Defaults to "X-User-ID".
	Header string

	// SkipAuth makes every request run as MockUserID. Local development only.
	SkipAuth bool

	// MockUserID is the owner used when SkipAuth is set.
	MockUserID string
}

// Load reads configuration from environment variables and returns a Config.
// A .env file, when present, fills in variables that are not already set.
// Returns an error listing every required variable that is missing and every
// value that cannot be parsed.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "json")),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Store: StoreConfig{
			Backend:     strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			SQLitePath:  getEnv("SQLITE_PATH", "./data/expenses.db"),
		},
		Identity: IdentityConfig{
			Header:     getEnv("IDENTITY_HEADER", "X-User-ID"),
			MockUserID: strings.TrimSpace(os.Getenv("AUTH_MOCK_USER_ID")),
		},
	}

	var missing, invalid []string

	switch cfg.Store.Backend {
	case BackendPostgres:
		if cfg.Store.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendSQLite:
	default:
		invalid = append(invalid, "STORE_BACKEND")
	}

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	if err != nil {
		invalid = append(invalid, "REPORT_TIMEZONE")
	}
	cfg.ReportLocation = loc

	cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || cfg.MaxBodyBytes <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}

	cfg.Identity.SkipAuth, err = strconv.ParseBool(getEnv("AUTH_SKIP", "false"))
	if err != nil {
		invalid = append(invalid, "AUTH_SKIP")
	}
	if cfg.Identity.SkipAuth && cfg.Identity.MockUserID == "" {
		missing = append(missing, "AUTH_MOCK_USER_ID")
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return Config{}, errors.New(strings.Join(problems, "; "))
	}

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
