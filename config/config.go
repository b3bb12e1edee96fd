/*
Package config loads server configuration from the environment.

PURPOSE:
  One place for every knob the server reads. Values come from environment
  variables, optionally loaded from a .env file in the working directory;
  everything has a sensible default so a bare `go run ./cmd/server` works.

VARIABLES:
  PORT                   HTTP listen port               (default 8080)
  DB_PATH                SQLite database path           (default ./data/timesheet.db)
  CORS_ORIGINS           Comma-separated allowed origins (default *)
  MAX_INTERVAL_SECONDS   Cap on one recorded interval   (default 86400)
  PAY_PERIOD_DAYS        Length of one pay period       (default 14)
  LOG_LEVEL              debug | info | warn | error    (default info)
*/
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port               int
	DBPath             string
	CORSOrigins        []string
	MaxIntervalSeconds int64
	PayPeriodDays      int
	LogLevel           slog.Level
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables win over it.
func Load() Config {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	return Config{
		Port:               envInt("PORT", 8080),
		DBPath:             envString("DB_PATH", "./data/timesheet.db"),
		CORSOrigins:        envList("CORS_ORIGINS", []string{"*"}),
		MaxIntervalSeconds: int64(envInt("MAX_INTERVAL_SECONDS", 86400)),
		PayPeriodDays:      envInt("PAY_PERIOD_DAYS", 14),
		LogLevel:           envLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func envLevel(key string, fallback slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
