package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const defaultSessionSecret = "dev-secret-change-in-production"

type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	SessionSecret  string
	SessionTTL     time.Duration
	GenerateDelay  time.Duration
	HistoryLimit   int
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),
		SessionSecret:  getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:     getDuration("SESSION_TTL", 30*time.Minute),
		GenerateDelay:  getDuration("GENERATE_DELAY", time.Second),
		HistoryLimit:   getInt("HISTORY_LIMIT", 100),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
	}

	if cfg.IsProduction() && cfg.SessionSecret == defaultSessionSecret {
		slog.Error("SESSION_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// IsProduction reports whether cookies should be marked Secure.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("invalid number, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}
