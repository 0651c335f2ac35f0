package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds service configuration.
type Config struct {
	ServerAddr string
	LogLevel   string

	AdminAPIBaseURL   string
	AdminAPITimeout   time.Duration
	AdminAPIRateLimit float64
	AdminAPIBurst     int
	AdminAPITracing   bool

	// DatabaseURL is optional; without it notification history stays in memory.
	DatabaseURL     string
	HistoryCapacity int
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:        getenv("SERVER_ADDR", "0.0.0.0:8090"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		AdminAPIBaseURL:   getenv("ADMIN_API_BASE_URL", "http://localhost:8080/admin-ng/"),
		AdminAPITimeout:   parseDuration(getenv("ADMIN_API_TIMEOUT", "30s"), 30*time.Second),
		AdminAPIRateLimit: parseFloat(getenv("ADMIN_API_RATE_LIMIT", "0"), 0),
		AdminAPIBurst:     parseInt(getenv("ADMIN_API_BURST", "1"), 1),
		AdminAPITracing:   parseBool(getenv("ADMIN_API_TRACING", "false"), false),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HistoryCapacity:   parseInt(getenv("NOTIFICATION_HISTORY_CAPACITY", "1000"), 1000),
	}
	if cfg.AdminAPIRateLimit < 0 {
		return nil, errors.New("ADMIN_API_RATE_LIMIT must not be negative")
	}
	if cfg.AdminAPIBurst < 1 {
		cfg.AdminAPIBurst = 1
	}
	return cfg, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(val string, def float64) float64 {
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return f
}
