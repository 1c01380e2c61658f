package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// LogConfig controls the console format and optional Fluent Bit forwarding.
type LogConfig struct {
	Level      string
	Format     string
	FluentHost string
	FluentPort int
	FluentTag  string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL         string
	DatabaseMaxConns    int
	RedisURL            string
	JWTSecret           string
	Port                string
	TokenTTL            time.Duration
	RateLimitAssistant  RateLimitConfig
	DefaultPhoneRegion  string
	GoogleClientID      string
	AllowedOrigins      []string
	AssistantMaxResults int
	Log                 LogConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		Port:               getEnv("PORT", "8080"),
		TokenTTL:           parseDuration(getEnv("JWT_TTL", "24h")),
		DefaultPhoneRegion: strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "US")),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "color"),
			FluentHost: os.Getenv("FLUENT_HOST"),
			FluentTag:  getEnv("FLUENT_TAG", "rentals-api"),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_ASSISTANT", "20/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ASSISTANT value: %w", err)
	}
	cfg.RateLimitAssistant = rl

	maxResults, err := parsePositiveInt(getEnv("ASSISTANT_MAX_RESULTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid ASSISTANT_MAX_RESULTS value: %w", err)
	}
	cfg.AssistantMaxResults = maxResults

	maxConns, err := parsePositiveInt(getEnv("DATABASE_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_MAX_CONNS value: %w", err)
	}
	cfg.DatabaseMaxConns = maxConns

	fluentPort, err := parsePositiveInt(getEnv("FLUENT_PORT", "24224"))
	if err != nil {
		return nil, fmt.Errorf("invalid FLUENT_PORT value: %w", err)
	}
	cfg.Log.FluentPort = fluentPort

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func parsePositiveInt(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive integer, got %q", value)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}
