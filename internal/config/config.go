package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env         string
	HTTPHost    string
	HTTPPort    string
	DatabaseURL string
	RedisAddr   string

	// APIKey is the shared secret for mutating calls. Left empty, every
	// mutation is rejected.
	APIKey string

	// Global flood guard, requests per second. 0 disables.
	ThrottleRPS int

	// Per-caller admission window.
	RateWindow time.Duration
	RateMax    int
	RateMinGap time.Duration
}

func Load() Config {
	return Config{
		Env:         get("APP_ENV", "dev"),
		HTTPHost:    get("HTTP_HOST", "0.0.0.0"),
		HTTPPort:    get("HTTP_PORT", "8080"),
		DatabaseURL: get("DATABASE_URL", ""),
		RedisAddr:   get("REDIS_ADDR", ""),
		APIKey:      get("API_KEY", ""),
		ThrottleRPS: getInt("THROTTLE_RPS", 100),
		RateWindow:  getDuration("RATE_WINDOW", 30*time.Second),
		RateMax:     getInt("RATE_MAX", 3),
		RateMinGap:  getDuration("RATE_MIN_GAP", time.Second),
	}
}

func get(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
