// Package yahoo provides a client for the Yahoo Finance quote, fundamentals
// and chart APIs.
package yahoo

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultCookieURL = "https://fc.yahoo.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL           string        // API host, e.g. "https://query1.finance.yahoo.com"
	CookieURL         string        // Page that issues the session cookie
	UserAgent         string        // Browser-like User-Agent required by the API
	Timeout           time.Duration // HTTP request timeout
	SessionTTL        time.Duration // How long a crumb is reused
	RequestsPerMinute int           // Outbound throttle, 0 disables it
	HistoryYears      int           // Depth of fundamentals history
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
func LoadConfig() Config {
	return Config{
		BaseURL:           getEnv("YAHOO_BASE_URL", defaultBaseURL),
		CookieURL:         getEnv("YAHOO_COOKIE_URL", defaultCookieURL),
		UserAgent:         getEnv("YAHOO_USER_AGENT", defaultUserAgent),
		Timeout:           getDuration("YAHOO_TIMEOUT", 10*time.Second),
		SessionTTL:        getDuration("YAHOO_SESSION_TTL", 30*time.Minute),
		RequestsPerMinute: getInt("YAHOO_REQUESTS_PER_MINUTE", 60),
		HistoryYears:      getInt("YAHOO_HISTORY_YEARS", 15),
	}
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
	if err != nil {
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
	if err != nil {
		slog.Warn("invalid integer, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}
