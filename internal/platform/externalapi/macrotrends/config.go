// Package macrotrends scrapes historical P/E and TTM EPS from macrotrends.net.
package macrotrends

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the Macrotrends scraper.
type Config struct {
	BaseURL string        // Site root, e.g. "https://www.macrotrends.net"
	Enabled bool          // When false the scraper is not wired
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads Macrotrends configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL: "https://www.macrotrends.net",
		Enabled: true,
		Timeout: 10 * time.Second,
	}
	if v := os.Getenv("MACROTRENDS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v, err := strconv.ParseBool(os.Getenv("MACROTRENDS_ENABLED")); err == nil {
		cfg.Enabled = v
	}
	return cfg
}
