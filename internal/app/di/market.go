// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"stock_forecast/internal/feature/stock/usecase"
	"stock_forecast/internal/platform/externalapi/macrotrends"
	"stock_forecast/internal/platform/externalapi/yahoo"
	infrahttp "stock_forecast/internal/platform/http"
	"stock_forecast/internal/platform/session"
	"stock_forecast/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured YahooMarket with HTTP client, crumb store and rate limiter.
func NewMarket(rdb *redis.Client) *yahoo.YahooMarket {
	cfg := yahoo.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(infrahttp.ClientConfig{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent})
	limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
	return yahoo.NewYahooMarket(cfg, httpClient, NewCrumbStore(rdb), limiter)
}

// NewCrumbStore creates a CrumbStore implementation.
// If Redis is available, it returns a Redis-backed implementation so the
// crumb is shared between instances. Otherwise, it falls back to memory.
func NewCrumbStore(rdb *redis.Client) yahoo.CrumbStore {
	if rdb != nil {
		return session.NewRedisStore(rdb, "session")
	}
	return session.NewMemoryStore()
}

// NewHistorySource creates the Macrotrends scraper, or returns nil when it is disabled.
func NewHistorySource() usecase.HistoryRepository {
	cfg := macrotrends.LoadConfig()
	if !cfg.Enabled {
		return nil
	}
	httpClient := infrahttp.NewHTTPClient(infrahttp.ClientConfig{Timeout: cfg.Timeout, UserAgent: yahoo.LoadConfig().UserAgent})
	return macrotrends.NewScraper(cfg, httpClient, ratelimiter.NewRateLimiter(30, time.Minute))
}
