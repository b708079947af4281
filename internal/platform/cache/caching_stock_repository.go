// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_forecast/internal/feature/stock/domain/entity"
	"stock_forecast/internal/feature/stock/usecase"
)

// CachingStockRepository decorates a StockRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository.
type CachingStockRepository struct {
	inner     usecase.StockRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.StockRepository = (*CachingStockRepository)(nil)

// NewCachingStockRepository decorates a StockRepository with Redis caching.
// If ttl is 0, entries live until the next US market close. If namespace is
// empty, it uses "stock".
func NewCachingStockRepository(rdb *redis.Client, ttl time.Duration, inner usecase.StockRepository, namespace string) *CachingStockRepository {
	if ttl < 0 {
		ttl = 0
	}
	if namespace == "" {
		namespace = "stock"
	}
	return &CachingStockRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// FetchStock retrieves a stock snapshot, checking cache first then falling back to the provider.
func (c *CachingStockRepository) FetchStock(ctx context.Context, ticker string) (*entity.Stock, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchStock(ctx, ticker)
	}

	key := c.cacheKey(ticker)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Stock
		if err := json.Unmarshal(b, &out); err == nil {
			slog.Debug("stock cache hit", "ticker", ticker)
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to provider
	out, err := c.inner.FetchStock(ctx, ticker)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttlFor(c.now())).Err(); err != nil {
			slog.Warn("failed to cache stock", "ticker", ticker, "error", err)
		}
	}

	return out, nil
}

// Invalidate removes the cached snapshot for ticker.
func (c *CachingStockRepository) Invalidate(ctx context.Context, ticker string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(ticker)).Err()
}

func (c *CachingStockRepository) ttlFor(now time.Time) time.Duration {
	if c.ttl > 0 {
		return c.ttl
	}
	return TimeUntilNextMarketClose(now)
}

// cacheKey generates a cache key for a ticker.
func (c *CachingStockRepository) cacheKey(ticker string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(ticker))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
