package di

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_forecast/internal/feature/simulation/engine"
	simhandler "stock_forecast/internal/feature/simulation/transport/handler"
	simusecase "stock_forecast/internal/feature/simulation/usecase"
	stockusecase "stock_forecast/internal/feature/stock/usecase"
	"stock_forecast/internal/platform/cache"
	"stock_forecast/internal/shared/ratelimiter"
)

// NewStockUsecase wires Yahoo behind the Redis cache with Macrotrends as the
// history fallback. rdb may be nil.
func NewStockUsecase(rdb *redis.Client) simusecase.StockProvider {
	cached := cache.NewCachingStockRepository(rdb, stockCacheTTL(), NewMarket(rdb), "stock")
	return stockusecase.NewStockUsecase(cached, NewHistorySource())
}

// NewWarmUsecase wires the cache warmer over the same cached repository the
// HTTP handlers read from. WARM_REQUESTS_PER_MINUTE caps the pace (default 20).
func NewWarmUsecase(rdb *redis.Client) *stockusecase.WarmUsecase {
	cached := cache.NewCachingStockRepository(rdb, stockCacheTTL(), NewMarket(rdb), "stock")
	return stockusecase.NewWarmUsecase(cached, cached, ratelimiter.NewRateLimiter(warmRequestsPerMinute(), time.Minute))
}

// NewSimulationUsecase wires the engine with the configured worker count.
func NewSimulationUsecase(stocks simusecase.StockProvider, cfg simusecase.Config) simhandler.SimulationUsecase {
	return simusecase.NewSimulationUsecase(stocks, engine.New(engine.WithWorkers(cfg.Workers)), cfg)
}

// stockCacheTTL reads STOCK_CACHE_TTL. 0 means until the next market close.
func stockCacheTTL() time.Duration {
	v := os.Getenv("STOCK_CACHE_TTL")
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid STOCK_CACHE_TTL, caching until market close", "value", v)
		return 0
	}
	return d
}

func warmRequestsPerMinute() int {
	v := os.Getenv("WARM_REQUESTS_PER_MINUTE")
	if v == "" {
		return 20
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid WARM_REQUESTS_PER_MINUTE, using 20", "value", v)
		return 20
	}
	return n
}
