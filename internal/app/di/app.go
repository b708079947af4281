package di

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"stock_forecast/internal/app/router"
	simhandler "stock_forecast/internal/feature/simulation/transport/handler"
	simusecase "stock_forecast/internal/feature/simulation/usecase"
	stockhandler "stock_forecast/internal/feature/stock/transport/handler"
	"stock_forecast/internal/platform/http/handler"
	platformredis "stock_forecast/internal/platform/redis"
)

// NewRouter wires every feature into a gin engine. rdb may be nil, in which
// case the service runs without a cache.
func NewRouter(rdb *redis.Client) *gin.Engine {
	simCfg := simusecase.LoadConfig()

	stocks := NewStockUsecase(rdb)
	simulations := NewSimulationUsecase(stocks, simCfg)

	var pinger handler.CachePinger
	if rdb != nil {
		pinger = platformredis.Pinger{Client: rdb}
	}

	return router.NewRouter(router.LoadConfig(),
		handler.NewHealthHandler(pinger),
		stockhandler.NewStockHandler(stocks, stockhandler.SuggestDefaults{
			Years:          simCfg.DefaultYears,
			NumSimulations: simCfg.DefaultSimulations,
			FDRate:         simCfg.DefaultFDRate,
		}),
		simhandler.NewSimulationHandler(simulations),
	)
}
