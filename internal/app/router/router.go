// Package router builds the gin engine and its routes.
package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	simhandler "stock_forecast/internal/feature/simulation/transport/handler"
	stockhandler "stock_forecast/internal/feature/stock/transport/handler"
	"stock_forecast/internal/platform/http/handler"
	"stock_forecast/internal/platform/http/middleware"
)

// Config holds router settings.
type Config struct {
	AllowOrigins []string // "*" allows every origin
}

// LoadConfig reads CORS_ALLOW_ORIGINS, a comma-separated list.
func LoadConfig() Config {
	cfg := Config{AllowOrigins: []string{"*"}}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowOrigins = origins
		}
	}
	return cfg
}

func corsConfig(cfg Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowOrigins
	return c
}

func NewRouter(cfg Config, health *handler.HealthHandler, stock *stockhandler.StockHandler,
	simulation *simhandler.SimulationHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), cors.New(corsConfig(cfg)))

	// 導通確認用
	for _, path := range []string{"/health", "/healthz"} {
		r.GET(path, health.Health)
		r.HEAD(path, health.Health)
		r.OPTIONS(path, health.Health)
	}

	// 銘柄データと推定分布
	r.GET("/stock/:ticker", stock.GetStock)

	// モンテカルロシミュレーション
	r.POST("/simulate", simulation.Simulate)
	r.POST("/simulate/csv", simulation.SimulateCSV)

	return r
}
