// Package function exposes the HTTP API as a single http.HandlerFunc for
// serverless platforms.
package function

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"stock_forecast/internal/app/di"
	"stock_forecast/internal/platform/logging"
)

var (
	once   sync.Once
	engine *gin.Engine
)

// Handler serves every route. The router is built on the first call, without
// Redis, since function instances are short-lived.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		if _, err := logging.Init(logging.LoadConfig()); err != nil {
			slog.Warn("logging setup failed, using defaults", "error", err)
		}
		gin.SetMode(gin.ReleaseMode)
		engine = di.NewRouter(nil)
	})
	engine.ServeHTTP(w, r)
}
