// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock_forecast/internal/api"
)

// CachePinger reports whether the cache backend is reachable.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler は /health と /healthz を処理します。
// キャッシュが落ちていてもサービスは応答できるため、statusは常に "ok" です。
type HealthHandler struct {
	cache CachePinger
}

// NewHealthHandler creates a HealthHandler. cache may be nil.
func NewHealthHandler(cache CachePinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, api.StatusResponse{Status: "ok", Cache: h.cacheState(c.Request.Context())})
	}
}

func (h *HealthHandler) cacheState(ctx context.Context) string {
	if h.cache == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := h.cache.Ping(ctx); err != nil {
		slog.Warn("health: cache unreachable", "error", err)
		return "down"
	}
	return "up"
}
