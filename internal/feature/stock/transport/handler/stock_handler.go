// Package handler はstockフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_forecast/internal/api"
	"stock_forecast/internal/feature/stock/domain/entity"
	"stock_forecast/internal/feature/stock/transport/http/dto"
)

// StockUsecase は銘柄データ取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	GetStock(ctx context.Context, ticker string) (*entity.Analysis, error)
}

// SuggestDefaults are the run settings used to build suggestedParams.
type SuggestDefaults struct {
	Years          int
	NumSimulations int
	FDRate         float64
}

// StockHandler は銘柄データのHTTPリクエストを処理します。
type StockHandler struct {
	uc       StockUsecase
	defaults SuggestDefaults
}

// NewStockHandler creates a StockHandler.
func NewStockHandler(uc StockUsecase, defaults SuggestDefaults) *StockHandler {
	return &StockHandler{uc: uc, defaults: defaults}
}

// GetStock は銘柄の市場データ、推定分布、推奨パラメータをJSONで返します。
//
// エンドポイント例:
// GET /stock/AAPL
func (h *StockHandler) GetStock(c *gin.Context) {
	ticker := c.Param("ticker")

	a, err := h.uc.GetStock(c.Request.Context(), ticker)
	if err != nil {
		status := api.StatusFor(err)
		slog.Warn("get stock failed", "ticker", ticker, "status", status, "error", err)
		c.JSON(status, api.NewErrorResponse(status, err))
		return
	}

	suggested := a.SuggestedParams(h.defaults.Years, h.defaults.NumSimulations, h.defaults.FDRate)
	c.JSON(http.StatusOK, dto.NewStockResponse(a, suggested))
}
