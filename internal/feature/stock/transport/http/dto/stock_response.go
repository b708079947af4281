// Package dto defines data transfer objects for the stock feature's HTTP transport layer.
package dto

import (
	"time"

	simentity "stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/feature/stock/domain/entity"
)

// PricePointResponse は月次終値のレスポンスDTOです。
type PricePointResponse struct {
	Time  string  `json:"time"`  // 日付 (YYYY-MM-DD)
	Close float64 `json:"close"` // 終値
}

// StockResponse is the body of GET /stock/:ticker.
type StockResponse struct {
	Ticker             string                       `json:"ticker"`
	Name               string                       `json:"name"`
	Currency           string                       `json:"currency"`
	Price              float64                      `json:"price"`
	EPS                float64                      `json:"eps"`
	PE                 float64                      `json:"pe"`
	EPSSource          string                       `json:"epsSource"`
	EPSHistory         []simentity.EPSEntry         `json:"epsHistory"`
	PEHistory          []float64                    `json:"peHistory"`
	PriceHistory       []PricePointResponse         `json:"priceHistory"`
	GrowthDistribution simentity.GrowthDistribution `json:"growthDistribution"`
	PEDistribution     simentity.PEDistribution     `json:"peDistribution"`
	SuggestedParams    simentity.Params             `json:"suggestedParams"`
	Warnings           []string                     `json:"warnings"`
	FetchedAt          time.Time                    `json:"fetchedAt"`
}

// NewStockResponse builds the response. Nil slices are rendered as [].
func NewStockResponse(a *entity.Analysis, suggested simentity.Params) StockResponse {
	s := a.Stock
	prices := make([]PricePointResponse, 0, len(s.PriceHistory))
	for _, p := range s.PriceHistory {
		prices = append(prices, PricePointResponse{Time: p.Time.UTC().Format("2006-01-02"), Close: p.Close})
	}
	return StockResponse{
		Ticker:             s.Ticker,
		Name:               s.Name,
		Currency:           s.Currency,
		Price:              s.Price,
		EPS:                s.EPS,
		PE:                 s.PE,
		EPSSource:          s.EPSSource,
		EPSHistory:         orEmpty(s.EPSHistory),
		PEHistory:          orEmpty(s.PEHistory),
		PriceHistory:       prices,
		GrowthDistribution: a.Growth,
		PEDistribution:     a.PE,
		SuggestedParams:    suggested,
		Warnings:           orEmpty(s.Warnings),
		FetchedAt:          s.FetchedAt,
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
