// Package usecase implements stock data retrieval and the repair of short
// fundamental histories.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"stock_forecast/internal/feature/simulation/estimator"
	"stock_forecast/internal/feature/stock/domain"
	"stock_forecast/internal/feature/stock/domain/entity"
)

// StockRepository loads a stock snapshot from the primary market data source.
// Following Go convention, interfaces are defined by the consumer.
type StockRepository interface {
	FetchStock(ctx context.Context, ticker string) (*entity.Stock, error)
}

// HistoryRepository supplies EPS and P/E history from a secondary source.
type HistoryRepository interface {
	FetchHistory(ctx context.Context, ticker string) (*entity.History, error)
}

var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-^=]{0,14}$`)

// stockUsecase combines the primary and fallback sources.
type stockUsecase struct {
	primary  StockRepository
	fallback HistoryRepository
}

// NewStockUsecase creates a stock usecase. fallback may be nil.
func NewStockUsecase(primary StockRepository, fallback HistoryRepository) *stockUsecase {
	return &stockUsecase{primary: primary, fallback: fallback}
}

// NormalizeTicker upper-cases and validates a ticker symbol.
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", domain.ErrTickerRequired
	}
	if !tickerPattern.MatchString(t) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTicker, ticker)
	}
	return t, nil
}

// GetStock fetches the ticker's snapshot, fills short histories and fits the
// growth and P/E distributions.
func (u *stockUsecase) GetStock(ctx context.Context, ticker string) (*entity.Analysis, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	fetched, err := u.primary.FetchStock(ctx, t)
	if err != nil {
		return nil, err
	}
	// The primary result may be shared through a cache; work on a copy.
	stock := cloneStock(fetched)
	if stock.EPSSource == "" {
		stock.EPSSource = entity.EPSSourceReported
	}

	if u.fallback != nil && (len(stock.EPSHistory) < estimator.MinEPSEntries || len(stock.PEHistory) < estimator.MinPEValues) {
		u.mergeFallback(ctx, stock)
	}

	if len(stock.EPSHistory) < estimator.MinEPSEntries {
		if synthetic := SynthesizeEPSHistory(stock.EPS, stock.PriceHistory); len(synthetic) >= estimator.MinEPSEntries {
			stock.EPSHistory = synthetic
			stock.EPSSource = entity.EPSSourceEstimated
			stock.Warnings = append(stock.Warnings, SyntheticEPSWarning)
		}
	}

	if len(stock.PEHistory) < estimator.MinPEValues {
		if derived := DerivePEHistory(stock.EPSHistory, stock.PriceHistory); len(derived) > len(stock.PEHistory) {
			stock.PEHistory = derived
			stock.Warnings = append(stock.Warnings, DerivedPEWarning)
		}
	}
	stock.PEHistory = estimator.FilterPE(stock.PEHistory)

	return &entity.Analysis{
		Stock:  stock,
		Growth: estimator.EPSGrowth(stock.EPSHistory),
		PE:     estimator.PE(stock.PEHistory),
	}, nil
}

func (u *stockUsecase) mergeFallback(ctx context.Context, stock *entity.Stock) {
	h, err := u.fallback.FetchHistory(ctx, stock.Ticker)
	if err != nil {
		slog.Warn("fallback history unavailable", "ticker", stock.Ticker, "error", err)
		return
	}
	if len(stock.EPSHistory) < estimator.MinEPSEntries && len(h.EPS) > len(stock.EPSHistory) {
		stock.EPSHistory = h.EPS
	}
	if len(stock.PEHistory) < estimator.MinPEValues && len(h.PE) > len(stock.PEHistory) {
		stock.PEHistory = h.PE
	}
}

func cloneStock(s *entity.Stock) *entity.Stock {
	c := *s
	c.EPSHistory = slices.Clone(s.EPSHistory)
	c.PEHistory = slices.Clone(s.PEHistory)
	c.PriceHistory = slices.Clone(s.PriceHistory)
	c.Warnings = slices.Clone(s.Warnings)
	return &c
}
