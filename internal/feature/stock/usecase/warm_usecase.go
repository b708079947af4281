package usecase

import (
	"context"
	"log/slog"

	"stock_forecast/internal/shared/ratelimiter"
)

// CacheInvalidator drops a ticker's cached snapshot.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, ticker string) error
}

// WarmReport lists which tickers were loaded into the cache.
type WarmReport struct {
	Warmed []string          `json:"warmed"`
	Failed map[string]string `json:"failed"`
}

// WarmUsecase pre-loads stock snapshots through a caching repository so the
// first simulation of the day does not pay for the upstream round trips.
type WarmUsecase struct {
	stocks      StockRepository
	invalidator CacheInvalidator
	limiter     ratelimiter.Limiter
}

// NewWarmUsecase creates a WarmUsecase. invalidator may be nil, in which case
// refresh is a no-op.
func NewWarmUsecase(stocks StockRepository, invalidator CacheInvalidator, limiter ratelimiter.Limiter) *WarmUsecase {
	return &WarmUsecase{stocks: stocks, invalidator: invalidator, limiter: limiter}
}

// warmOne fetches a single ticker, dropping its cache entry first when refresh is set.
func (w *WarmUsecase) warmOne(ctx context.Context, ticker string, refresh bool) error {
	if refresh && w.invalidator != nil {
		if err := w.invalidator.Invalidate(ctx, ticker); err != nil {
			slog.Warn("cache invalidation failed", "ticker", ticker, "error", err)
		}
	}
	_, err := w.stocks.FetchStock(ctx, ticker)
	return err
}

// WarmAll fetches every ticker in order. A failing ticker is recorded and
// skipped; only cancellation stops the run early.
func (w *WarmUsecase) WarmAll(ctx context.Context, tickers []string, refresh bool) (*WarmReport, error) {
	report := &WarmReport{Warmed: []string{}, Failed: map[string]string{}}
	for _, raw := range tickers {
		t, err := NormalizeTicker(raw)
		if err != nil {
			report.Failed[raw] = err.Error()
			continue
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return report, err
			}
		}
		if err := w.warmOne(ctx, t, refresh); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			// 1銘柄の失敗で全体を止めず、ログに残して次へ進む
			slog.Error("failed to warm stock", "ticker", t, "error", err)
			report.Failed[t] = err.Error()
			continue
		}
		report.Warmed = append(report.Warmed, t)
	}
	slog.Info("stock cache warmed", "warmed", len(report.Warmed), "failed", len(report.Failed))
	return report, nil
}
