package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	simentity "stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/feature/stock/domain"
	"stock_forecast/internal/feature/stock/domain/entity"
	"stock_forecast/internal/feature/stock/usecase"
	"stock_forecast/internal/platform/externalapi/yahoo/dto"
	"stock_forecast/internal/platform/session"
	"stock_forecast/internal/shared/ratelimiter"
)

const (
	typeAnnualEPS  = "annualDilutedEPS"
	typeTrailingPE = "trailingPeRatio"
)

// errUnauthorized marks a rejected crumb; the caller refreshes and retries once.
var errUnauthorized = errors.New("yahoo: crumb rejected")

// YahooMarket is a StockRepository backed by Yahoo Finance.
type YahooMarket struct {
	cfg      Config
	client   *http.Client
	sessions CrumbStore
	limiter  ratelimiter.Limiter
	now      func() time.Time
}

// Compile-time check that YahooMarket implements StockRepository.
var _ usecase.StockRepository = (*YahooMarket)(nil)

// NewYahooMarket creates a YahooMarket.
func NewYahooMarket(cfg Config, client *http.Client, sessions CrumbStore, limiter ratelimiter.Limiter) *YahooMarket {
	return &YahooMarket{
		cfg:      cfg,
		client:   client,
		sessions: sessions,
		limiter:  limiter,
		now:      time.Now,
	}
}

// FetchStock loads the quote, fundamentals history and ten years of monthly
// closes. Only the quote is mandatory; history failures are logged.
func (y *YahooMarket) FetchStock(ctx context.Context, ticker string) (*entity.Stock, error) {
	crumb, err := y.crumb(ctx, false)
	if err != nil {
		return nil, err
	}

	quote, err := y.quote(ctx, ticker, crumb)
	if errors.Is(err, errUnauthorized) {
		slog.Info("yahoo crumb rejected, refreshing", "ticker", ticker)
		if crumb, err = y.crumb(ctx, true); err != nil {
			return nil, err
		}
		quote, err = y.quote(ctx, ticker, crumb)
	}
	if errors.Is(err, errUnauthorized) {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if err != nil {
		return nil, err
	}

	stock := &entity.Stock{
		Ticker:    ticker,
		Name:      quote.Price.LongName,
		Currency:  quote.Price.Currency,
		Price:     quote.Price.RegularMarketPrice.Float(),
		EPS:       quote.DefaultKeyStatistics.TrailingEps.Float(),
		PE:        quote.SummaryDetail.TrailingPE.Float(),
		EPSSource: entity.EPSSourceReported,
		FetchedAt: y.now().UTC(),
	}
	if stock.Name == "" {
		stock.Name = quote.Price.ShortName
	}

	eps, pe, err := y.fundamentals(ctx, ticker, crumb)
	if err != nil {
		slog.Warn("yahoo fundamentals unavailable", "ticker", ticker, "error", err)
	}
	stock.EPSHistory, stock.PEHistory = eps, pe

	prices, meta, err := y.chart(ctx, ticker, crumb)
	if err != nil {
		slog.Warn("yahoo price history unavailable", "ticker", ticker, "error", err)
	}
	stock.PriceHistory = prices

	if stock.Price <= 0 && meta != nil {
		stock.Price = meta.Meta.RegularMarketPrice
	}
	if stock.Price <= 0 {
		return nil, fmt.Errorf("%w: no price for %s", domain.ErrStockNotFound, ticker)
	}
	if stock.Currency == "" && meta != nil {
		stock.Currency = meta.Meta.Currency
	}
	if stock.PE <= 0 && stock.EPS > 0 {
		stock.PE = stock.Price / stock.EPS
	}
	return stock, nil
}

func (y *YahooMarket) quote(ctx context.Context, ticker string, crumb *session.Crumb) (*dto.QuoteSummaryResult, error) {
	q := url.Values{}
	q.Set("modules", "price,summaryDetail,defaultKeyStatistics")

	var body dto.QuoteSummaryResponse
	if err := y.getJSON(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), q, crumb, &body); err != nil {
		return nil, err
	}
	if e := body.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStockNotFound, e.Description)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrStockNotFound, ticker)
	}
	return &body.QuoteSummary.Result[0], nil
}

func (y *YahooMarket) fundamentals(ctx context.Context, ticker string, crumb *session.Crumb) ([]simentity.EPSEntry, []float64, error) {
	now := y.now()
	q := url.Values{}
	q.Set("type", typeAnnualEPS+","+typeTrailingPE)
	q.Set("period1", strconv.FormatInt(now.AddDate(-y.cfg.HistoryYears, 0, 0).Unix(), 10))
	q.Set("period2", strconv.FormatInt(now.Unix(), 10))

	var body dto.TimeseriesResponse
	if err := y.getJSON(ctx, "/ws/fundamentals-timeseries/v1/finance/timeseries/"+url.PathEscape(ticker), q, crumb, &body); err != nil {
		return nil, nil, err
	}
	if e := body.Timeseries.Error; e != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrUpstream, e.Description)
	}

	var (
		eps []simentity.EPSEntry
		pe  []float64
	)
	for _, raw := range body.Timeseries.Result {
		var meta dto.TimeseriesMeta
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}
		typ := meta.Meta.Type[0]

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, nil, fmt.Errorf("decode timeseries %s: %w", typ, err)
		}
		var points []*dto.TimeseriesPoint
		if data, ok := fields[typ]; ok {
			if err := json.Unmarshal(data, &points); err != nil {
				return nil, nil, fmt.Errorf("decode timeseries %s: %w", typ, err)
			}
		}

		for _, p := range points {
			if p == nil || p.ReportedValue.Raw == nil {
				continue
			}
			switch typ {
			case typeAnnualEPS:
				date, err := time.Parse("2006-01-02", p.AsOfDate)
				if err != nil {
					return nil, nil, fmt.Errorf("parse asOfDate %q: %w", p.AsOfDate, err)
				}
				eps = append(eps, simentity.EPSEntry{Date: p.AsOfDate, EPS: *p.ReportedValue.Raw, Year: date.Year()})
			case typeTrailingPE:
				pe = append(pe, *p.ReportedValue.Raw)
			}
		}
	}

	slices.SortStableFunc(eps, func(a, b simentity.EPSEntry) int { return a.Year - b.Year })
	return eps, pe, nil
}

func (y *YahooMarket) chart(ctx context.Context, ticker string, crumb *session.Crumb) ([]entity.PricePoint, *dto.ChartResult, error) {
	q := url.Values{}
	q.Set("range", "10y")
	q.Set("interval", "1mo")

	var body dto.ChartResponse
	if err := y.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), q, crumb, &body); err != nil {
		return nil, nil, err
	}
	if e := body.Chart.Error; e != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrUpstream, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, nil, nil
	}

	r := &body.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, r, nil
	}
	closes := r.Indicators.Quote[0].Close
	prices := make([]entity.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		prices = append(prices, entity.PricePoint{Time: time.Unix(ts, 0).UTC(), Close: *closes[i]})
	}
	return prices, r, nil
}

// getJSON performs an authorized GET and decodes the JSON body into out.
func (y *YahooMarket) getJSON(ctx context.Context, path string, q url.Values, crumb *session.Crumb, out any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	q.Set("crumb", crumb.Value)
	u := fmt.Sprintf("%s%s?%s", y.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for _, c := range crumb.Cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	res, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer closeBody(res)

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return errUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrStockNotFound, path)
	case res.StatusCode >= 400:
		return fmt.Errorf("%w: yahoo http %d", domain.ErrUpstream, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrUpstream, err)
	}
	return nil
}
