package macrotrends

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	simentity "stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/feature/stock/domain"
	"stock_forecast/internal/feature/stock/domain/entity"
	"stock_forecast/internal/feature/stock/usecase"
	"stock_forecast/internal/shared/ratelimiter"
)

// Scraper reads the P/E ratio history table. Rows are
// Date | Stock Price | TTM Net EPS | PE Ratio, newest first.
type Scraper struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

var _ usecase.HistoryRepository = (*Scraper)(nil)

// NewScraper creates a Scraper.
func NewScraper(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Scraper {
	return &Scraper{cfg: cfg, client: client, limiter: limiter}
}

type row struct {
	date time.Time
	eps  float64
	pe   float64
}

// FetchHistory returns P/E values in chronological order and one TTM EPS
// entry per calendar year, taken from that year's latest row.
func (s *Scraper) FetchHistory(ctx context.Context, ticker string) (*entity.History, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/stocks/charts/%s/x/pe-ratio", s.cfg.BaseURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: macrotrends: %v", domain.ErrUpstream, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: macrotrends has no page for %s", domain.ErrStockNotFound, ticker)
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: macrotrends http %d", domain.ErrUpstream, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse macrotrends page: %v", domain.ErrUpstream, err)
	}

	rows := parseTable(doc)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no P/E table for %s", domain.ErrStockNotFound, ticker)
	}
	slices.SortStableFunc(rows, func(a, b row) int { return a.date.Compare(b.date) })

	h := &entity.History{PE: make([]float64, 0, len(rows))}
	for _, r := range rows {
		h.PE = append(h.PE, r.pe)
		entry := simentity.EPSEntry{Date: r.date.Format(time.DateOnly), EPS: r.eps, Year: r.date.Year()}
		if n := len(h.EPS); n > 0 && h.EPS[n-1].Year == entry.Year {
			h.EPS[n-1] = entry
			continue
		}
		h.EPS = append(h.EPS, entry)
	}

	slog.Debug("macrotrends history parsed", "ticker", ticker, "rows", len(rows), "years", len(h.EPS))
	return h, nil
}

// parseTable finds the first table whose header mentions "PE Ratio" and
// returns its parseable data rows.
func parseTable(doc *goquery.Document) []row {
	var rows []row
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if !strings.Contains(table.Find("th").Text(), "PE Ratio") {
			return true
		}
		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() < 4 {
				return
			}
			date, err := time.Parse(time.DateOnly, strings.TrimSpace(cells.Eq(0).Text()))
			if err != nil {
				return
			}
			eps, epsOK := parseNumber(cells.Eq(2).Text())
			pe, peOK := parseNumber(cells.Eq(3).Text())
			if !epsOK || !peOK {
				return
			}
			rows = append(rows, row{date: date, eps: eps, pe: pe})
		})
		return false
	})
	return rows
}

// parseNumber accepts "$6.43", "1,234.5" and "-0.12".
func parseNumber(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
