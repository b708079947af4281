package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"stock_forecast/internal/feature/stock/domain"
	"stock_forecast/internal/platform/session"
)

// CrumbStore caches the crumb between requests.
type CrumbStore interface {
	Load(ctx context.Context) (*session.Crumb, error)
	Save(ctx context.Context, c *session.Crumb) error
	Invalidate(ctx context.Context) error
}

// crumb returns a cached crumb, or performs the cookie and crumb handshake
// when none is cached or refresh is set.
func (y *YahooMarket) crumb(ctx context.Context, refresh bool) (*session.Crumb, error) {
	if refresh {
		if err := y.sessions.Invalidate(ctx); err != nil {
			slog.Warn("failed to invalidate crumb", "error", err)
		}
	} else {
		c, err := y.sessions.Load(ctx)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			slog.Warn("crumb cache unavailable", "error", err)
		}
	}

	c, err := y.handshake(ctx)
	if err != nil {
		return nil, err
	}
	if err := y.sessions.Save(ctx, c); err != nil {
		slog.Warn("failed to cache crumb", "error", err)
	}
	return c, nil
}

// handshake collects the session cookies and exchanges them for a crumb.
func (y *YahooMarket) handshake(ctx context.Context) (*session.Crumb, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.cfg.CookieURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: cookie request: %v", domain.ErrUpstream, err)
	}
	// The cookie page answers 404 but still sets the cookie.
	_, _ = io.Copy(io.Discard, res.Body)
	closeBody(res)

	cookies := make([]session.Cookie, 0, len(res.Cookies()))
	for _, c := range res.Cookies() {
		cookies = append(cookies, session.Cookie{Name: c.Name, Value: c.Value})
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, y.cfg.BaseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return nil, err
	}
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	res, err = y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: crumb request: %v", domain.ErrUpstream, err)
	}
	defer closeBody(res)

	body, err := io.ReadAll(io.LimitReader(res.Body, 1024))
	if err != nil {
		return nil, fmt.Errorf("%w: read crumb: %v", domain.ErrUpstream, err)
	}
	value := strings.TrimSpace(string(body))
	if res.StatusCode != http.StatusOK || value == "" {
		return nil, fmt.Errorf("%w: crumb http %d", domain.ErrUpstream, res.StatusCode)
	}

	slog.Debug("yahoo crumb obtained", "cookies", len(cookies))
	return &session.Crumb{
		Value:     value,
		Cookies:   cookies,
		ExpiresAt: y.now().Add(y.cfg.SessionTTL),
	}, nil
}

func closeBody(res *http.Response) {
	if err := res.Body.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err)
	}
}
