// Package http builds the outbound HTTP client used by market data adapters.
package http

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig tunes the outbound client.
type ClientConfig struct {
	Timeout   time.Duration // Whole-request timeout
	UserAgent string        // Sent on requests that do not set one
}

// NewHTTPClient creates an HTTP client for external API calls.
//
// Settings:
//   - Proxy: honours HTTP_PROXY and friends
//   - Dialer.Timeout: shorter than the default TCP connect timeout
//   - MaxIdleConns / IdleConnTimeout: keep-alive pool sizing
//   - TLSHandshakeTimeout: upper bound on the HTTPS handshake
//   - Client.Timeout: cfg.Timeout
//
// Quote providers reject Go's default User-Agent, so cfg.UserAgent is
// applied to every request that lacks one.
func NewHTTPClient(cfg ClientConfig) *http.Client {
	var t http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	if cfg.UserAgent != "" {
		t = &userAgentTransport{base: t, userAgent: cfg.UserAgent}
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: t}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
