// Package domain defines domain-level errors for the stock feature.
package domain

import "errors"

var (
	// ErrTickerRequired is returned when no ticker symbol was supplied.
	ErrTickerRequired = errors.New("ticker is required")

	// ErrInvalidTicker is returned for symbols with characters no exchange uses.
	ErrInvalidTicker = errors.New("invalid ticker symbol")

	// ErrStockNotFound indicates the data provider does not know the ticker.
	ErrStockNotFound = errors.New("stock not found")

	// ErrUpstream wraps failures of an external market data provider.
	ErrUpstream = errors.New("market data provider error")
)
