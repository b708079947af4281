package api

import (
	"context"
	"errors"
	"net/http"

	simdomain "stock_forecast/internal/feature/simulation/domain"
	stockdomain "stock_forecast/internal/feature/stock/domain"
)

// StatusFor maps a usecase error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, simdomain.ErrInvalidParameters),
		errors.Is(err, simdomain.ErrMissingMarketData),
		errors.Is(err, stockdomain.ErrTickerRequired),
		errors.Is(err, stockdomain.ErrInvalidTicker):
		return http.StatusBadRequest
	case errors.Is(err, stockdomain.ErrStockNotFound):
		return http.StatusNotFound
	case errors.Is(err, stockdomain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the body for err. Internal errors are not exposed.
func NewErrorResponse(status int, err error) ErrorResponse {
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusGatewayTimeout {
		return ErrorResponse{Error: "internal server error"}
	}
	return ErrorResponse{Error: err.Error()}
}
