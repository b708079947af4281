// Package domain defines domain-level errors for the simulation feature.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters indicates simulation parameters that would make the
	// engine produce non-finite or meaningless output.
	ErrInvalidParameters = errors.New("invalid simulation parameters")

	// ErrMissingMarketData is returned when a run has neither a ticker nor an
	// explicit price0 and eps0.
	ErrMissingMarketData = errors.New("ticker or price0 and eps0 are required")

	// ErrInvalidBinCount is returned when a histogram is requested with fewer than one bin.
	ErrInvalidBinCount = errors.New("histogram bin count must be positive")
)

// InvalidParametersError names the offending field. It matches
// ErrInvalidParameters with errors.Is.
type InvalidParametersError struct {
	Field  string
	Reason string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidParameters, e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidParameters.
func (e *InvalidParametersError) Is(target error) bool {
	return target == ErrInvalidParameters
}

// NewInvalidParameters builds an InvalidParametersError.
func NewInvalidParameters(field, reason string) error {
	return &InvalidParametersError{Field: field, Reason: reason}
}
