// Package entity defines the domain models for the simulation feature.
package entity

// EPSEntry is one reported (or estimated) annual earnings-per-share figure.
type EPSEntry struct {
	Date string  `json:"date"` // Period end date, YYYY-MM-DD
	EPS  float64 `json:"eps"`  // Earnings per share for the period
	Year int     `json:"year"` // Fiscal year
}
