// Package entity defines the domain models for the stock feature.
package entity

import (
	"time"

	simentity "stock_forecast/internal/feature/simulation/domain/entity"
)

// EPS history provenance.
const (
	EPSSourceReported  = "reported"
	EPSSourceEstimated = "estimated"
)

// PricePoint is one closing price observation.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// Stock is a snapshot of the market data the simulation is fitted on.
type Stock struct {
	Ticker       string               `json:"ticker"`
	Name         string               `json:"name"`
	Currency     string               `json:"currency"`
	Price        float64              `json:"price"` // Latest regular market price
	EPS          float64              `json:"eps"`   // Trailing twelve month EPS
	PE           float64              `json:"pe"`    // Trailing P/E, 0 when unavailable
	EPSHistory   []simentity.EPSEntry `json:"epsHistory"`
	PEHistory    []float64            `json:"peHistory"`
	PriceHistory []PricePoint         `json:"priceHistory"` // Monthly closes, ascending
	EPSSource    string               `json:"epsSource"`
	Warnings     []string             `json:"warnings"`
	FetchedAt    time.Time            `json:"fetchedAt"`
}

// History is supplementary EPS and P/E history from a secondary source.
type History struct {
	EPS []simentity.EPSEntry
	PE  []float64
}

// Analysis is a Stock together with the distributions fitted on it.
type Analysis struct {
	Stock  *Stock
	Growth simentity.GrowthDistribution
	PE     simentity.PEDistribution
}

// SuggestedParams builds simulation parameters from the fitted distributions.
func (a *Analysis) SuggestedParams(years, numSimulations int, fdRate float64) simentity.Params {
	pe0 := a.Stock.PE
	if pe0 <= 0 && a.Stock.EPS > 0 {
		pe0 = a.Stock.Price / a.Stock.EPS
	}
	return simentity.Params{
		Price0:         a.Stock.Price,
		EPS0:           a.Stock.EPS,
		PE0:            pe0,
		Years:          years,
		NumSimulations: numSimulations,
		FDRate:         fdRate,
		MeanGrowth:     a.Growth.MeanGrowth,
		SigmaGrowth:    a.Growth.SigmaGrowth,
		MeanPE:         a.PE.MeanPE,
		SigmaPE:        a.PE.SigmaPE,
	}.WithDefaultBounds()
}
