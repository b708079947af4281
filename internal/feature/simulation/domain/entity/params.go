package entity

import (
	"math"

	"stock_forecast/internal/feature/simulation/domain"
)

// Default sampling bounds.
const (
	DefaultGrowthMin = -0.20
	DefaultGrowthMax = 0.40
	DefaultPEMin     = 5.0
	DefaultPEMax     = 60.0
)

// Params is the complete input of one simulation run.
type Params struct {
	Price0         float64 `json:"price0"`         // Current share price
	EPS0           float64 `json:"eps0"`           // Current annual EPS
	PE0            float64 `json:"pe0"`            // Current P/E, informational
	Years          int     `json:"years"`          // Horizon in years
	NumSimulations int     `json:"numSimulations"` // Number of trials
	FDRate         float64 `json:"fdRate"`         // Fixed-deposit benchmark annual rate
	MeanGrowth     float64 `json:"meanGrowth"`
	SigmaGrowth    float64 `json:"sigmaGrowth"`
	MeanPE         float64 `json:"meanPE"`
	SigmaPE        float64 `json:"sigmaPE"`
	GrowthMin      float64 `json:"growthMin"`
	GrowthMax      float64 `json:"growthMax"`
	PEMin          float64 `json:"peMin"`
	PEMax          float64 `json:"peMax"`
}

// WithDefaultBounds returns p with the default growth and P/E bounds.
func (p Params) WithDefaultBounds() Params {
	p.GrowthMin = DefaultGrowthMin
	p.GrowthMax = DefaultGrowthMax
	p.PEMin = DefaultPEMin
	p.PEMax = DefaultPEMax
	return p
}

// Validate rejects inputs that would produce non-finite terminal values.
func (p Params) Validate() error {
	finite := []struct {
		field string
		value float64
	}{
		{"price0", p.Price0},
		{"eps0", p.EPS0},
		{"pe0", p.PE0},
		{"fdRate", p.FDRate},
		{"meanGrowth", p.MeanGrowth},
		{"sigmaGrowth", p.SigmaGrowth},
		{"meanPE", p.MeanPE},
		{"sigmaPE", p.SigmaPE},
		{"growthMin", p.GrowthMin},
		{"growthMax", p.GrowthMax},
		{"peMin", p.PEMin},
		{"peMax", p.PEMax},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return domain.NewInvalidParameters(f.field, "must be finite")
		}
	}

	switch {
	case p.Price0 <= 0:
		return domain.NewInvalidParameters("price0", "must be positive")
	case p.EPS0 <= 0:
		return domain.NewInvalidParameters("eps0", "must be positive for CAGR to be defined")
	case p.Years < 1:
		return domain.NewInvalidParameters("years", "must be at least 1")
	case p.NumSimulations < 1:
		return domain.NewInvalidParameters("numSimulations", "must be at least 1")
	case p.FDRate <= -1:
		return domain.NewInvalidParameters("fdRate", "must be greater than -1")
	case p.SigmaGrowth < 0:
		return domain.NewInvalidParameters("sigmaGrowth", "must not be negative")
	case p.SigmaPE < 0:
		return domain.NewInvalidParameters("sigmaPE", "must not be negative")
	case p.GrowthMin > p.GrowthMax:
		return domain.NewInvalidParameters("growthMin", "must not exceed growthMax")
	case p.GrowthMin <= -1:
		return domain.NewInvalidParameters("growthMin", "must be greater than -1")
	case p.PEMin > p.PEMax:
		return domain.NewInvalidParameters("peMin", "must not exceed peMax")
	case p.PEMin <= 0:
		return domain.NewInvalidParameters("peMin", "must be positive")
	}
	return nil
}
