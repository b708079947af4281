package entity

import "github.com/guregu/null/v6"

// GrowthDistribution describes the fitted annual EPS growth distribution.
type GrowthDistribution struct {
	MeanGrowth  float64     `json:"meanGrowth"`
	SigmaGrowth float64     `json:"sigmaGrowth"`
	GrowthRates []float64   `json:"growthRates"` // Year-over-year rates that fed the fit
	DataPoints  int         `json:"dataPoints"`
	Warning     null.String `json:"warning"` // Set when defaults or the sigma floor were applied
}

// PEDistribution describes the fitted terminal P/E distribution.
type PEDistribution struct {
	MeanPE     float64     `json:"meanPE"`
	SigmaPE    float64     `json:"sigmaPE"`
	PEValues   []float64   `json:"peValues"` // Values inside (0, 200) that fed the fit
	DataPoints int         `json:"dataPoints"`
	Warning    null.String `json:"warning"`
}
