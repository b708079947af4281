// Package dto defines data transfer objects for the simulation feature's HTTP transport layer.
package dto

import (
	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/feature/simulation/usecase"
)

// SimulateRequest is the body of POST /simulate and POST /simulate/csv.
// Every field is optional; omitted values come from the ticker's market data
// or the built-in defaults.
type SimulateRequest struct {
	Ticker         string   `json:"ticker" binding:"omitempty,max=16"`
	Price0         *float64 `json:"price0" binding:"omitempty,gt=0"`
	EPS0           *float64 `json:"eps0"`
	PE0            *float64 `json:"pe0"`
	Years          *int     `json:"years" binding:"omitempty,min=1,max=50"`
	NumSimulations *int     `json:"numSimulations" binding:"omitempty,min=1"`
	FDRate         *float64 `json:"fdRate"`
	MeanGrowth     *float64 `json:"meanGrowth"`
	SigmaGrowth    *float64 `json:"sigmaGrowth" binding:"omitempty,min=0"`
	MeanPE         *float64 `json:"meanPE"`
	SigmaPE        *float64 `json:"sigmaPE" binding:"omitempty,min=0"`
	GrowthMin      *float64 `json:"growthMin"`
	GrowthMax      *float64 `json:"growthMax"`
	PEMin          *float64 `json:"peMin"`
	PEMax          *float64 `json:"peMax"`
	Seed           *uint64  `json:"seed"`
}

// ToUsecase converts the body to a usecase request.
func (r SimulateRequest) ToUsecase() usecase.Request {
	return usecase.Request{
		Ticker:         r.Ticker,
		Price0:         r.Price0,
		EPS0:           r.EPS0,
		PE0:            r.PE0,
		Years:          r.Years,
		NumSimulations: r.NumSimulations,
		FDRate:         r.FDRate,
		MeanGrowth:     r.MeanGrowth,
		SigmaGrowth:    r.SigmaGrowth,
		MeanPE:         r.MeanPE,
		SigmaPE:        r.SigmaPE,
		GrowthMin:      r.GrowthMin,
		GrowthMax:      r.GrowthMax,
		PEMin:          r.PEMin,
		PEMax:          r.PEMax,
		Seed:           r.Seed,
	}
}

// SimulateResponse is the simulation result with run metadata.
type SimulateResponse struct {
	RunID    string   `json:"runId"`
	Ticker   string   `json:"ticker,omitempty"`
	Warnings []string `json:"warnings"`
	*entity.Result
}

// NewSimulateResponse builds the response for a finished run.
func NewSimulateResponse(out *usecase.Outcome) SimulateResponse {
	warnings := out.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return SimulateResponse{
		RunID:    out.RunID.String(),
		Ticker:   out.Ticker,
		Warnings: warnings,
		Result:   out.Result,
	}
}
