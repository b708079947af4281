// Package usecase turns simulation requests into engine parameters, filling
// gaps from the ticker's market data and the distribution estimators.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"stock_forecast/internal/feature/simulation/domain"
	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/feature/simulation/estimator"
	stockentity "stock_forecast/internal/feature/stock/domain/entity"
)

// StockProvider loads a ticker's market data with fitted distributions.
// Following Go convention, interfaces are defined by the consumer.
type StockProvider interface {
	GetStock(ctx context.Context, ticker string) (*stockentity.Analysis, error)
}

// SimulationEngine runs validated parameters.
type SimulationEngine interface {
	Run(ctx context.Context, p entity.Params) (*entity.Result, error)
	RunSeeded(ctx context.Context, p entity.Params, seed uint64) (*entity.Result, error)
}

// Request is a simulation request. Nil fields take defaults.
type Request struct {
	Ticker         string
	Price0         *float64
	EPS0           *float64
	PE0            *float64
	Years          *int
	NumSimulations *int
	FDRate         *float64
	MeanGrowth     *float64
	SigmaGrowth    *float64
	MeanPE         *float64
	SigmaPE        *float64
	GrowthMin      *float64
	GrowthMax      *float64
	PEMin          *float64
	PEMax          *float64
	Seed           *uint64
}

// Outcome is a finished run.
type Outcome struct {
	RunID    uuid.UUID
	Ticker   string // Empty for custom inputs
	Result   *entity.Result
	Warnings []string
}

type simulationUsecase struct {
	stocks StockProvider
	engine SimulationEngine
	cfg    Config
}

// NewSimulationUsecase creates a simulation usecase.
func NewSimulationUsecase(stocks StockProvider, engine SimulationEngine, cfg Config) *simulationUsecase {
	return &simulationUsecase{stocks: stocks, engine: engine, cfg: cfg}
}

// Simulate resolves the request into parameters and runs the engine.
func (u *simulationUsecase) Simulate(ctx context.Context, req Request) (*Outcome, error) {
	years := u.cfg.DefaultYears
	if req.Years != nil {
		years = *req.Years
	}
	if years < 1 || years > u.cfg.MaxYears {
		return nil, domain.NewInvalidParameters("years", fmt.Sprintf("must be between 1 and %d", u.cfg.MaxYears))
	}

	var warnings []string
	n := u.cfg.DefaultSimulations
	if req.NumSimulations != nil {
		n = *req.NumSimulations
	}
	if n > u.cfg.MaxSimulations {
		warnings = append(warnings, fmt.Sprintf("numSimulations %d capped at %d", n, u.cfg.MaxSimulations))
		n = u.cfg.MaxSimulations
	}

	fdRate := u.cfg.DefaultFDRate
	if req.FDRate != nil {
		fdRate = *req.FDRate
	}

	var (
		p      entity.Params
		ticker string
	)
	if req.Ticker != "" {
		analysis, err := u.stocks.GetStock(ctx, req.Ticker)
		if err != nil {
			return nil, err
		}
		ticker = analysis.Stock.Ticker
		p = analysis.SuggestedParams(years, n, fdRate)
		warnings = append(warnings, analysis.Stock.Warnings...)
		warnings = appendWarning(warnings, analysis.Growth.Warning.String, req.MeanGrowth == nil || req.SigmaGrowth == nil)
		warnings = appendWarning(warnings, analysis.PE.Warning.String, req.MeanPE == nil || req.SigmaPE == nil)
	} else {
		if req.Price0 == nil || req.EPS0 == nil {
			return nil, domain.ErrMissingMarketData
		}
		growth := estimator.EPSGrowth(nil)
		pe := estimator.PE(nil)
		p = entity.Params{
			Years:          years,
			NumSimulations: n,
			FDRate:         fdRate,
			MeanGrowth:     growth.MeanGrowth,
			SigmaGrowth:    growth.SigmaGrowth,
			MeanPE:         pe.MeanPE,
			SigmaPE:        pe.SigmaPE,
		}.WithDefaultBounds()
		warnings = appendWarning(warnings, growth.Warning.String, req.MeanGrowth == nil || req.SigmaGrowth == nil)
		warnings = appendWarning(warnings, pe.Warning.String, req.MeanPE == nil || req.SigmaPE == nil)
	}

	override(&p.Price0, req.Price0)
	override(&p.EPS0, req.EPS0)
	override(&p.PE0, req.PE0)
	override(&p.MeanGrowth, req.MeanGrowth)
	override(&p.SigmaGrowth, req.SigmaGrowth)
	override(&p.MeanPE, req.MeanPE)
	override(&p.SigmaPE, req.SigmaPE)
	override(&p.GrowthMin, req.GrowthMin)
	override(&p.GrowthMax, req.GrowthMax)
	override(&p.PEMin, req.PEMin)
	override(&p.PEMax, req.PEMax)
	if req.PE0 == nil && ticker == "" && p.EPS0 > 0 {
		p.PE0 = p.Price0 / p.EPS0
	}

	var (
		result *entity.Result
		err    error
	)
	if req.Seed != nil {
		result, err = u.engine.RunSeeded(ctx, p, *req.Seed)
	} else {
		result, err = u.engine.Run(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		RunID:    uuid.New(),
		Ticker:   ticker,
		Result:   result,
		Warnings: warnings,
	}
	slog.Info("simulation completed",
		"run_id", out.RunID,
		"ticker", ticker,
		"trials", p.NumSimulations,
		"years", p.Years,
		"median_price", result.Summary.Price.P50,
	)
	return out, nil
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func appendWarning(warnings []string, w string, used bool) []string {
	if w == "" || !used {
		return warnings
	}
	return append(warnings, w)
}
