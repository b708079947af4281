// Package engine runs the Monte Carlo price simulation and reduces the trial
// set to summary statistics, scenarios, sensitivity and histograms.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/shared/sampler"
)

const (
	// DefaultBatchSize is the number of trials drawn from one random stream.
	DefaultBatchSize = 2_500
	// maxDefaultWorkers caps the worker count when none is configured.
	maxDefaultWorkers = 8
)

// Engine runs simulations. The zero value is not usable; call New.
// An Engine is safe for concurrent use.
type Engine struct {
	workers   int
	batchSize int
	seed      uint64
	seeded    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes every run draw from streams derived from seed, so repeated
// runs with equal params return identical results.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithWorkers sets the number of goroutines drawing trials.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithBatchSize sets how many consecutive trials share one random stream.
// Changing it changes seeded output.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		workers:   min(runtime.GOMAXPROCS(0), maxDefaultWorkers),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// batch is a half-open range of trial indices.
type batch struct {
	start, end int
}

func splitBatches(n, size int) []batch {
	batches := make([]batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		batches = append(batches, batch{start: start, end: min(start+size, n)})
	}
	return batches
}

// Run validates p, draws p.NumSimulations trials and aggregates them.
// It uses the engine seed when one is configured and a fresh one otherwise.
func (e *Engine) Run(ctx context.Context, p entity.Params) (*entity.Result, error) {
	seed := e.seed
	if !e.seeded {
		seed = rand.Uint64()
	}
	return e.RunSeeded(ctx, p, seed)
}

// RunSeeded is Run with an explicit seed. Batch j draws from PCG stream
// (seed, j+1) and writes its trials in place, so the trial order does not
// depend on scheduling.
func (e *Engine) RunSeeded(ctx context.Context, p entity.Params, seed uint64) (*entity.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	fdTarget := p.Price0 * math.Pow(1+p.FDRate, float64(p.Years))
	trials := make([]entity.Trial, p.NumSimulations)
	batches := splitBatches(p.NumSimulations, e.batchSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for j, b := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := sampler.NewSeeded(seed, uint64(j)+1)
			for i := b.start; i < b.end; i++ {
				trials[i] = drawTrial(s, p, fdTarget)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation cancelled: %w", err)
	}

	result, err := aggregate(trials, p, fdTarget)
	if err != nil {
		return nil, err
	}
	result.Seed = seed

	slog.Debug("simulation finished",
		"trials", p.NumSimulations,
		"batches", len(batches),
		"workers", e.workers,
		"elapsed", time.Since(started),
	)
	return result, nil
}

func drawTrial(s *sampler.Sampler, p entity.Params, fdTarget float64) entity.Trial {
	g := s.TruncatedNormal(p.MeanGrowth, p.SigmaGrowth, p.GrowthMin, p.GrowthMax)
	peT := s.TruncatedNormal(p.MeanPE, p.SigmaPE, p.PEMin, p.PEMax)
	epsT := p.EPS0 * math.Pow(1+g, float64(p.Years))
	priceT := epsT * peT
	return entity.Trial{
		G:       g,
		PET:     peT,
		EPST:    epsT,
		PriceT:  priceT,
		CAGR:    cagr(priceT, p.Price0, p.Years),
		BeatsFD: priceT > fdTarget,
		IsLoss:  priceT < p.Price0,
	}
}

func cagr(priceT, price0 float64, years int) float64 {
	return math.Pow(priceT/price0, 1/float64(years)) - 1
}

func aggregate(trials []entity.Trial, p entity.Params, fdTarget float64) (*entity.Result, error) {
	s := columns(trials)

	summary, err := summarize(s, trials, p, fdTarget)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	scenarios, err := BuildScenarios(s.growth, s.pe, p)
	if err != nil {
		return nil, fmt.Errorf("scenarios: %w", err)
	}
	sensitivity, err := AnalyzeSensitivity(s.growth, s.pe, p)
	if err != nil {
		return nil, fmt.Errorf("sensitivity: %w", err)
	}
	distributions, err := buildDistributions(s)
	if err != nil {
		return nil, fmt.Errorf("distributions: %w", err)
	}

	return &entity.Result{
		Summary:        summary,
		Scenarios:      scenarios,
		Sensitivity:    sensitivity,
		Distributions:  distributions,
		InputParams:    p,
		SampledResults: SampleTrials(trials, MaxSampledTrials),
		Trials:         trials,
	}, nil
}

// series holds the trial fields as parallel columns.
type series struct {
	growth, pe, price, cagr []float64
}

func columns(trials []entity.Trial) series {
	s := series{
		growth: make([]float64, len(trials)),
		pe:     make([]float64, len(trials)),
		price:  make([]float64, len(trials)),
		cagr:   make([]float64, len(trials)),
	}
	for i, t := range trials {
		s.growth[i] = t.G
		s.pe[i] = t.PET
		s.price[i] = t.PriceT
		s.cagr[i] = t.CAGR
	}
	return s
}
