package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_forecast/internal/feature/simulation/domain"
	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/feature/simulation/engine"
	"stock_forecast/internal/feature/simulation/estimator"
	"stock_forecast/internal/feature/simulation/usecase"
	stockdomain "stock_forecast/internal/feature/stock/domain"
	stockentity "stock_forecast/internal/feature/stock/domain/entity"
)

// mockStockProvider is a mock implementation of usecase.StockProvider.
type mockStockProvider struct {
	GetStockFunc  func(ctx context.Context, ticker string) (*stockentity.Analysis, error)
	GetStockCalls int
}

func (m *mockStockProvider) GetStock(ctx context.Context, ticker string) (*stockentity.Analysis, error) {
	m.GetStockCalls++
	if m.GetStockFunc != nil {
		return m.GetStockFunc(ctx, ticker)
	}
	return nil, errors.New("GetStockFunc is not implemented")
}

// recordingEngine captures the parameters it was given and returns an empty result.
type recordingEngine struct {
	params    []entity.Params
	seeds     []uint64
	RunErr    error
	seededRun int
}

func (e *recordingEngine) Run(ctx context.Context, p entity.Params) (*entity.Result, error) {
	e.params = append(e.params, p)
	if e.RunErr != nil {
		return nil, e.RunErr
	}
	return &entity.Result{InputParams: p}, nil
}

func (e *recordingEngine) RunSeeded(ctx context.Context, p entity.Params, seed uint64) (*entity.Result, error) {
	e.seededRun++
	e.seeds = append(e.seeds, seed)
	return e.Run(ctx, p)
}

func ptr[T any](v T) *T { return &v }

func analysis() *stockentity.Analysis {
	return &stockentity.Analysis{
		Stock: &stockentity.Stock{
			Ticker:   "MSFT",
			Price:    400,
			EPS:      11.8,
			PE:       33.9,
			Warnings: []string{"P/E history derived from year-end closes"},
		},
		Growth: entity.GrowthDistribution{MeanGrowth: 0.14, SigmaGrowth: 0.12},
		PE:     entity.PEDistribution{MeanPE: 31, SigmaPE: 5, Warning: null.StringFrom("sigma floored")},
	}
}

func TestSimulationUsecase_Simulate_FromTicker(t *testing.T) {
	t.Parallel()

	stocks := &mockStockProvider{
		GetStockFunc: func(ctx context.Context, ticker string) (*stockentity.Analysis, error) {
			assert.Equal(t, "msft", ticker)
			return analysis(), nil
		},
	}
	eng := &recordingEngine{}
	uc := usecase.NewSimulationUsecase(stocks, eng, usecase.DefaultConfig())

	out, err := uc.Simulate(context.Background(), usecase.Request{Ticker: "msft", Years: ptr(10)})
	require.NoError(t, err)

	require.Len(t, eng.params, 1)
	p := eng.params[0]
	assert.Equal(t, 400.0, p.Price0)
	assert.Equal(t, 11.8, p.EPS0)
	assert.Equal(t, 33.9, p.PE0)
	assert.Equal(t, 10, p.Years)
	assert.Equal(t, 10_000, p.NumSimulations)
	assert.Equal(t, 0.07, p.FDRate)
	assert.Equal(t, 0.14, p.MeanGrowth)
	assert.Equal(t, 31.0, p.MeanPE)
	assert.Equal(t, entity.DefaultGrowthMin, p.GrowthMin)
	assert.Equal(t, entity.DefaultPEMax, p.PEMax)

	assert.Equal(t, "MSFT", out.Ticker)
	assert.NotEmpty(t, out.RunID.String())
	assert.Equal(t, []string{"P/E history derived from year-end closes", "sigma floored"}, out.Warnings)
	assert.Equal(t, 0, eng.seededRun)
}

func TestSimulationUsecase_Simulate_OverridesWin(t *testing.T) {
	t.Parallel()

	stocks := &mockStockProvider{
		GetStockFunc: func(ctx context.Context, ticker string) (*stockentity.Analysis, error) {
			return analysis(), nil
		},
	}
	eng := &recordingEngine{}
	uc := usecase.NewSimulationUsecase(stocks, eng, usecase.DefaultConfig())

	_, err := uc.Simulate(context.Background(), usecase.Request{
		Ticker:      "MSFT",
		Price0:      ptr(390.0),
		MeanPE:      ptr(28.0),
		SigmaPE:     ptr(4.0),
		PEMin:       ptr(10.0),
		GrowthMax:   ptr(0.3),
		FDRate:      ptr(0.05),
		Seed:        ptr(uint64(99)),
		MeanGrowth:  ptr(0.08),
		SigmaGrowth: ptr(0.1),
	})
	require.NoError(t, err)

	p := eng.params[0]
	assert.Equal(t, 390.0, p.Price0)
	assert.Equal(t, 28.0, p.MeanPE)
	assert.Equal(t, 4.0, p.SigmaPE)
	assert.Equal(t, 10.0, p.PEMin)
	assert.Equal(t, 0.3, p.GrowthMax)
	assert.Equal(t, 0.05, p.FDRate)
	assert.Equal(t, 0.08, p.MeanGrowth)
	assert.Equal(t, []uint64{99}, eng.seeds)
}

func TestSimulationUsecase_Simulate_CustomInputs(t *testing.T) {
	t.Parallel()

	stocks := &mockStockProvider{}
	eng := &recordingEngine{}
	uc := usecase.NewSimulationUsecase(stocks, eng, usecase.DefaultConfig())

	out, err := uc.Simulate(context.Background(), usecase.Request{
		Price0: ptr(100.0),
		EPS0:   ptr(5.0),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, stocks.GetStockCalls)
	p := eng.params[0]
	assert.Equal(t, 20.0, p.PE0)
	assert.Equal(t, 5, p.Years)
	assert.Equal(t, estimator.DefaultMeanGrowth, p.MeanGrowth)
	assert.Equal(t, estimator.DefaultSigmaGrowth, p.SigmaGrowth)
	assert.Equal(t, estimator.DefaultMeanPE, p.MeanPE)
	assert.Equal(t, estimator.DefaultSigmaPE, p.SigmaPE)
	assert.Empty(t, out.Ticker)
	assert.Len(t, out.Warnings, 2)
}

func TestSimulationUsecase_Simulate_CapsSimulations(t *testing.T) {
	t.Parallel()

	eng := &recordingEngine{}
	uc := usecase.NewSimulationUsecase(&mockStockProvider{}, eng, usecase.DefaultConfig())

	out, err := uc.Simulate(context.Background(), usecase.Request{
		Price0:         ptr(100.0),
		EPS0:           ptr(5.0),
		NumSimulations: ptr(1_000_000),
		MeanGrowth:     ptr(0.1),
		SigmaGrowth:    ptr(0.1),
		MeanPE:         ptr(20.0),
		SigmaPE:        ptr(4.0),
	})
	require.NoError(t, err)

	assert.Equal(t, 50_000, eng.params[0].NumSimulations)
	assert.Equal(t, []string{"numSimulations 1000000 capped at 50000"}, out.Warnings)
}

func TestSimulationUsecase_Simulate_Errors(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("provider down")

	tests := []struct {
		name        string
		req         usecase.Request
		stockErr    error
		engineErr   error
		expectedErr error
		engineCalls int
	}{
		{
			name:        "no ticker and no market data",
			req:         usecase.Request{Price0: ptr(100.0)},
			expectedErr: domain.ErrMissingMarketData,
		},
		{
			name:        "years above limit",
			req:         usecase.Request{Ticker: "MSFT", Years: ptr(51)},
			expectedErr: domain.ErrInvalidParameters,
		},
		{
			name:        "years below one",
			req:         usecase.Request{Ticker: "MSFT", Years: ptr(0)},
			expectedErr: domain.ErrInvalidParameters,
		},
		{
			name:        "unknown ticker",
			req:         usecase.Request{Ticker: "ZZZZ"},
			stockErr:    stockdomain.ErrStockNotFound,
			expectedErr: stockdomain.ErrStockNotFound,
		},
		{
			name:        "engine failure",
			req:         usecase.Request{Ticker: "MSFT"},
			engineErr:   providerErr,
			expectedErr: providerErr,
			engineCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stocks := &mockStockProvider{
				GetStockFunc: func(ctx context.Context, ticker string) (*stockentity.Analysis, error) {
					if tt.stockErr != nil {
						return nil, tt.stockErr
					}
					return analysis(), nil
				},
			}
			eng := &recordingEngine{RunErr: tt.engineErr}
			uc := usecase.NewSimulationUsecase(stocks, eng, usecase.DefaultConfig())

			out, err := uc.Simulate(context.Background(), tt.req)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Len(t, eng.params, tt.engineCalls)
		})
	}
}

func TestSimulationUsecase_Simulate_WithEngine(t *testing.T) {
	t.Parallel()

	uc := usecase.NewSimulationUsecase(&mockStockProvider{}, engine.New(), usecase.DefaultConfig())

	req := usecase.Request{
		Price0:         ptr(100.0),
		EPS0:           ptr(5.0),
		NumSimulations: ptr(2_000),
		Seed:           ptr(uint64(7)),
	}
	first, err := uc.Simulate(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Simulate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), first.Result.Seed)
	assert.Equal(t, first.Result.Summary, second.Result.Summary)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Len(t, first.Result.Trials, 2_000)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SIM_MAX_SIMULATIONS", "20000")
	t.Setenv("SIM_DEFAULT_SIMULATIONS", "30000")
	t.Setenv("SIM_WORKERS", "bad")

	cfg := usecase.LoadConfig()

	assert.Equal(t, 20_000, cfg.MaxSimulations)
	assert.Equal(t, 20_000, cfg.DefaultSimulations)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, 5, cfg.DefaultYears)
}
