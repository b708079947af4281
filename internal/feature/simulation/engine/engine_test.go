package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_forecast/internal/feature/simulation/domain"
	"stock_forecast/internal/feature/simulation/domain/entity"
)

func baseParams() entity.Params {
	return entity.Params{
		Price0:         100,
		EPS0:           5,
		PE0:            20,
		Years:          5,
		NumSimulations: 10_000,
		FDRate:         0.07,
		MeanGrowth:     0.10,
		SigmaGrowth:    0.10,
		MeanPE:         20,
		SigmaPE:        3,
	}.WithDefaultBounds()
}

func TestEngine_Run_TrialInvariants(t *testing.T) {
	t.Parallel()

	p := baseParams()
	res, err := New(WithSeed(11)).Run(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, res.Trials, p.NumSimulations)

	fdTarget := p.Price0 * math.Pow(1+p.FDRate, float64(p.Years))
	for i, tr := range res.Trials {
		require.GreaterOrEqual(t, tr.G, p.GrowthMin, "trial %d", i)
		require.LessOrEqual(t, tr.G, p.GrowthMax, "trial %d", i)
		require.GreaterOrEqual(t, tr.PET, p.PEMin, "trial %d", i)
		require.LessOrEqual(t, tr.PET, p.PEMax, "trial %d", i)
		require.Equal(t, tr.EPST*tr.PET, tr.PriceT, "trial %d", i)
		require.InDelta(t, math.Pow(tr.PriceT/p.Price0, 1/float64(p.Years))-1, tr.CAGR, 1e-12)
		require.Equal(t, tr.PriceT > fdTarget, tr.BeatsFD)
		require.Equal(t, tr.PriceT < p.Price0, tr.IsLoss)
	}
}

func TestEngine_Run_EndToEndMedian(t *testing.T) {
	t.Parallel()

	res, err := New().Run(context.Background(), baseParams())
	require.NoError(t, err)

	expected := 5 * math.Pow(1.10, 5) * 20
	assert.InEpsilon(t, expected, res.Summary.Price.P50, 0.15)
	assert.Equal(t, 10_000, res.Summary.NumSimulations)
	assert.Equal(t, 5, res.Summary.Years)
	assert.Equal(t, 0.07, res.Summary.FDRate)
	assert.InDelta(t, 100*math.Pow(1.07, 5), res.Summary.FDTarget, 1e-9)
	assert.GreaterOrEqual(t, res.Summary.ProbBeatsFD, 0.0)
	assert.LessOrEqual(t, res.Summary.ProbBeatsFD, 1.0)
	assert.GreaterOrEqual(t, res.Summary.ProbLoss, 0.0)
	assert.LessOrEqual(t, res.Summary.ProbLoss, 1.0)
	assert.Equal(t, baseParams(), res.InputParams)
}

func TestEngine_Run_SummaryIsOrdered(t *testing.T) {
	t.Parallel()

	res, err := New(WithSeed(3)).Run(context.Background(), baseParams())
	require.NoError(t, err)

	for _, s := range []entity.SeriesSummary{res.Summary.Price, res.Summary.CAGR} {
		assert.LessOrEqual(t, s.P10, s.P25)
		assert.LessOrEqual(t, s.P25, s.P50)
		assert.LessOrEqual(t, s.P50, s.P75)
		assert.LessOrEqual(t, s.P75, s.P90)
	}
}

func TestEngine_Run_SeededIsReproducible(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.NumSimulations = 7_777

	first, err := New(WithSeed(42), WithWorkers(1)).Run(context.Background(), p)
	require.NoError(t, err)
	second, err := New(WithSeed(42), WithWorkers(6)).Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Run_UnseededRunsDiffer(t *testing.T) {
	t.Parallel()

	e := New()
	a, err := e.Run(context.Background(), baseParams())
	require.NoError(t, err)
	b, err := e.Run(context.Background(), baseParams())
	require.NoError(t, err)

	assert.NotEqual(t, a.Trials[0], b.Trials[0])
}

func TestEngine_RunSeeded_ReplaysReportedSeed(t *testing.T) {
	t.Parallel()

	e := New(WithWorkers(3))
	first, err := e.Run(context.Background(), baseParams())
	require.NoError(t, err)

	replay, err := e.RunSeeded(context.Background(), baseParams(), first.Seed)
	require.NoError(t, err)

	assert.Equal(t, first.Seed, replay.Seed)
	assert.Equal(t, first.Trials, replay.Trials)
	assert.Equal(t, first.Summary, replay.Summary)
}

func TestEngine_Run_InvalidParameters(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.NumSimulations = 0

	res, err := New().Run(context.Background(), p)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestEngine_Run_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(WithBatchSize(100)).Run(ctx, baseParams())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Run_SingleTrial(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.NumSimulations = 1

	res, err := New(WithSeed(1)).Run(context.Background(), p)
	require.NoError(t, err)

	assert.Len(t, res.SampledResults, 1)
	assert.Len(t, res.Distributions.Price, 1)
	assert.Equal(t, 1.0, res.Distributions.Price[0].Frequency)
	assert.Equal(t, 0.5, res.Sensitivity.GrowthContribution)
	assert.Len(t, res.Scenarios.Matrix, 9)
}

func TestEngine_Run_DistributionsCoverAllTrials(t *testing.T) {
	t.Parallel()

	res, err := New(WithSeed(5)).Run(context.Background(), baseParams())
	require.NoError(t, err)

	tests := []struct {
		name string
		bins []entity.HistogramBin
		want int
	}{
		{name: "price", bins: res.Distributions.Price, want: PriceBins},
		{name: "cagr", bins: res.Distributions.CAGR, want: CAGRBins},
		{name: "growth", bins: res.Distributions.Growth, want: GrowthBins},
		{name: "pe", bins: res.Distributions.PE, want: PEBins},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.bins, tt.want)
			total := 0
			for _, b := range tt.bins {
				total += b.Count
			}
			assert.Equal(t, 10_000, total)
		})
	}

	assert.Len(t, res.SampledResults, 2000)
	assert.Equal(t, res.Trials[5], res.SampledResults[1])
}

func TestBuildHistogram(t *testing.T) {
	t.Parallel()

	bins, err := BuildHistogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
	require.NoError(t, err)
	require.Len(t, bins, 5)

	assert.Equal(t, []int{2, 2, 2, 2, 2}, []int{bins[0].Count, bins[1].Count, bins[2].Count, bins[3].Count, bins[4].Count})
	assert.Equal(t, 0.0, bins[0].BinStart)
	assert.Equal(t, 2.0, bins[0].BinEnd)
	assert.Equal(t, 1.0, bins[0].BinMid)
	assert.Equal(t, 0.2, bins[4].Frequency)
}

func TestBuildHistogram_MaximumInLastBin(t *testing.T) {
	t.Parallel()

	bins, err := BuildHistogram([]float64{1, 2, 3}, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 2, bins[1].Count)
}

func TestBuildHistogram_Degenerate(t *testing.T) {
	t.Parallel()

	bins, err := BuildHistogram([]float64{4.2, 4.2, 4.2}, 30)
	require.NoError(t, err)
	require.Len(t, bins, 1)

	assert.Equal(t, entity.HistogramBin{BinStart: 4.2, BinEnd: 4.2, BinMid: 4.2, Count: 3, Frequency: 1}, bins[0])
}

func TestBuildHistogram_Errors(t *testing.T) {
	t.Parallel()

	_, err := BuildHistogram([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidBinCount)

	_, err = BuildHistogram(nil, 10)
	assert.Error(t, err)
}

func TestAnalyzeSensitivity(t *testing.T) {
	t.Parallel()

	p := baseParams()
	growth := []float64{0.05, 0.10, 0.15, 0.20}
	pe := []float64{18, 20, 22, 24}

	got, err := AnalyzeSensitivity(growth, pe, p)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, got.GrowthContribution+got.PEContribution, 1e-12)
	assert.InDelta(t, 0.125, got.MedianGrowth, 1e-12)
	assert.InDelta(t, 21.0, got.MedianPE, 1e-12)
	assert.Greater(t, got.VarianceFromGrowth, 0.0)
	assert.Greater(t, got.VarianceFromPE, 0.0)
}

func TestAnalyzeSensitivity_OnlyPEVaries(t *testing.T) {
	t.Parallel()

	got, err := AnalyzeSensitivity([]float64{0.1, 0.1, 0.1}, []float64{10, 20, 30}, baseParams())
	require.NoError(t, err)

	assert.InDelta(t, 0.0, got.GrowthContribution, 1e-12)
	assert.InDelta(t, 1.0, got.PEContribution, 1e-12)
}

func TestAnalyzeSensitivity_ZeroVarianceSplitsEvenly(t *testing.T) {
	t.Parallel()

	got, err := AnalyzeSensitivity([]float64{0.1, 0.1}, []float64{20, 20}, baseParams())
	require.NoError(t, err)

	assert.Equal(t, 0.5, got.GrowthContribution)
	assert.Equal(t, 0.5, got.PEContribution)
}

func TestBuildScenarios(t *testing.T) {
	t.Parallel()

	p := baseParams()
	growth := []float64{0.0, 0.1, 0.2}
	pe := []float64{10, 20, 30}

	got, err := BuildScenarios(growth, pe, p)
	require.NoError(t, err)
	require.Len(t, got.Matrix, 9)

	assert.Equal(t, entity.Quartiles{P25: 0.05, P50: 0.1, P75: 0.15}, roundQuartiles(got.GrowthPercentiles))
	assert.Equal(t, entity.Quartiles{P25: 15, P50: 20, P75: 25}, got.PEPercentiles)

	base := got.Matrix[4]
	assert.Equal(t, "p50", base.GrowthLabel)
	assert.Equal(t, "p50", base.PELabel)
	assert.InDelta(t, 5*math.Pow(1.1, 5), base.EPST, 1e-9)
	assert.InDelta(t, 5*math.Pow(1.1, 5)*20, base.PriceT, 1e-9)
	assert.InDelta(t, math.Pow(base.PriceT/100, 0.2)-1, base.CAGR, 1e-12)

	assert.Equal(t, "p25", got.Matrix[0].GrowthLabel)
	assert.Equal(t, "p75", got.Matrix[2].PELabel)
	assert.Equal(t, "p75", got.Matrix[8].GrowthLabel)
}

func roundQuartiles(q entity.Quartiles) entity.Quartiles {
	r := func(v float64) float64 { return math.Round(v*1e9) / 1e9 }
	return entity.Quartiles{P25: r(q.P25), P50: r(q.P50), P75: r(q.P75)}
}

func TestSampleTrials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        int
		wantLen  int
		wantStep int
	}{
		{name: "below target keeps all", n: 150, wantLen: 150, wantStep: 1},
		{name: "exact multiple", n: 10_000, wantLen: 2000, wantStep: 5},
		{name: "remainder", n: 4_001, wantLen: 2001, wantStep: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			trials := make([]entity.Trial, tt.n)
			for i := range trials {
				trials[i].G = float64(i)
			}

			got := SampleTrials(trials, MaxSampledTrials)
			require.Len(t, got, tt.wantLen)
			for i, tr := range got {
				assert.Equal(t, float64(i*tt.wantStep), tr.G)
			}
		})
	}
}
