package engine

import (
	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/shared/robuststats"
)

func summarize(s series, trials []entity.Trial, p entity.Params, fdTarget float64) (entity.Summary, error) {
	price, err := SummarizeSeries(s.price)
	if err != nil {
		return entity.Summary{}, err
	}
	cagrSummary, err := SummarizeSeries(s.cagr)
	if err != nil {
		return entity.Summary{}, err
	}

	var beats, losses int
	for _, t := range trials {
		if t.BeatsFD {
			beats++
		}
		if t.IsLoss {
			losses++
		}
	}
	n := float64(len(trials))

	return entity.Summary{
		Price:          price,
		CAGR:           cagrSummary,
		ProbBeatsFD:    float64(beats) / n,
		ProbLoss:       float64(losses) / n,
		FDTarget:       fdTarget,
		FDRate:         p.FDRate,
		Years:          p.Years,
		NumSimulations: len(trials),
	}, nil
}

// SummarizeSeries computes the p10..p90 percentile profile and mean of values.
func SummarizeSeries(values []float64) (entity.SeriesSummary, error) {
	q, err := robuststats.Percentiles(values, 10, 25, 50, 75, 90)
	if err != nil {
		return entity.SeriesSummary{}, err
	}
	mean, err := robuststats.Mean(values)
	if err != nil {
		return entity.SeriesSummary{}, err
	}
	return entity.SeriesSummary{P10: q[0], P25: q[1], P50: q[2], P75: q[3], P90: q[4], Mean: mean}, nil
}
