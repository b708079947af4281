package engine

import (
	"math"

	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/shared/robuststats"
)

var quartileLabels = [3]string{"p25", "p50", "p75"}

// BuildScenarios crosses the growth and P/E quartiles of the trial series
// into nine deterministic point scenarios, growth-major.
func BuildScenarios(growth, pe []float64, p entity.Params) (entity.ScenarioMatrix, error) {
	gq, err := quartiles(growth)
	if err != nil {
		return entity.ScenarioMatrix{}, err
	}
	pq, err := quartiles(pe)
	if err != nil {
		return entity.ScenarioMatrix{}, err
	}

	gv := [3]float64{gq.P25, gq.P50, gq.P75}
	pv := [3]float64{pq.P25, pq.P50, pq.P75}

	matrix := make([]entity.Scenario, 0, len(gv)*len(pv))
	for i, g := range gv {
		epsT := p.EPS0 * math.Pow(1+g, float64(p.Years))
		for j, peV := range pv {
			priceT := epsT * peV
			matrix = append(matrix, entity.Scenario{
				GrowthLabel: quartileLabels[i],
				PELabel:     quartileLabels[j],
				Growth:      g,
				PE:          peV,
				EPST:        epsT,
				PriceT:      priceT,
				CAGR:        cagr(priceT, p.Price0, p.Years),
			})
		}
	}

	return entity.ScenarioMatrix{
		GrowthPercentiles: gq,
		PEPercentiles:     pq,
		Matrix:            matrix,
	}, nil
}

func quartiles(values []float64) (entity.Quartiles, error) {
	q, err := robuststats.Percentiles(values, 25, 50, 75)
	if err != nil {
		return entity.Quartiles{}, err
	}
	return entity.Quartiles{P25: q[0], P50: q[1], P75: q[2]}, nil
}
