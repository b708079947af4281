package engine

import (
	"math"

	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/shared/robuststats"
)

// AnalyzeSensitivity attributes terminal price variance to growth and P/E by
// varying one factor across all trials while holding the other at its median.
// Zero total variance splits the contribution evenly.
func AnalyzeSensitivity(growth, pe []float64, p entity.Params) (entity.Sensitivity, error) {
	medianGrowth, err := robuststats.Median(growth)
	if err != nil {
		return entity.Sensitivity{}, err
	}
	medianPE, err := robuststats.Median(pe)
	if err != nil {
		return entity.Sensitivity{}, err
	}

	years := float64(p.Years)
	varyGrowth := make([]float64, len(growth))
	for i, g := range growth {
		varyGrowth[i] = p.EPS0 * math.Pow(1+g, years) * medianPE
	}
	baseEPS := p.EPS0 * math.Pow(1+medianGrowth, years)
	varyPE := make([]float64, len(pe))
	for i, v := range pe {
		varyPE[i] = baseEPS * v
	}

	varGrowth, err := robuststats.PopulationVariance(varyGrowth)
	if err != nil {
		return entity.Sensitivity{}, err
	}
	varPE, err := robuststats.PopulationVariance(varyPE)
	if err != nil {
		return entity.Sensitivity{}, err
	}

	out := entity.Sensitivity{
		GrowthContribution: 0.5,
		PEContribution:     0.5,
		VarianceFromGrowth: varGrowth,
		VarianceFromPE:     varPE,
		MedianGrowth:       medianGrowth,
		MedianPE:           medianPE,
	}
	if total := varGrowth + varPE; total > 0 {
		out.GrowthContribution = varGrowth / total
		out.PEContribution = varPE / total
	}
	return out, nil
}
