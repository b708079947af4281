// Package estimator fits growth and P/E distributions from historical data.
// Estimators never fail for lack of data: they fall back to documented
// defaults and describe the fallback in the Warning field.
package estimator

import (
	"fmt"
	"math"
	"slices"

	"github.com/guregu/null/v6"

	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/shared/robuststats"
)

const (
	// DefaultMeanGrowth and DefaultSigmaGrowth apply when EPS history is too short.
	DefaultMeanGrowth  = 0.10
	DefaultSigmaGrowth = 0.15
	// MinSigmaGrowth floors the fitted growth volatility.
	MinSigmaGrowth = 0.10
	// MinEPSEntries is the shortest EPS history that yields a growth rate.
	MinEPSEntries = 2
	// MinGrowthRates is the fewest growth rates the fit accepts.
	MinGrowthRates = 2

	// DefaultMeanPE and DefaultSigmaPE apply when P/E history is too short.
	DefaultMeanPE  = 25.0
	DefaultSigmaPE = 8.0
	// MinSigmaPE floors the fitted P/E volatility.
	MinSigmaPE = 3.0
	// MinPEValues is the fewest P/E values, before and after filtering.
	MinPEValues = 3
	// MaxValidPE is the exclusive upper bound of a usable P/E.
	MaxValidPE = 200.0
)

// EPSGrowth fits the annual EPS growth distribution. Growth is measured
// between consecutive years and skipped when the earlier EPS is not positive.
func EPSGrowth(history []entity.EPSEntry) entity.GrowthDistribution {
	if len(history) < MinEPSEntries {
		return defaultGrowth(nil, fmt.Sprintf(
			"Insufficient EPS history (%d of %d years); using default growth %.0f%% ± %.0f%%",
			len(history), MinEPSEntries, DefaultMeanGrowth*100, DefaultSigmaGrowth*100))
	}

	ordered := slices.Clone(history)
	slices.SortStableFunc(ordered, func(a, b entity.EPSEntry) int { return a.Year - b.Year })

	rates := make([]float64, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		prev := ordered[i-1].EPS
		if prev <= 0 {
			continue
		}
		rates = append(rates, (ordered[i].EPS-prev)/prev)
	}

	if len(rates) < MinGrowthRates {
		return defaultGrowth(rates, fmt.Sprintf(
			"Only %d usable EPS growth rates (need %d); using default growth %.0f%% ± %.0f%%",
			len(rates), MinGrowthRates, DefaultMeanGrowth*100, DefaultSigmaGrowth*100))
	}

	mean, sigma, err := fit(rates)
	if err != nil {
		return defaultGrowth(rates, "Growth fit failed; using default growth assumptions")
	}

	dist := entity.GrowthDistribution{
		MeanGrowth:  mean,
		SigmaGrowth: math.Max(sigma, MinSigmaGrowth),
		GrowthRates: rates,
		DataPoints:  len(rates),
	}
	if sigma < MinSigmaGrowth {
		dist.Warning = null.StringFrom(fmt.Sprintf(
			"Growth volatility %.1f%% below floor; using %.0f%%", sigma*100, MinSigmaGrowth*100))
	}
	return dist
}

// PE fits the terminal P/E distribution from raw P/E observations. Values
// outside (0, MaxValidPE) are discarded.
func PE(values []float64) entity.PEDistribution {
	if len(values) < MinPEValues {
		return defaultPE(nil, fmt.Sprintf(
			"Insufficient P/E history (%d of %d values); using default P/E %.0f ± %.0f",
			len(values), MinPEValues, DefaultMeanPE, DefaultSigmaPE))
	}

	valid := FilterPE(values)
	if len(valid) < MinPEValues {
		return defaultPE(valid, fmt.Sprintf(
			"Only %d P/E values in range (0, %.0f); using default P/E %.0f ± %.0f",
			len(valid), MaxValidPE, DefaultMeanPE, DefaultSigmaPE))
	}

	mean, sigma, err := fit(valid)
	if err != nil {
		return defaultPE(valid, "P/E fit failed; using default P/E assumptions")
	}

	dist := entity.PEDistribution{
		MeanPE:     mean,
		SigmaPE:    math.Max(sigma, MinSigmaPE),
		PEValues:   valid,
		DataPoints: len(valid),
	}
	if sigma < MinSigmaPE {
		dist.Warning = null.StringFrom(fmt.Sprintf(
			"P/E volatility %.2f below floor; using %.1f", sigma, MinSigmaPE))
	}
	return dist
}

// FilterPE keeps the values inside (0, MaxValidPE), preserving order.
func FilterPE(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 && v < MaxValidPE {
			valid = append(valid, v)
		}
	}
	return valid
}

func fit(values []float64) (mean, sigma float64, err error) {
	mean, err = robuststats.Median(values)
	if err != nil {
		return 0, 0, err
	}
	sigma, err = robuststats.RobustSigma(values)
	if err != nil {
		return 0, 0, err
	}
	return mean, sigma, nil
}

func defaultGrowth(rates []float64, warning string) entity.GrowthDistribution {
	if rates == nil {
		rates = []float64{}
	}
	return entity.GrowthDistribution{
		MeanGrowth:  DefaultMeanGrowth,
		SigmaGrowth: DefaultSigmaGrowth,
		GrowthRates: rates,
		DataPoints:  len(rates),
		Warning:     null.StringFrom(warning),
	}
}

func defaultPE(values []float64, warning string) entity.PEDistribution {
	if values == nil {
		values = []float64{}
	}
	return entity.PEDistribution{
		MeanPE:     DefaultMeanPE,
		SigmaPE:    DefaultSigmaPE,
		PEValues:   values,
		DataPoints: len(values),
		Warning:    null.StringFrom(warning),
	}
}
