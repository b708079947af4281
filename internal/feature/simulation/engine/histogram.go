package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"stock_forecast/internal/feature/simulation/domain"
	"stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/shared/robuststats"
)

// Histogram bin counts per output series.
const (
	PriceBins  = 50
	CAGRBins   = 50
	GrowthBins = 30
	PEBins     = 30
)

// BuildHistogram partitions [min, max] of values into numBins equal-width
// bins. The maximum value is counted in the last bin. Identical values
// collapse into a single bin with frequency 1.
func BuildHistogram(values []float64, numBins int) ([]entity.HistogramBin, error) {
	if numBins < 1 {
		return nil, domain.ErrInvalidBinCount
	}
	if len(values) == 0 {
		return nil, robuststats.ErrEmptyInput
	}

	lo, hi := floats.Min(values), floats.Max(values)
	width := (hi - lo) / float64(numBins)
	total := float64(len(values))

	if width == 0 {
		return []entity.HistogramBin{{
			BinStart:  lo,
			BinEnd:    hi,
			BinMid:    lo,
			Count:     len(values),
			Frequency: 1,
		}}, nil
	}

	counts := make([]int, numBins)
	for _, v := range values {
		idx := int(math.Floor((v - lo) / width))
		idx = max(0, min(numBins-1, idx))
		counts[idx]++
	}

	bins := make([]entity.HistogramBin, numBins)
	for i, c := range counts {
		start := lo + float64(i)*width
		bins[i] = entity.HistogramBin{
			BinStart:  start,
			BinEnd:    start + width,
			BinMid:    start + width/2,
			Count:     c,
			Frequency: float64(c) / total,
		}
	}
	return bins, nil
}

func buildDistributions(s series) (entity.Distributions, error) {
	var (
		d   entity.Distributions
		err error
	)
	if d.Price, err = BuildHistogram(s.price, PriceBins); err != nil {
		return d, err
	}
	if d.CAGR, err = BuildHistogram(s.cagr, CAGRBins); err != nil {
		return d, err
	}
	if d.Growth, err = BuildHistogram(s.growth, GrowthBins); err != nil {
		return d, err
	}
	if d.PE, err = BuildHistogram(s.pe, PEBins); err != nil {
		return d, err
	}
	return d, nil
}
