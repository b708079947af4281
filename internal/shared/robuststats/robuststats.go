// Package robuststats provides outlier-resistant location and scale estimators
// used to fit the growth and P/E distributions.
package robuststats

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

const (
	// MADScale converts a median absolute deviation into a normal-consistent sigma.
	MADScale = 1.4826
	// IQRScale is the interquartile range of a standard normal distribution.
	IQRScale = 1.349
)

var (
	// ErrEmptyInput is returned when an estimator receives no values.
	ErrEmptyInput = errors.New("robuststats: empty input")
	// ErrPercentileOutOfRange is returned when p is outside [0, 100].
	ErrPercentileOutOfRange = errors.New("robuststats: percentile out of range")
)

// Median returns the middle value of the sorted values, averaging the two
// middle values for even lengths. The input slice is not modified.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// MAD returns the median absolute deviation from the median.
func MAD(values []float64) (float64, error) {
	m, err := Median(values)
	if err != nil {
		return 0, err
	}
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - m)
	}
	return Median(deviations)
}

// MADSigma scales the MAD to estimate a normal standard deviation.
func MADSigma(values []float64) (float64, error) {
	mad, err := MAD(values)
	if err != nil {
		return 0, err
	}
	return mad * MADScale, nil
}

// Percentile returns the p-th percentile (0..100) using linear interpolation
// between closest ranks: idx = (p/100)*(n-1).
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, ErrPercentileOutOfRange
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return percentileSorted(sorted, p), nil
}

// Percentiles evaluates several percentiles over a single sort of values.
func Percentiles(values []float64, ps ...float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	out := make([]float64, len(ps))
	for i, p := range ps {
		if p < 0 || p > 100 || math.IsNaN(p) {
			return nil, ErrPercentileOutOfRange
		}
		out[i] = percentileSorted(sorted, p)
	}
	return out, nil
}

func percentileSorted(sorted []float64, p float64) float64 {
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// IQRSigma estimates sigma from the interquartile range: (Q3 - Q1) / 1.349.
func IQRSigma(values []float64) (float64, error) {
	q, err := Percentiles(values, 25, 75)
	if err != nil {
		return 0, err
	}
	return (q[1] - q[0]) / IQRScale, nil
}

// RobustSigma returns the smaller of MADSigma and IQRSigma.
func RobustSigma(values []float64) (float64, error) {
	madSigma, err := MADSigma(values)
	if err != nil {
		return 0, err
	}
	iqrSigma, err := IQRSigma(values)
	if err != nil {
		return 0, err
	}
	return math.Min(madSigma, iqrSigma), nil
}

// Mean returns the arithmetic mean.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	return stat.Mean(values, nil), nil
}

// PopulationVariance returns the variance with divisor n.
func PopulationVariance(values []float64) (float64, error) {
	switch len(values) {
	case 0:
		return 0, ErrEmptyInput
	case 1:
		return 0, nil
	}
	return stat.PopVariance(values, nil), nil
}
