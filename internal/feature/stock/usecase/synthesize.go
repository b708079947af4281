package usecase

import (
	"slices"

	simentity "stock_forecast/internal/feature/simulation/domain/entity"
	"stock_forecast/internal/feature/stock/domain/entity"
)

// PriceReturnScale converts annual price returns into estimated EPS growth.
const PriceReturnScale = 0.70

// Warnings attached to estimated histories.
const (
	SyntheticEPSWarning = "EPS history estimated from price returns (70% scale); fundamental data unavailable"
	DerivedPEWarning    = "P/E history derived from year-end prices and EPS history"
)

// AnnualCloses returns the last close of each calendar year, ascending.
func AnnualCloses(prices []entity.PricePoint) []entity.PricePoint {
	ordered := slices.Clone(prices)
	slices.SortStableFunc(ordered, func(a, b entity.PricePoint) int { return a.Time.Compare(b.Time) })

	var out []entity.PricePoint
	for _, p := range ordered {
		if p.Close <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Time.Year() == p.Time.Year() {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// SynthesizeEPSHistory builds yearly EPS by walking back from currentEPS,
// assuming EPS grew each year by PriceReturnScale times that year's price
// return. It returns nil when currentEPS is not positive or fewer than two
// years of prices exist.
func SynthesizeEPSHistory(currentEPS float64, prices []entity.PricePoint) []simentity.EPSEntry {
	if currentEPS <= 0 {
		return nil
	}
	closes := AnnualCloses(prices)
	if len(closes) < 2 {
		return nil
	}

	out := make([]simentity.EPSEntry, len(closes))
	eps := currentEPS
	for i := len(closes) - 1; i >= 0; i-- {
		out[i] = simentity.EPSEntry{
			Date: closes[i].Time.Format("2006-01-02"),
			EPS:  eps,
			Year: closes[i].Time.Year(),
		}
		if i > 0 {
			ret := closes[i].Close/closes[i-1].Close - 1
			eps /= 1 + PriceReturnScale*ret
		}
	}
	return out
}

// DerivePEHistory divides each year-end close by that year's EPS, skipping
// years without a positive EPS or a price.
func DerivePEHistory(history []simentity.EPSEntry, prices []entity.PricePoint) []float64 {
	byYear := make(map[int]float64)
	for _, p := range AnnualCloses(prices) {
		byYear[p.Time.Year()] = p.Close
	}

	var out []float64
	for _, e := range history {
		price, ok := byYear[e.Year]
		if !ok || e.EPS <= 0 {
			continue
		}
		out = append(out, price/e.EPS)
	}
	return out
}
