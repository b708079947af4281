// Package sampler draws normal and truncated-normal variates from an
// injectable uniform source.
package sampler

import (
	"math"
	"math/rand/v2"
)

// MaxTruncationAttempts bounds rejection sampling before falling back to a
// clamped mean.
const MaxTruncationAttempts = 100

// Uniform yields uniform variates in [0, 1). *rand.Rand satisfies it.
type Uniform interface {
	Float64() float64
}

// Sampler generates variates from a single uniform source. It is not safe
// for concurrent use; give each goroutine its own Sampler.
type Sampler struct {
	src Uniform
}

// New returns a Sampler reading from src.
func New(src Uniform) *Sampler {
	return &Sampler{src: src}
}

// NewSeeded returns a Sampler over a PCG stream. Equal (seed, stream) pairs
// produce identical sequences.
func NewSeeded(seed, stream uint64) *Sampler {
	return New(rand.New(rand.NewPCG(seed, stream)))
}

// StandardNormal returns a N(0,1) variate using the Box-Muller transform.
// A zero first uniform is redrawn so the logarithm stays finite.
func (s *Sampler) StandardNormal() float64 {
	u1 := s.src.Float64()
	for u1 == 0 {
		u1 = s.src.Float64()
	}
	u2 := s.src.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// TruncatedNormal draws from N(mean, sigma) restricted to [lo, hi] by
// rejection. After MaxTruncationAttempts misses it returns mean clamped to
// the interval.
func (s *Sampler) TruncatedNormal(mean, sigma, lo, hi float64) float64 {
	for range MaxTruncationAttempts {
		v := mean + sigma*s.StandardNormal()
		if v >= lo && v <= hi {
			return v
		}
	}
	return Clamp(mean, lo, hi)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
