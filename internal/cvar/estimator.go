package cvar

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyDistribution is returned when an estimate is requested for a
	// distribution with zero sampled outcomes. It indicates an upstream
	// sampling failure and is propagated unchanged.
	ErrEmptyDistribution = errors.New("empty distribution")

	// ErrInvalidAlpha is returned when the quantile parameter is outside (0,1].
	ErrInvalidAlpha = errors.New("alpha must be in (0,1]")
)

// Config holds the quantile parameter for the CVaR estimator. Alpha is
// immutable after construction and safe to share across concurrent
// evaluations.
type Config struct {
	Alpha float64
}

// NewConfig validates alpha and returns an estimator config.
func NewConfig(alpha float64) (Config, error) {
	if math.IsNaN(alpha) || alpha <= 0 || alpha > 1 {
		return Config{}, fmt.Errorf("%w, got %v", ErrInvalidAlpha, alpha)
	}
	return Config{Alpha: alpha}, nil
}

// Estimate computes the CVaR of the config's quantile for d.
func (c Config) Estimate(d Distribution) (float64, error) {
	return Estimate(d, c.Alpha)
}

// Estimate computes the Conditional Value at Risk at quantile alpha: the
// probability-weighted average of the lowest alpha-fraction of outcomes.
// At alpha >= 1 this is the plain expectation; as alpha → 0 it approaches
// the minimum observed value.
//
// Duplicate outcome values are merged before sorting, and the pair at which
// cumulative mass first reaches alpha contributes only the fraction of its
// mass needed to make the cumulative mass exactly alpha. Accumulation runs
// ascending by value, so identical inputs always produce identical results.
func Estimate(d Distribution, alpha float64) (float64, error) {
	if math.IsNaN(alpha) || alpha <= 0 {
		return 0, fmt.Errorf("%w, got %v", ErrInvalidAlpha, alpha)
	}
	if len(d) == 0 {
		return 0, ErrEmptyDistribution
	}

	agg := d.Aggregate()
	if alpha >= agg.TotalMass() {
		return agg.Mean(), nil
	}

	var sum, cum float64
	for _, o := range agg {
		if cum+o.Prob < alpha {
			sum += o.Value * o.Prob
			cum += o.Prob
			continue
		}
		// Boundary pair: partial inclusion up to exactly alpha.
		sum += o.Value * (alpha - cum)
		break
	}
	return sum / alpha, nil
}
