package cvar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateBoundaryConsumesExactMass(t *testing.T) {
	// The 0-outcome alone carries exactly alpha mass, so the 10-outcome
	// contributes nothing.
	d := FromMap(map[float64]float64{0: 0.5, 10: 0.5})
	got, err := Estimate(d, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)
}

func TestEstimatePartialBoundaryPair(t *testing.T) {
	// Fully included: (0, 0.3). Boundary: (5, partial 0.2 of 0.3).
	// (0*0.3 + 5*0.2) / 0.5 = 2.0
	d := FromMap(map[float64]float64{0: 0.3, 5: 0.3, 10: 0.4})
	got, err := Estimate(d, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestEstimateSingleOutcome(t *testing.T) {
	d := FromMap(map[float64]float64{7: 1.0})
	for _, alpha := range []float64{0.01, 0.25, 0.5, 1.0} {
		got, err := Estimate(d, alpha)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, got, 1e-12, "alpha=%v", alpha)
	}
}

func TestEstimateAlphaOneIsMean(t *testing.T) {
	d := FromMap(map[float64]float64{-3: 0.2, 1: 0.5, 8: 0.3})
	got, err := Estimate(d, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, d.Mean(), got, 1e-12)
	assert.InDelta(t, -3*0.2+1*0.5+8*0.3, got, 1e-12)
}

func TestEstimateApproachesMinimum(t *testing.T) {
	d := FromMap(map[float64]float64{-3: 0.2, 1: 0.5, 8: 0.3})
	got, err := Estimate(d, 1e-9)
	require.NoError(t, err)
	assert.InDelta(t, -3.0, got, 1e-9)
}

func TestEstimateMonotoneInAlpha(t *testing.T) {
	d := FromMap(map[float64]float64{-2: 0.1, 0: 0.4, 3: 0.3, 9: 0.2})
	prev := d.Min() - 1
	for _, alpha := range []float64{0.05, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		got, err := Estimate(d, alpha)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev-1e-12, "alpha=%v", alpha)
		prev = got
	}
}

func TestEstimateAggregatesDuplicates(t *testing.T) {
	// Two entries at value 0 must merge before the cutoff is applied.
	d := Distribution{{Value: 0, Prob: 0.25}, {Value: 0, Prob: 0.25}, {Value: 10, Prob: 0.5}}
	got, err := Estimate(d, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)
}

func TestEstimateInputOrderIrrelevant(t *testing.T) {
	a := Distribution{{Value: 10, Prob: 0.4}, {Value: 0, Prob: 0.3}, {Value: 5, Prob: 0.3}}
	b := Distribution{{Value: 0, Prob: 0.3}, {Value: 5, Prob: 0.3}, {Value: 10, Prob: 0.4}}
	ga, err := Estimate(a, 0.5)
	require.NoError(t, err)
	gb, err := Estimate(b, 0.5)
	require.NoError(t, err)
	assert.Equal(t, ga, gb)
}

func TestEstimateEmptyDistribution(t *testing.T) {
	_, err := Estimate(nil, 0.5)
	assert.ErrorIs(t, err, ErrEmptyDistribution)
}

func TestEstimateRejectsNonPositiveAlpha(t *testing.T) {
	d := FromMap(map[float64]float64{1: 1})
	for _, alpha := range []float64{0, -0.1} {
		_, err := Estimate(d, alpha)
		assert.ErrorIs(t, err, ErrInvalidAlpha, "alpha=%v", alpha)
	}
}

func TestNewConfigValidation(t *testing.T) {
	cfg, err := NewConfig(0.25)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Alpha)

	for _, alpha := range []float64{0, -1, 1.5} {
		_, err := NewConfig(alpha)
		assert.ErrorIs(t, err, ErrInvalidAlpha, "alpha=%v", alpha)
	}
}

func TestConfigEstimate(t *testing.T) {
	cfg, err := NewConfig(0.5)
	require.NoError(t, err)
	got, err := cfg.Estimate(FromMap(map[float64]float64{0: 0.3, 5: 0.3, 10: 0.4}))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestEstimateDoesNotMutateInput(t *testing.T) {
	d := Distribution{{Value: 10, Prob: 0.5}, {Value: 0, Prob: 0.5}}
	_, err := Estimate(d, 0.3)
	require.NoError(t, err)
	assert.Equal(t, Distribution{{Value: 10, Prob: 0.5}, {Value: 0, Prob: 0.5}}, d)
}

func TestDistributionHelpers(t *testing.T) {
	d := FromMap(map[float64]float64{2: 0.5, -1: 0.25, 4: 0.25})
	assert.InDelta(t, 1.0, d.TotalMass(), 1e-12)
	assert.InDelta(t, -1.0, d.Min(), 1e-12)
	assert.InDelta(t, 2*0.5-1*0.25+4*0.25, d.Mean(), 1e-12)

	// FromMap sorts ascending.
	assert.Equal(t, -1.0, d[0].Value)
	assert.Equal(t, 4.0, d[2].Value)
}

func TestEstimateUnnormalizedMass(t *testing.T) {
	// alpha at or above total mass falls back to the weighted mean even when
	// the masses do not quite sum to 1.
	d := FromMap(map[float64]float64{0: 0.45, 10: 0.45})
	got, err := Estimate(d, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)

	var errCheck error
	_, errCheck = Estimate(Distribution{}, 0.5)
	assert.True(t, errors.Is(errCheck, ErrEmptyDistribution))
}
