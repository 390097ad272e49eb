package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qbitworks/qvar-estimator/internal/cvar"
	"github.com/qbitworks/qvar-estimator/internal/observable"
)

// fixedBackend serves a canned distribution per observable name.
type fixedBackend struct {
	dists map[string]cvar.Distribution
	err   error
}

func (f *fixedBackend) Sample(o *observable.Diagonal) (cvar.Distribution, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dists[o.Name], nil
}

func (f *fixedBackend) Exact(o *observable.Diagonal) (cvar.Distribution, error) {
	return f.Sample(o)
}

func TestEvaluateMeasurementLeafMean(t *testing.T) {
	b := &fixedBackend{dists: map[string]cvar.Distribution{
		"a": cvar.FromMap(map[float64]float64{0: 0.5, 10: 0.5}),
	}}
	got, err := Evaluate(NewMeasurement(obs("a")), b)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)
}

func TestEvaluateRiskLeafCVaR(t *testing.T) {
	b := &fixedBackend{dists: map[string]cvar.Distribution{
		"a": cvar.FromMap(map[float64]float64{0: 0.5, 10: 0.5}),
	}}
	got, err := Evaluate(NewRisk(obs("a"), 0.5), b)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)
}

func TestEvaluateSumComposite(t *testing.T) {
	b := &fixedBackend{dists: map[string]cvar.Distribution{
		"a": cvar.FromMap(map[float64]float64{2: 1}),
		"b": cvar.FromMap(map[float64]float64{3: 1}),
	}}
	tree := NewComposite(CombineSum, NewMeasurement(obs("a")), NewMeasurement(obs("b")))
	got, err := Evaluate(tree, b)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)
}

func TestEvaluateTensorComposite(t *testing.T) {
	b := &fixedBackend{dists: map[string]cvar.Distribution{
		"a": cvar.FromMap(map[float64]float64{2: 1}),
		"b": cvar.FromMap(map[float64]float64{-3: 1}),
	}}
	tree := NewComposite(CombineTensor, NewMeasurement(obs("a")), NewMeasurement(obs("b")))
	got, err := Evaluate(tree, b)
	require.NoError(t, err)
	assert.InDelta(t, -6.0, got, 1e-12)
}

func TestEvaluateListCompositeAverages(t *testing.T) {
	b := &fixedBackend{dists: map[string]cvar.Distribution{
		"a": cvar.FromMap(map[float64]float64{2: 1}),
		"b": cvar.FromMap(map[float64]float64{4: 1}),
	}}
	tree := NewComposite(CombineList, NewMeasurement(obs("a")), NewMeasurement(obs("b")))
	got, err := Evaluate(tree, b)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-12)
}

func TestEvaluateEmptyComposite(t *testing.T) {
	_, err := Evaluate(NewComposite(CombineSum), &fixedBackend{})
	assert.ErrorIs(t, err, ErrEmptyComposite)
}

func TestEvaluatePropagatesBackendError(t *testing.T) {
	sentinel := errors.New("sampler down")
	b := &fixedBackend{err: sentinel}
	tree := NewComposite(CombineSum, NewMeasurement(obs("a")))
	_, err := Evaluate(tree, b)
	assert.ErrorIs(t, err, sentinel)
}

func TestEvaluateEmptyDistribution(t *testing.T) {
	b := &fixedBackend{dists: map[string]cvar.Distribution{}}
	_, err := Evaluate(NewMeasurement(obs("a")), b)
	assert.ErrorIs(t, err, cvar.ErrEmptyDistribution)

	_, err = Evaluate(NewRisk(obs("a"), 0.5), b)
	assert.ErrorIs(t, err, cvar.ErrEmptyDistribution)
}

func TestEvaluateExactLeaf(t *testing.T) {
	b := &fixedBackend{dists: map[string]cvar.Distribution{
		"c": cvar.FromMap(map[float64]float64{-1: 0.25, 1: 0.75}),
	}}
	got, err := Evaluate(NewExact(obs("c")), b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)
}
