// Package convert builds evaluable expectation trees from diagonal
// observables. The CVaR converter wraps a base converter and swaps every
// terminal measurement leaf for a risk-adjusted one, leaving the rest of the
// tree intact.
package convert

import (
	"errors"
	"fmt"

	"github.com/qbitworks/qvar-estimator/internal/cvar"
	"github.com/qbitworks/qvar-estimator/internal/expr"
	"github.com/qbitworks/qvar-estimator/internal/observable"
)

var (
	// ErrIncompatibleConverter is returned at construction when the base
	// converter evaluates through the closed-form simulator path, which
	// cannot feed a sample-based quantile estimator.
	ErrIncompatibleConverter = errors.New("base converter incompatible with sample-based estimation")

	// ErrVarianceNotImplemented is returned for every variance request on a
	// CVaR-converted tree. The quantile estimator has no developed variance.
	ErrVarianceNotImplemented = errors.New("variance not implemented for CVaR expectation")
)

// Converter turns a diagonal observable into an expectation expression tree.
type Converter interface {
	Convert(obs *observable.Diagonal) (*expr.Node, error)

	// SampleCompatible reports whether the converter's trees evaluate from
	// sampled outcome distributions rather than closed-form simulation.
	SampleCompatible() bool
}

// Pauli is the default sampling converter: it groups the observable's terms
// by locality and emits one measurement leaf per group under a sum.
type Pauli struct{}

func (Pauli) Convert(obs *observable.Diagonal) (*expr.Node, error) {
	if err := obs.Validate(); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	groups := obs.GroupByLocality()
	if len(groups) == 1 {
		return expr.NewMeasurement(groups[0]), nil
	}
	leaves := make([]*expr.Node, len(groups))
	for i, g := range groups {
		leaves[i] = expr.NewMeasurement(g)
	}
	return expr.NewComposite(expr.CombineSum, leaves...), nil
}

func (Pauli) SampleCompatible() bool { return true }

// Snapshot builds trees whose leaves read exact expectations off the
// simulator state. No sampling is involved, so it cannot back a quantile
// estimator.
type Snapshot struct{}

func (Snapshot) Convert(obs *observable.Diagonal) (*expr.Node, error) {
	if err := obs.Validate(); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return expr.NewExact(obs), nil
}

func (Snapshot) SampleCompatible() bool { return false }

// CVaR converts observables into trees whose evaluation yields the
// Conditional Value at Risk of the outcome distribution instead of the full
// expectation.
type CVaR struct {
	alpha float64
	base  Converter
}

// NewCVaR validates alpha and the base converter's sampling capability.
// A nil base defaults to the Pauli converter.
func NewCVaR(alpha float64, base Converter) (*CVaR, error) {
	if _, err := cvar.NewConfig(alpha); err != nil {
		return nil, err
	}
	if base == nil {
		base = Pauli{}
	}
	if !base.SampleCompatible() {
		return nil, fmt.Errorf("%w: %T", ErrIncompatibleConverter, base)
	}
	return &CVaR{alpha: alpha, base: base}, nil
}

// Alpha returns the configured quantile.
func (c *CVaR) Alpha() float64 { return c.alpha }

// Convert delegates tree construction to the base converter, then replaces
// every measurement leaf with a risk-adjusted measurement carrying alpha.
func (c *CVaR) Convert(obs *observable.Diagonal) (*expr.Node, error) {
	tree, err := c.base.Convert(obs)
	if err != nil {
		return nil, err
	}
	return expr.Rewrite(tree, expr.IsMeasurement, func(n *expr.Node) *expr.Node {
		return expr.NewRisk(n.Obs, c.alpha)
	}), nil
}

func (c *CVaR) SampleCompatible() bool { return true }

// ComputeVariance always fails: the CVaR statistic's variance is undefined
// in this design and callers must not assume a usable result.
func (c *CVaR) ComputeVariance(_ *expr.Node) (float64, error) {
	return 0, ErrVarianceNotImplemented
}
