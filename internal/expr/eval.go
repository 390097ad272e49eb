package expr

import (
	"errors"

	"github.com/qbitworks/qvar-estimator/internal/cvar"
	"github.com/qbitworks/qvar-estimator/internal/observable"
)

// ErrEmptyComposite is returned when a composite with no children is
// evaluated.
var ErrEmptyComposite = errors.New("cannot evaluate empty composite")

// Backend supplies outcome distributions for leaves at evaluation time.
// Sample is shot-based; Exact is the closed-form simulator path used by
// non-measurement leaves.
type Backend interface {
	Sample(obs *observable.Diagonal) (cvar.Distribution, error)
	Exact(obs *observable.Diagonal) (cvar.Distribution, error)
}

// Evaluate reduces the tree to a scalar. Measurement leaves report the
// weighted mean of their sampled distribution, or its CVaR when the leaf
// carries a quantile. Sum composites add children, tensor composites
// multiply them, list composites average them.
func Evaluate(n *Node, b Backend) (float64, error) {
	switch n.Kind {
	case KindComposite:
		if len(n.Children) == 0 {
			return 0, ErrEmptyComposite
		}
		var acc float64
		if n.Rule == CombineTensor {
			acc = 1
		}
		for _, c := range n.Children {
			v, err := Evaluate(c, b)
			if err != nil {
				return 0, err
			}
			switch n.Rule {
			case CombineTensor:
				acc *= v
			default:
				acc += v
			}
		}
		if n.Rule == CombineList {
			acc /= float64(len(n.Children))
		}
		return acc, nil

	default:
		if !n.Measure {
			d, err := b.Exact(n.Obs)
			if err != nil {
				return 0, err
			}
			if len(d) == 0 {
				return 0, cvar.ErrEmptyDistribution
			}
			return d.Mean(), nil
		}
		d, err := b.Sample(n.Obs)
		if err != nil {
			return 0, err
		}
		if n.Alpha > 0 {
			return cvar.Estimate(d, n.Alpha)
		}
		if len(d) == 0 {
			return 0, cvar.ErrEmptyDistribution
		}
		return d.Mean(), nil
	}
}
