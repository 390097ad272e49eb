// Package optimize minimizes the risk-adjusted objective over ansatz
// parameters. Nelder-Mead (gonum) serves exact-mode runs; SPSA handles
// shot-noisy objectives where simplex methods stall on sampling noise.
package optimize

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	gopt "gonum.org/v1/gonum/optimize"
)

// Objective evaluates the cost at a parameter vector.
type Objective func(params []float64) (float64, error)

// Result is the outcome of a minimization run.
type Result struct {
	Params     []float64
	Objective  float64
	Iterations int
	Converged  bool
}

// NelderMead minimizes obj from init using gonum's Nelder-Mead simplex.
// Intended for exact-mode (noise-free) objectives.
func NelderMead(obj Objective, init []float64, maxIter int) (Result, error) {
	if len(init) == 0 {
		return Result{}, fmt.Errorf("optimize: empty initial parameter vector")
	}
	if maxIter <= 0 {
		maxIter = 200
	}

	var objErr error
	problem := gopt.Problem{
		Func: func(x []float64) float64 {
			v, err := obj(x)
			if err != nil {
				if objErr == nil {
					objErr = err
				}
				return math.Inf(1)
			}
			return v
		},
	}
	settings := &gopt.Settings{MajorIterations: maxIter}
	res, err := gopt.Minimize(problem, init, settings, &gopt.NelderMead{})
	if objErr != nil {
		return Result{}, objErr
	}
	if err != nil {
		return Result{}, fmt.Errorf("optimize: nelder-mead: %w", err)
	}

	successStatuses := map[gopt.Status]bool{
		gopt.Success:             true,
		gopt.GradientThreshold:   true,
		gopt.FunctionConvergence: true,
		gopt.StepConvergence:     true,
	}
	converged := successStatuses[res.Status]
	return Result{
		Params:     res.X,
		Objective:  res.F,
		Iterations: res.MajorIterations,
		Converged:  converged,
	}, nil
}

// SPSAConfig tunes the simultaneous-perturbation gradient approximation.
// Zero values fall back to the standard gain schedule.
type SPSAConfig struct {
	MaxIter int     `yaml:"max_iter"`
	A       float64 `yaml:"a"` // step-size scale
	C       float64 `yaml:"c"` // perturbation scale
	Seed    uint64  `yaml:"seed"`
}

// SPSA minimizes obj with two objective evaluations per iteration,
// independent of dimension. The returned result carries the best parameters
// observed, not the final iterate, since the trajectory itself is noisy.
func SPSA(ctx context.Context, cfg SPSAConfig, obj Objective, init []float64) (Result, error) {
	if len(init) == 0 {
		return Result{}, fmt.Errorf("optimize: empty initial parameter vector")
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 200
	}
	if cfg.A <= 0 {
		cfg.A = 0.2
	}
	if cfg.C <= 0 {
		cfg.C = 0.1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewPCG(seed, seed<<1|1))

	const (
		alpha     = 0.602
		gamma     = 0.101
		stability = 0.1
	)
	offset := stability * float64(cfg.MaxIter)

	x := make([]float64, len(init))
	copy(x, init)

	best := Result{Params: append([]float64(nil), x...), Objective: math.Inf(1)}
	plus := make([]float64, len(x))
	minus := make([]float64, len(x))
	delta := make([]float64, len(x))

	for k := 0; k < cfg.MaxIter; k++ {
		select {
		case <-ctx.Done():
			if math.IsInf(best.Objective, 1) {
				return Result{}, ctx.Err()
			}
			best.Iterations = k
			return best, nil
		default:
		}

		ak := cfg.A / math.Pow(float64(k)+1+offset, alpha)
		ck := cfg.C / math.Pow(float64(k)+1, gamma)

		for i := range x {
			if rng.IntN(2) == 0 {
				delta[i] = 1
			} else {
				delta[i] = -1
			}
			plus[i] = x[i] + ck*delta[i]
			minus[i] = x[i] - ck*delta[i]
		}

		fPlus, err := obj(plus)
		if err != nil {
			return Result{}, err
		}
		fMinus, err := obj(minus)
		if err != nil {
			return Result{}, err
		}

		grad := (fPlus - fMinus) / (2 * ck)
		for i := range x {
			x[i] -= ak * grad / delta[i]
		}

		if fPlus < best.Objective {
			best.Objective = fPlus
			copy(best.Params, plus)
		}
		if fMinus < best.Objective {
			best.Objective = fMinus
			copy(best.Params, minus)
		}
	}

	best.Iterations = cfg.MaxIter
	best.Converged = true
	return best, nil
}
