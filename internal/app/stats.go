package app

import "github.com/qbitworks/qvar-estimator/internal/run"

// ConvergenceStats summarizes how an optimization progressed.
type ConvergenceStats struct {
	Evaluations    int     `json:"evaluations"`
	FirstObjective float64 `json:"first_objective"`
	LastObjective  float64 `json:"last_objective"`
	BestObjective  float64 `json:"best_objective"`
	Improvement    float64 `json:"improvement"`
}

func computeStats(t *run.Tracker) ConvergenceStats {
	n := t.Count()
	if n == 0 {
		return ConvergenceStats{}
	}
	all := t.Recent(n) // most recent first
	stats := ConvergenceStats{
		Evaluations:    n,
		FirstObjective: all[len(all)-1].Objective,
		LastObjective:  all[0].Objective,
	}
	if best, ok := t.Best(); ok {
		stats.BestObjective = best.Objective
		stats.Improvement = stats.FirstObjective - best.Objective
	}
	return stats
}
