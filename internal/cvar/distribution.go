package cvar

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Outcome is a single observed eigenvalue with its probability mass.
type Outcome struct {
	Value float64
	Prob  float64
}

// Distribution is a sampled outcome distribution over diagonal eigenvalues.
// Outcomes need not be unique or ordered; Aggregate produces the canonical
// merged, ascending form the estimator operates on.
type Distribution []Outcome

// FromMap builds a Distribution from an eigenvalue → mass mapping.
func FromMap(m map[float64]float64) Distribution {
	d := make(Distribution, 0, len(m))
	for v, p := range m {
		d = append(d, Outcome{Value: v, Prob: p})
	}
	sort.Slice(d, func(i, j int) bool { return d[i].Value < d[j].Value })
	return d
}

// Aggregate merges duplicate outcome values (summing their masses) and
// returns a new Distribution sorted ascending by value. The receiver is
// never modified.
func (d Distribution) Aggregate() Distribution {
	merged := make(map[float64]float64, len(d))
	for _, o := range d {
		merged[o.Value] += o.Prob
	}
	return FromMap(merged)
}

// TotalMass returns the sum of probability masses.
func (d Distribution) TotalMass() float64 {
	var total float64
	for _, o := range d {
		total += o.Prob
	}
	return total
}

// Mean returns the probability-weighted mean of the distribution.
func (d Distribution) Mean() float64 {
	if len(d) == 0 {
		return 0
	}
	values := make([]float64, len(d))
	weights := make([]float64, len(d))
	for i, o := range d {
		values[i] = o.Value
		weights[i] = o.Prob
	}
	return stat.Mean(values, weights)
}

// Min returns the smallest outcome value (0 for an empty distribution).
func (d Distribution) Min() float64 {
	if len(d) == 0 {
		return 0
	}
	min := d[0].Value
	for _, o := range d[1:] {
		if o.Value < min {
			min = o.Value
		}
	}
	return min
}
