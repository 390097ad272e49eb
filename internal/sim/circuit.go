package sim

import (
	"fmt"
	"math"
)

// MaxQubits bounds the dense probability vector (2^n entries).
const MaxQubits = 20

// Circuit is a parameterized product-state ansatz: one RY rotation per
// qubit. Measurement probabilities in the computational basis factorize, so
// the full bitstring distribution is available in closed form. That is all a
// diagonal objective needs; entangling phase layers would not change Z-basis
// probabilities.
type Circuit struct {
	NumQubits int
	Angles    []float64 // rotation angle per qubit
}

// NewCircuit returns an all-zeros ansatz on n qubits.
func NewCircuit(n int) (*Circuit, error) {
	if n <= 0 || n > MaxQubits {
		return nil, fmt.Errorf("num qubits must be in [1,%d], got %d", MaxQubits, n)
	}
	return &Circuit{NumQubits: n, Angles: make([]float64, n)}, nil
}

// WithAngles returns a copy of the circuit with the given rotation angles.
func (c *Circuit) WithAngles(angles []float64) (*Circuit, error) {
	if len(angles) != c.NumQubits {
		return nil, fmt.Errorf("expected %d angles, got %d", c.NumQubits, len(angles))
	}
	cp := make([]float64, len(angles))
	copy(cp, angles)
	return &Circuit{NumQubits: c.NumQubits, Angles: cp}, nil
}

// BitProb returns the probability that qubit i measures 1.
func (c *Circuit) BitProb(i int) float64 {
	s := math.Sin(c.Angles[i] / 2)
	return s * s
}

// Probability returns the probability of measuring the given bitstring.
func (c *Circuit) Probability(bitstring uint64) float64 {
	if bitstring>>uint(c.NumQubits) != 0 {
		return 0
	}
	p := 1.0
	for i := 0; i < c.NumQubits; i++ {
		pi := c.BitProb(i)
		if bitstring&(1<<uint(i)) != 0 {
			p *= pi
		} else {
			p *= 1 - pi
		}
	}
	return p
}

// Probabilities returns the dense distribution over all 2^n bitstrings,
// indexed by bitstring value.
func (c *Circuit) Probabilities() []float64 {
	n := 1 << uint(c.NumQubits)
	probs := make([]float64, n)
	for bs := 0; bs < n; bs++ {
		probs[bs] = c.Probability(uint64(bs))
	}
	return probs
}
