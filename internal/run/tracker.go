package run

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Evaluation is one objective evaluation of the rewritten expectation tree
// at a concrete parameter vector.
type Evaluation struct {
	ID        string
	Params    []float64
	Objective float64
	Alpha     float64
	Shots     int
	Timestamp time.Time
}

// Tracker records evaluation history and the best observed objective.
type Tracker struct {
	mu    sync.RWMutex
	evals []Evaluation
	best  *Evaluation

	// OnEval, when set, is called for every recorded evaluation.
	OnEval func(Evaluation)
}

// NewTracker creates a Tracker ready to use.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record stores an evaluation and returns it with its assigned id.
func (t *Tracker) Record(params []float64, objective, alpha float64, shots int) Evaluation {
	cp := make([]float64, len(params))
	copy(cp, params)
	ev := Evaluation{
		ID:        uuid.NewString(),
		Params:    cp,
		Objective: objective,
		Alpha:     alpha,
		Shots:     shots,
		Timestamp: time.Now().UTC(),
	}

	t.mu.Lock()
	t.evals = append(t.evals, ev)
	if t.best == nil || ev.Objective < t.best.Objective {
		b := ev
		t.best = &b
	}
	cb := t.OnEval
	t.mu.Unlock()

	if cb != nil {
		cb(ev)
	}
	return ev
}

// Count returns the number of recorded evaluations.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.evals)
}

// Best returns the lowest-objective evaluation seen so far (false if none).
func (t *Tracker) Best() (Evaluation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.best == nil {
		return Evaluation{}, false
	}
	return *t.best, true
}

// Recent returns the last N evaluations (most recent first).
func (t *Tracker) Recent(limit int) []Evaluation {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := len(t.evals)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Evaluation, limit)
	for i := 0; i < limit; i++ {
		out[i] = t.evals[n-1-i]
	}
	return out
}

// Reset clears all history.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evals = nil
	t.best = nil
}
