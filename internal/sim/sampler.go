package sim

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/qbitworks/qvar-estimator/internal/cvar"
	"github.com/qbitworks/qvar-estimator/internal/observable"
)

// Config controls the shot sampler.
type Config struct {
	Shots int    `yaml:"shots"`
	Seed  uint64 `yaml:"seed"` // 0 means derive from the clock
}

// Result describes one sampling run.
type Result struct {
	RunID    string
	Shots    int
	Outcomes int // distinct eigenvalues observed
	Elapsed  time.Duration
}

// Snapshot reports accumulated sampler activity.
type Snapshot struct {
	Shots      int    `json:"shots"`
	Seed       uint64 `json:"seed"`
	TotalRuns  int    `json:"total_runs"`
	TotalShots int64  `json:"total_shots"`
}

// Sampler executes circuits and turns measured bitstrings into outcome
// distributions over a diagonal observable's eigenvalues. A fixed seed makes
// the shot sequence reproducible; the zero seed picks one from the clock.
type Sampler struct {
	mu sync.Mutex

	cfg Config
	rng *rand.Rand

	totalRuns  int
	totalShots int64

	// OnRun, when set, is invoked after every sampling run.
	OnRun func(Result)
}

// NewSampler creates a Sampler ready to use.
func NewSampler(cfg Config) *Sampler {
	if cfg.Shots <= 0 {
		cfg.Shots = 1024
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return &Sampler{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Snapshot returns accumulated counters.
func (s *Sampler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Shots:      s.cfg.Shots,
		Seed:       s.cfg.Seed,
		TotalRuns:  s.totalRuns,
		TotalShots: s.totalShots,
	}
}

// Sample draws the configured number of shots from the circuit's bitstring
// distribution and aggregates them into an eigenvalue distribution.
func (s *Sampler) Sample(circ *Circuit, obs *observable.Diagonal) (cvar.Distribution, Result, error) {
	if circ.NumQubits != obs.NumQubits {
		return nil, Result{}, fmt.Errorf("circuit has %d qubits, observable expects %d", circ.NumQubits, obs.NumQubits)
	}

	start := time.Now()
	probs := circ.Probabilities()

	s.mu.Lock()
	cat := distuv.NewCategorical(probs, s.rng)
	counts := make(map[float64]int, len(probs))
	for i := 0; i < s.cfg.Shots; i++ {
		bs := uint64(cat.Rand())
		counts[obs.Eigenvalue(bs)]++
	}
	s.totalRuns++
	s.totalShots += int64(s.cfg.Shots)
	onRun := s.OnRun
	s.mu.Unlock()

	masses := make(map[float64]float64, len(counts))
	for eig, n := range counts {
		masses[eig] = float64(n) / float64(s.cfg.Shots)
	}
	res := Result{
		RunID:    uuid.NewString(),
		Shots:    s.cfg.Shots,
		Outcomes: len(masses),
		Elapsed:  time.Since(start),
	}
	if onRun != nil {
		onRun(res)
	}
	return cvar.FromMap(masses), res, nil
}

// Exact returns the closed-form eigenvalue distribution, used by snapshot
// expectation trees and as ground truth in tests.
func (s *Sampler) Exact(circ *Circuit, obs *observable.Diagonal) (cvar.Distribution, error) {
	if circ.NumQubits != obs.NumQubits {
		return nil, fmt.Errorf("circuit has %d qubits, observable expects %d", circ.NumQubits, obs.NumQubits)
	}
	masses := make(map[float64]float64)
	for bs, p := range circ.Probabilities() {
		if p == 0 {
			continue
		}
		masses[obs.Eigenvalue(uint64(bs))] += p
	}
	return cvar.FromMap(masses), nil
}

// Bind fixes a circuit so the sampler satisfies the expression tree's
// evaluation backend contract.
func (s *Sampler) Bind(circ *Circuit) *Bound {
	return &Bound{sampler: s, circ: circ}
}

// Bound is a Sampler bound to one circuit.
type Bound struct {
	sampler *Sampler
	circ    *Circuit
}

func (b *Bound) Sample(obs *observable.Diagonal) (cvar.Distribution, error) {
	d, _, err := b.sampler.Sample(b.circ, obs)
	return d, err
}

func (b *Bound) Exact(obs *observable.Diagonal) (cvar.Distribution, error) {
	return b.sampler.Exact(b.circ, obs)
}
