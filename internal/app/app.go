package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/qbitworks/qvar-estimator/internal/config"
	"github.com/qbitworks/qvar-estimator/internal/convert"
	"github.com/qbitworks/qvar-estimator/internal/expr"
	"github.com/qbitworks/qvar-estimator/internal/notify"
	"github.com/qbitworks/qvar-estimator/internal/observable"
	"github.com/qbitworks/qvar-estimator/internal/optimize"
	"github.com/qbitworks/qvar-estimator/internal/run"
	"github.com/qbitworks/qvar-estimator/internal/sim"
)

// Notifier defines the alert methods used by the optimization app.
type Notifier interface {
	NotifyRunComplete(ctx context.Context, problem string, alpha, objective float64, iterations int) error
	NotifyConverged(ctx context.Context, problem string, alpha, objective float64, iterations int) error
}

// App wires the observable, converter, sampler, optimizer, and tracker into
// one optimization run over the risk-adjusted objective.
type App struct {
	cfg      config.Config
	log      zerolog.Logger
	obs      *observable.Diagonal
	tree     *expr.Node
	circuit  *sim.Circuit
	sampler  *sim.Sampler
	tracker  *run.Tracker
	notifier Notifier

	mu      sync.RWMutex
	running bool
	result  *optimize.Result
}

// New builds the app for the configured mode. Sampling mode rewrites the
// base expectation tree into a CVaR tree; exact mode evaluates the plain
// expectation on the closed-form path (a CVaR tree over that path is
// rejected at converter construction, so there is nothing to rewrite).
func New(cfg config.Config, obs *observable.Diagonal, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := obs.Validate(); err != nil {
		return nil, fmt.Errorf("observable: %w", err)
	}

	var tree *expr.Node
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	switch mode {
	case "", "sampling":
		conv, err := convert.NewCVaR(cfg.Estimator.Alpha, convert.Pauli{})
		if err != nil {
			return nil, err
		}
		tree, err = conv.Convert(obs)
		if err != nil {
			return nil, err
		}
	case "exact":
		var err error
		tree, err = convert.Snapshot{}.Convert(obs)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	circuit, err := sim.NewCircuit(obs.NumQubits)
	if err != nil {
		return nil, err
	}

	var notifier Notifier
	if cfg.Webhook.Enabled {
		notifier = notify.NewNotifier(cfg.Webhook.URL)
	}

	return &App{
		cfg:     cfg,
		log:     log.With().Str("component", "app").Logger(),
		obs:     obs,
		tree:    tree,
		circuit: circuit,
		sampler: sim.NewSampler(sim.Config{
			Shots: cfg.Sampler.Shots,
			Seed:  cfg.Sampler.Seed,
		}),
		tracker:  run.NewTracker(),
		notifier: notifier,
	}, nil
}

// Objective evaluates the expectation tree at a parameter vector, recording
// every evaluation in the tracker.
func (a *App) Objective() optimize.Objective {
	return func(params []float64) (float64, error) {
		circ, err := a.circuit.WithAngles(params)
		if err != nil {
			return 0, err
		}
		v, err := expr.Evaluate(a.tree, a.sampler.Bind(circ))
		if err != nil {
			return 0, err
		}
		a.tracker.Record(params, v, a.cfg.Estimator.Alpha, a.cfg.Sampler.Shots)
		return v, nil
	}
}

// Run executes one optimization to completion (or context cancellation).
func (a *App) Run(ctx context.Context) error {
	a.setRunning(true)
	defer a.setRunning(false)

	a.log.Info().
		Str("problem", a.obs.Name).
		Str("mode", a.cfg.Mode).
		Float64("alpha", a.cfg.Estimator.Alpha).
		Int("shots", a.cfg.Sampler.Shots).
		Str("optimizer", a.cfg.Optimizer.Method).
		Msg("starting optimization")

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go a.heartbeat(hbCtx)

	init := make([]float64, a.obs.NumQubits)
	for i := range init {
		init[i] = 0.1 // break the symmetry of the all-zeros state
	}

	var (
		res optimize.Result
		err error
	)
	switch strings.ToLower(strings.TrimSpace(a.cfg.Optimizer.Method)) {
	case "nelder-mead":
		res, err = optimize.NelderMead(a.Objective(), init, a.cfg.Optimizer.MaxIter)
	default:
		res, err = optimize.SPSA(ctx, optimize.SPSAConfig{
			MaxIter: a.cfg.Optimizer.MaxIter,
			A:       a.cfg.Optimizer.StepScale,
			C:       a.cfg.Optimizer.PerturbScale,
			Seed:    a.cfg.Optimizer.Seed,
		}, a.Objective(), init)
	}
	if err != nil {
		return fmt.Errorf("optimization: %w", err)
	}

	a.mu.Lock()
	a.result = &res
	a.mu.Unlock()

	a.log.Info().
		Float64("objective", res.Objective).
		Int("iterations", res.Iterations).
		Bool("converged", res.Converged).
		Int("evaluations", a.tracker.Count()).
		Msg("optimization finished")

	if a.notifier != nil {
		nctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if nerr := a.notifier.NotifyRunComplete(nctx, a.obs.Name, a.cfg.Estimator.Alpha, res.Objective, res.Iterations); nerr != nil {
			a.log.Warn().Err(nerr).Msg("webhook notification failed")
		}
		if res.Converged {
			if nerr := a.notifier.NotifyConverged(nctx, a.obs.Name, a.cfg.Estimator.Alpha, res.Objective, res.Iterations); nerr != nil {
				a.log.Warn().Err(nerr).Msg("webhook notification failed")
			}
		}
	}
	return nil
}

func (a *App) heartbeat(ctx context.Context) {
	interval := a.cfg.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := a.sampler.Snapshot()
			ev := a.log.Info().
				Int("evaluations", a.tracker.Count()).
				Int("runs", snap.TotalRuns).
				Int64("shots", snap.TotalShots)
			if best, ok := a.tracker.Best(); ok {
				ev = ev.Float64("best", best.Objective)
			}
			ev.Msg("heartbeat")
		}
	}
}

func (a *App) setRunning(v bool) {
	a.mu.Lock()
	a.running = v
	a.mu.Unlock()
}

// IsRunning reports whether an optimization is in flight.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Mode returns the evaluation mode.
func (a *App) Mode() string { return a.cfg.Mode }

// Alpha returns the configured quantile.
func (a *App) Alpha() float64 { return a.cfg.Estimator.Alpha }

// ProblemName returns the observable's name.
func (a *App) ProblemName() string { return a.obs.Name }

// Problem returns the observable being minimized.
func (a *App) Problem() *observable.Diagonal { return a.obs }

// BestEvaluation returns the lowest objective recorded so far.
func (a *App) BestEvaluation() (run.Evaluation, bool) { return a.tracker.Best() }

// RecentEvaluations returns the last N evaluations, most recent first.
func (a *App) RecentEvaluations(limit int) []run.Evaluation { return a.tracker.Recent(limit) }

// SamplerSnapshot returns accumulated sampler counters.
func (a *App) SamplerSnapshot() sim.Snapshot { return a.sampler.Snapshot() }

// Result returns the finished optimization result (false while running or
// before the first run).
func (a *App) Result() (optimize.Result, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.result == nil {
		return optimize.Result{}, false
	}
	return *a.result, true
}

// Stats summarizes convergence over the recorded evaluation history.
func (a *App) Stats() ConvergenceStats {
	return computeStats(a.tracker)
}
