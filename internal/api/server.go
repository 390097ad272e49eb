package api

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/qbitworks/qvar-estimator/internal/app"
	"github.com/qbitworks/qvar-estimator/internal/cvar"
	"github.com/qbitworks/qvar-estimator/internal/observable"
	"github.com/qbitworks/qvar-estimator/internal/optimize"
	"github.com/qbitworks/qvar-estimator/internal/run"
	"github.com/qbitworks/qvar-estimator/internal/sim"
)

// AppState exposes the optimization app's state for the API layer.
type AppState interface {
	IsRunning() bool
	Mode() string
	Alpha() float64
	ProblemName() string
	Problem() *observable.Diagonal
	BestEvaluation() (run.Evaluation, bool)
	RecentEvaluations(limit int) []run.Evaluation
	SamplerSnapshot() sim.Snapshot
	Result() (optimize.Result, bool)
	Stats() app.ConvergenceStats
}

// Server is a lightweight HTTP API for inspecting an optimization run.
type Server struct {
	httpServer *http.Server
	appState   AppState
	startedAt  time.Time
}

// NewServer creates a new API server bound to addr.
func NewServer(addr string, appState AppState) *Server {
	s := &Server{
		appState:  appState,
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/best", s.handleBest)
	mux.HandleFunc("/api/problem", s.handleProblem)
	mux.HandleFunc("/api/estimate", s.handleEstimate)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	log.Printf("api server listening on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("api server: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GET /api/health — liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"ok":       true,
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

// GET /api/status — overall run status.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.appState.SamplerSnapshot()
	stats := s.appState.Stats()
	resp := map[string]interface{}{
		"running":     s.appState.IsRunning(),
		"mode":        s.appState.Mode(),
		"alpha":       s.appState.Alpha(),
		"problem":     s.appState.ProblemName(),
		"uptime_s":    time.Since(s.startedAt).Seconds(),
		"evaluations": stats.Evaluations,
		"sampler": map[string]interface{}{
			"shots":       snap.Shots,
			"total_runs":  snap.TotalRuns,
			"total_shots": snap.TotalShots,
		},
	}
	if res, ok := s.appState.Result(); ok {
		resp["result"] = map[string]interface{}{
			"objective":  res.Objective,
			"iterations": res.Iterations,
			"converged":  res.Converged,
		}
	}
	s.writeJSON(w, resp)
}

// GET /api/runs?limit=50 — recent objective evaluations, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	evals := s.appState.RecentEvaluations(limit)
	type evalEntry struct {
		ID        string    `json:"id"`
		Objective float64   `json:"objective"`
		Alpha     float64   `json:"alpha"`
		Shots     int       `json:"shots"`
		Timestamp time.Time `json:"timestamp"`
	}
	entries := make([]evalEntry, len(evals))
	for i, e := range evals {
		entries[i] = evalEntry{
			ID:        e.ID,
			Objective: e.Objective,
			Alpha:     e.Alpha,
			Shots:     e.Shots,
			Timestamp: e.Timestamp,
		}
	}
	s.writeJSON(w, map[string]interface{}{"runs": entries, "count": len(entries)})
}

// GET /api/best — lowest objective seen so far, with its parameters.
func (s *Server) handleBest(w http.ResponseWriter, _ *http.Request) {
	best, ok := s.appState.BestEvaluation()
	if !ok {
		s.writeJSON(w, map[string]interface{}{"found": false})
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"found":     true,
		"objective": best.Objective,
		"params":    best.Params,
		"alpha":     best.Alpha,
		"shots":     best.Shots,
		"timestamp": best.Timestamp,
	})
}

// GET /api/problem — the observable being minimized.
func (s *Server) handleProblem(w http.ResponseWriter, _ *http.Request) {
	obs := s.appState.Problem()
	s.writeJSON(w, map[string]interface{}{
		"name":       obs.Name,
		"num_qubits": obs.NumQubits,
		"constant":   obs.Constant,
		"terms":      len(obs.Terms),
	})
}

// POST /api/estimate — compute the tail expectation of a supplied
// distribution at a quantile, without touching the running optimization.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Alpha    float64 `json:"alpha"`
		Outcomes []struct {
			Value float64 `json:"value"`
			Prob  float64 `json:"prob"`
		} `json:"outcomes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	dist := make(cvar.Distribution, len(req.Outcomes))
	for i, o := range req.Outcomes {
		dist[i] = cvar.Outcome{Value: o.Value, Prob: o.Prob}
	}
	value, err := cvar.Estimate(dist, req.Alpha)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"alpha": req.Alpha,
		"value": value,
	})
}
