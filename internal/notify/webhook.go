package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Event is the JSON payload posted to the webhook.
type Event struct {
	Type       string    `json:"type"` // run_complete | converged
	Problem    string    `json:"problem"`
	Alpha      float64   `json:"alpha"`
	Objective  float64   `json:"objective"`
	Iterations int       `json:"iterations"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notifier posts optimization lifecycle events to a webhook endpoint.
type Notifier struct {
	url        string
	httpClient *http.Client
	enabled    bool
}

// NewNotifier creates a Notifier. Notifications are enabled only when url is
// non-empty.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		enabled:    url != "",
	}
}

// Enabled reports whether the notifier is active.
func (n *Notifier) Enabled() bool { return n.enabled }

// Send posts an event to the configured webhook.
func (n *Notifier) Send(ctx context.Context, ev Event) error {
	if !n.enabled {
		return nil
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: encode event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: webhook %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// NotifyRunComplete reports a finished optimization run.
func (n *Notifier) NotifyRunComplete(ctx context.Context, problem string, alpha, objective float64, iterations int) error {
	return n.Send(ctx, Event{
		Type:       "run_complete",
		Problem:    problem,
		Alpha:      alpha,
		Objective:  objective,
		Iterations: iterations,
	})
}

// NotifyConverged reports that the optimizer met its convergence criteria.
func (n *Notifier) NotifyConverged(ctx context.Context, problem string, alpha, objective float64, iterations int) error {
	return n.Send(ctx, Event{
		Type:       "converged",
		Problem:    problem,
		Alpha:      alpha,
		Objective:  objective,
		Iterations: iterations,
	})
}
