package config

import (
	"fmt"
	"strings"
)

// Validate checks high-impact runtime configuration constraints.
func (c Config) Validate() error {
	mode := strings.ToLower(strings.TrimSpace(c.Mode))
	if mode != "" && mode != "sampling" && mode != "exact" {
		return fmt.Errorf("mode must be 'sampling' or 'exact', got %q", c.Mode)
	}

	if c.Estimator.Alpha <= 0 || c.Estimator.Alpha > 1 {
		return fmt.Errorf("estimator.alpha must be within (0,1], got %f", c.Estimator.Alpha)
	}

	if c.Sampler.Shots <= 0 {
		return fmt.Errorf("sampler.shots must be > 0, got %d", c.Sampler.Shots)
	}

	method := strings.ToLower(strings.TrimSpace(c.Optimizer.Method))
	if method != "" && method != "spsa" && method != "nelder-mead" {
		return fmt.Errorf("optimizer.method must be 'spsa' or 'nelder-mead', got %q", c.Optimizer.Method)
	}
	if c.Optimizer.MaxIter <= 0 {
		return fmt.Errorf("optimizer.max_iter must be > 0, got %d", c.Optimizer.MaxIter)
	}
	if c.Optimizer.StepScale < 0 {
		return fmt.Errorf("optimizer.step_scale must be >= 0, got %f", c.Optimizer.StepScale)
	}
	if c.Optimizer.PerturbScale < 0 {
		return fmt.Errorf("optimizer.perturb_scale must be >= 0, got %f", c.Optimizer.PerturbScale)
	}

	if c.Webhook.Enabled && strings.TrimSpace(c.Webhook.URL) == "" {
		return fmt.Errorf("webhook.url must be set when webhook.enabled is true")
	}

	return nil
}
