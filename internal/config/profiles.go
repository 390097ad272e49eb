package config

import (
	"fmt"
	"strings"
)

// ApplyProfile applies a named estimation preset to the config.
// Supported profiles:
// - exact:      closed-form evaluation, Nelder-Mead optimizer
// - sampling:   shot-based evaluation with the configured values
// - aggressive: sampling with a tight quantile (chases the minimum)
// - mean:       sampling with alpha=1 (plain expectation baseline)
func ApplyProfile(cfg *Config, profile string) error {
	p := strings.ToLower(strings.TrimSpace(profile))
	if p == "" {
		return nil
	}

	switch p {
	case "exact":
		cfg.Mode = "exact"
		cfg.Optimizer.Method = "nelder-mead"
	case "sampling":
		cfg.Mode = "sampling"
		cfg.Optimizer.Method = "spsa"
	case "aggressive":
		cfg.Mode = "sampling"
		cfg.Optimizer.Method = "spsa"

		clampMaxFloat(&cfg.Estimator.Alpha, 0.05)
		clampMinInt(&cfg.Sampler.Shots, 4096)
		clampMinInt(&cfg.Optimizer.MaxIter, 400)
	case "mean", "expectation":
		cfg.Mode = "sampling"
		cfg.Optimizer.Method = "spsa"
		cfg.Estimator.Alpha = 1.0
	default:
		return fmt.Errorf("unknown profile %q (supported: exact|sampling|aggressive|mean)", profile)
	}

	return nil
}

func clampMaxFloat(v *float64, max float64) {
	if max <= 0 {
		return
	}
	if *v <= 0 || *v > max {
		*v = max
	}
}

func clampMinInt(v *int, min int) {
	if min <= 0 {
		return
	}
	if *v < min {
		*v = min
	}
}
