package config

import (
	"strings"
	"testing"
)

func TestValidateDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid default config, got %v", err)
	}
}

func TestValidateMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = "simulated"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	cfg.Mode = "Exact"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected case-insensitive mode, got %v", err)
	}
}

func TestValidateAlphaRange(t *testing.T) {
	for _, alpha := range []float64{0, -0.5, 1.1} {
		cfg := Default()
		cfg.Estimator.Alpha = alpha
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("expected error for alpha=%f", alpha)
		}
		if !strings.Contains(err.Error(), "alpha") {
			t.Fatalf("expected alpha in error, got %v", err)
		}
	}

	cfg := Default()
	cfg.Estimator.Alpha = 1.0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("alpha=1 must be valid, got %v", err)
	}
}

func TestValidateShots(t *testing.T) {
	cfg := Default()
	cfg.Sampler.Shots = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero shots")
	}
}

func TestValidateOptimizer(t *testing.T) {
	cfg := Default()
	cfg.Optimizer.Method = "gradient-descent"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown optimizer method")
	}

	cfg = Default()
	cfg.Optimizer.MaxIter = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero max_iter")
	}

	cfg = Default()
	cfg.Optimizer.StepScale = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative step_scale")
	}
}

func TestValidateWebhook(t *testing.T) {
	cfg := Default()
	cfg.Webhook.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled webhook without url")
	}
	cfg.Webhook.URL = "http://localhost:9000/hook"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid webhook config, got %v", err)
	}
}
