package config

import "testing"

func TestApplyProfileEmpty(t *testing.T) {
	cfg := Default()
	if err := ApplyProfile(&cfg, ""); err != nil {
		t.Fatalf("empty profile must be a no-op, got %v", err)
	}
	if cfg.Mode != "sampling" {
		t.Fatalf("expected unchanged config, got mode %q", cfg.Mode)
	}
}

func TestApplyProfileExact(t *testing.T) {
	cfg := Default()
	if err := ApplyProfile(&cfg, "exact"); err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "exact" || cfg.Optimizer.Method != "nelder-mead" {
		t.Fatalf("unexpected exact profile result: %+v", cfg)
	}
}

func TestApplyProfileAggressive(t *testing.T) {
	cfg := Default()
	cfg.Estimator.Alpha = 0.5
	cfg.Sampler.Shots = 128
	cfg.Optimizer.MaxIter = 50

	if err := ApplyProfile(&cfg, "aggressive"); err != nil {
		t.Fatal(err)
	}
	if cfg.Estimator.Alpha != 0.05 {
		t.Fatalf("expected alpha clamped to 0.05, got %f", cfg.Estimator.Alpha)
	}
	if cfg.Sampler.Shots != 4096 {
		t.Fatalf("expected shots raised to 4096, got %d", cfg.Sampler.Shots)
	}
	if cfg.Optimizer.MaxIter != 400 {
		t.Fatalf("expected max_iter raised to 400, got %d", cfg.Optimizer.MaxIter)
	}
}

func TestApplyProfileAggressiveKeepsTighterAlpha(t *testing.T) {
	cfg := Default()
	cfg.Estimator.Alpha = 0.01
	if err := ApplyProfile(&cfg, "aggressive"); err != nil {
		t.Fatal(err)
	}
	if cfg.Estimator.Alpha != 0.01 {
		t.Fatalf("expected tighter alpha preserved, got %f", cfg.Estimator.Alpha)
	}
}

func TestApplyProfileMean(t *testing.T) {
	cfg := Default()
	if err := ApplyProfile(&cfg, "mean"); err != nil {
		t.Fatal(err)
	}
	if cfg.Estimator.Alpha != 1.0 {
		t.Fatalf("expected alpha 1.0, got %f", cfg.Estimator.Alpha)
	}

	cfg = Default()
	if err := ApplyProfile(&cfg, "expectation"); err != nil {
		t.Fatalf("expected 'expectation' alias accepted, got %v", err)
	}
}

func TestApplyProfileUnknown(t *testing.T) {
	cfg := Default()
	if err := ApplyProfile(&cfg, "turbo"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
