package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ProblemFile string `yaml:"problem_file"`

	Mode              string        `yaml:"mode"` // sampling | exact
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	LogLevel          string        `yaml:"log_level"`
	LogPretty         bool          `yaml:"log_pretty"`

	Estimator EstimatorConfig `yaml:"estimator"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	API       APIConfig       `yaml:"api"`
}

type EstimatorConfig struct {
	Alpha float64 `yaml:"alpha"`
}

type SamplerConfig struct {
	Shots int    `yaml:"shots"`
	Seed  uint64 `yaml:"seed"`
}

type OptimizerConfig struct {
	Method       string  `yaml:"method"` // spsa | nelder-mead
	MaxIter      int     `yaml:"max_iter"`
	StepScale    float64 `yaml:"step_scale"`
	PerturbScale float64 `yaml:"perturb_scale"`
	Seed         uint64  `yaml:"seed"`
}

type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Mode:              "sampling",
		HeartbeatInterval: 30 * time.Second,
		LogLevel:          "info",
		LogPretty:         true,
		Estimator: EstimatorConfig{
			Alpha: 0.25,
		},
		Sampler: SamplerConfig{
			Shots: 1024,
		},
		Optimizer: OptimizerConfig{
			Method:       "spsa",
			MaxIter:      200,
			StepScale:    0.2,
			PerturbScale: 0.1,
		},
		API: APIConfig{
			Addr: ":8080",
		},
	}
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("QVAR_PROBLEM")); v != "" {
		c.ProblemFile = v
	}
	if v := strings.TrimSpace(os.Getenv("QVAR_MODE")); v != "" {
		c.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("QVAR_ALPHA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Estimator.Alpha = f
		}
	}
	if v := os.Getenv("QVAR_SHOTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Sampler.Shots = n
		}
	}
	if v := os.Getenv("QVAR_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Sampler.Seed = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("QVAR_WEBHOOK_URL")); v != "" {
		c.Webhook.URL = v
		c.Webhook.Enabled = true
	}
	if v := strings.TrimSpace(os.Getenv("QVAR_LOG_LEVEL")); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}
