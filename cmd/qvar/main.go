package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/qbitworks/qvar-estimator/internal/api"
	"github.com/qbitworks/qvar-estimator/internal/app"
	"github.com/qbitworks/qvar-estimator/internal/config"
	"github.com/qbitworks/qvar-estimator/internal/logging"
	"github.com/qbitworks/qvar-estimator/internal/observable"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	profile := flag.String("profile", "", "config preset: exact|sampling|aggressive|mean")
	modeOverride := flag.String("mode", "", "override evaluation mode: sampling|exact")
	problemOverride := flag.String("problem", "", "override problem file path")
	flag.Parse()

	cfg, err := config.LoadFile(*cfgPath)
	if err != nil {
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if v := strings.ToLower(strings.TrimSpace(*modeOverride)); v != "" {
		cfg.Mode = v
	}
	if v := strings.TrimSpace(*problemOverride); v != "" {
		cfg.ProblemFile = v
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err != nil {
		logger.Warn().Err(err).Str("path", *cfgPath).Msg("config file not loaded, using defaults")
	}

	if err := config.ApplyProfile(&cfg, *profile); err != nil {
		logger.Fatal().Err(err).Msg("invalid -profile")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	obs, err := observable.LoadFile(cfg.ProblemFile)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ProblemFile).Msg("failed to load problem")
	}

	logger.Info().
		Str("problem", obs.Name).
		Str("mode", cfg.Mode).
		Str("profile", strings.TrimSpace(*profile)).
		Float64("alpha", cfg.Estimator.Alpha).
		Int("shots", cfg.Sampler.Shots).
		Str("optimizer", cfg.Optimizer.Method).
		Msg("qvar starting")

	a, err := app.New(cfg, obs, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build app")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfg.API.Addr, a)
		if err := apiServer.Start(ctx); err != nil {
			logger.Warn().Err(err).Msg("api server failed to start")
		}
	}

	go func() {
		<-sigCh
		logger.Info().Msg("shutdown signal received")
		cancel()
	}()

	if err := a.Run(ctx); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("run error")
	}

	if apiServer != nil {
		_ = apiServer.Shutdown(context.Background())
	}
}
