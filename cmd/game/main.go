package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tatianab/aeterna/internal/config"
	"github.com/tatianab/aeterna/internal/engine"
	"github.com/tatianab/aeterna/internal/game"
	"github.com/tatianab/aeterna/internal/imagecache"
	"github.com/tatianab/aeterna/internal/logger"
	"github.com/tatianab/aeterna/internal/scenario"
	"github.com/tatianab/aeterna/internal/telemetry"
	"github.com/tatianab/aeterna/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log := logger.Setup(cfg, logFile)

	shutdown, err := telemetry.Setup(ctx, "aeterna", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.WithError(log, err).Warn("Failed to flush traces")
		}
	}()

	scn, err := loadScenario(cfg.ScenarioFile)
	if err != nil {
		return err
	}

	opts := engine.Options{
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		Scenario:   scn,
		Logger:     log,
	}
	if cfg.RedisURL != "" {
		cache, err := connectCache(ctx, cfg, log)
		if err != nil {
			// The game is playable without the cache.
			logger.WithError(log, err).Warn("Scene image cache disabled")
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}

	eng, err := engine.NewEngine(ctx, opts)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer eng.Close()

	orch := game.NewOrchestrator(eng, game.Messages(scn.Messages), log)
	defer orch.Wait()

	log.Info("Starting Aeterna", "text_model", cfg.TextModel, "image_model", cfg.ImageModel, "scenario", scn.ShortName)
	if err := tui.Run(ctx, orch, scn.Title); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Default()
	}
	scn, err := scenario.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", path, err)
	}
	return scn, nil
}

func connectCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (*imagecache.RedisCache, error) {
	cache, err := imagecache.NewRedisCache(cfg.RedisURL, cfg.ImageCacheTTL, log)
	if err != nil {
		return nil, err
	}
	if err := cache.WaitForConnection(ctx, 5, time.Second); err != nil {
		cache.Close()
		return nil, err
	}
	return cache, nil
}
