package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/squares/internal/config"
	"github.com/lox/squares/internal/pool"
	"github.com/lox/squares/internal/randutil"
)

// loadConfig reads the config file and applies flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	if g.Debug {
		cfg.Server.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger returns a logger at the configured level writing to w
func setupLogger(w io.Writer, cfg *config.Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// tuiLogger keeps log output off the screen the TUI owns. With no file
// configured everything is discarded.
func tuiLogger(path string, cfg *config.Config) (*log.Logger, func(), error) {
	if path == "" {
		return setupLogger(io.Discard, cfg), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return setupLogger(f, cfg), func() { _ = f.Close() }, nil
}

// newPool builds the pool from config. A nil flag seed falls back to the
// config seed; zero in either place means time-derived.
func newPool(cfg *config.Config, flagSeed *int64, logger *log.Logger) *pool.Pool {
	seed := cfg.Pool.Seed
	if flagSeed != nil {
		seed = *flagSeed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	} else {
		logger.Info("Using deterministic seed", "seed", seed)
	}

	opts := append(cfg.PoolOptions(), pool.WithRand(randutil.New(seed)))
	return pool.New(opts...)
}

// setupSignalHandler creates a context that is cancelled on interrupt signals
func setupSignalHandler(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
