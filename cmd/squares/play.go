package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/squares/internal/metrics"
	"github.com/lox/squares/internal/pool"
	"github.com/lox/squares/internal/server"
	"github.com/lox/squares/internal/tui"
)

// PlayCmd runs a pool in-process with the terminal UI. With --listen the
// same pool is also served so others can follow along with `squares client`.
type PlayCmd struct {
	Seed    *int64 `help:"Deterministic RNG seed (overrides config)"`
	Listen  string `help:"Also serve the pool on this address"`
	LogFile string `help:"Write logs to this file instead of discarding them"`
	NoColor bool   `help:"Disable colored output"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := tuiLogger(c.LogFile, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if c.NoColor {
		tui.DisableColor()
	}

	svc := server.NewService(newPool(cfg, c.Seed, logger), logger, server.WithMetrics(metrics.NewRecorder()))

	updates := make(chan pool.Snapshot, 16)
	unsubscribe := svc.Subscribe(func(s pool.Snapshot) {
		select {
		case updates <- s:
		default:
		}
	})
	defer unsubscribe()

	if c.Listen != "" {
		s := server.NewServer(svc, logger)
		serverErr := make(chan error, 1)
		go func() {
			if err := s.Start(c.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.Shutdown(ctx)
		}()

		// Surface bind failures before taking over the terminal
		select {
		case err := <-serverErr:
			return fmt.Errorf("failed to listen on %s: %w", c.Listen, err)
		case <-time.After(100 * time.Millisecond):
		}
		logger.Info("Serving pool", "addr", c.Listen)
	}

	model := tui.New(svc, logger, updates)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
