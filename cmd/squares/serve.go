package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/lox/squares/internal/metrics"
	"github.com/lox/squares/internal/server"
)

// ServeCmd runs one pool behind the websocket server
type ServeCmd struct {
	Addr string `short:"a" help:"Server address to bind to (overrides config)"`
	Seed *int64 `help:"Deterministic RNG seed (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(os.Stderr, cfg)

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	p := newPool(cfg, c.Seed, logger)
	svc := server.NewService(p, logger, server.WithMetrics(metrics.NewRecorder()))
	s := server.NewServer(svc, logger)

	teams := p.Teams()
	logger.Info("Starting squares server",
		"addr", addr,
		"price", p.Price(),
		"teams", teams[0].Key+" vs "+teams[1].Key)

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
