package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/squares/internal/simulator"
)

// SimulateCmd plays many seeded pools and prints a fairness report
type SimulateCmd struct {
	Pools   int    `default:"1000" help:"Number of pools to simulate"`
	Buyers  int    `default:"5" help:"Buyers sharing each pool"`
	Seed    *int64 `help:"Seed of the first pool (later pools use seed+1, seed+2, ...)"`
	Workers int    `default:"0" help:"Concurrent workers (0 uses GOMAXPROCS)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(os.Stderr, cfg)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Starting simulation", "pools", c.Pools, "buyers", c.Buyers, "seed", seed)

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	start := time.Now()
	report, err := simulator.New(simulator.Config{
		Pools:   c.Pools,
		Buyers:  c.Buyers,
		Seed:    seed,
		Workers: c.Workers,
		Logger:  logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(report)
	logger.Info("Done", "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
