package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/squares/internal/client"
	"github.com/lox/squares/internal/tui"
)

// ClientCmd drives a remote pool server with the terminal UI
type ClientCmd struct {
	Server  string        `default:"ws://localhost:8080/ws" help:"WebSocket server URL"`
	Timeout time.Duration `default:"10s" help:"Per-request timeout"`
	LogFile string        `help:"Write logs to this file instead of discarding them"`
	NoColor bool          `help:"Disable colored output"`
}

func (c *ClientCmd) Run(g *Globals) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	conn, err := client.Dial(ctx, strings.TrimSpace(c.Server), logger, client.WithTimeout(c.Timeout))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.Server, err)
	}
	defer conn.Close()

	model := tui.New(conn, logger, conn.Updates())
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
