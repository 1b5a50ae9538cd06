package tui

import (
	"context"

	"github.com/lox/squares/internal/pool"
)

// Controller is the command and query surface the UI drives. The
// in-process server.Service and the remote client.Client both satisfy it.
type Controller interface {
	Purchase(ctx context.Context, first, last string, quantity int) (pool.Buyer, error)
	AssignSquares(ctx context.Context) error
	AssignTeams(ctx context.Context) error
	SetScore(ctx context.Context, q pool.Quarter, team, score string) error
	Reset(ctx context.Context) error
	Snapshot(ctx context.Context) (pool.Snapshot, error)
}
