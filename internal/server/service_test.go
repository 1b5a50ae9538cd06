package server

import (
	"context"
	"testing"

	"github.com/lox/squares/internal/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceFullGame(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 7)

	var snaps []pool.Snapshot
	unsubscribe := svc.Subscribe(func(s pool.Snapshot) { snaps = append(snaps, s) })

	a, err := svc.Purchase(ctx, "Alice", "Able", 60)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, "Bob", "Baker", 40)
	require.NoError(t, err)
	require.NoError(t, svc.AssignSquares(ctx))
	require.NoError(t, svc.AssignTeams(ctx))
	require.NoError(t, svc.SetScore(ctx, pool.Q1, "Patriots", "21"))
	require.NoError(t, svc.SetScore(ctx, pool.Q1, "Seahawks", "14"))

	require.Len(t, snaps, 6)
	assert.Equal(t, 40, snaps[0].Remaining)
	assert.Equal(t, a.ID, snaps[0].Buyers[0].ID)
	assert.True(t, snaps[2].SquaresAssigned)
	assert.NotNil(t, snaps[3].Axes)
	assert.Empty(t, snaps[4].Winners)
	require.Len(t, snaps[5].Winners, 1)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snaps[5], snap)

	unsubscribe()
	require.NoError(t, svc.Reset(ctx))
	assert.Len(t, snaps, 6)
	snap, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, pool.MaxSquares, snap.Remaining)
}

func TestServiceRejectionsDoNotNotify(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 1)
	calls := 0
	svc.Subscribe(func(pool.Snapshot) { calls++ })

	_, err := svc.Purchase(ctx, "", "Able", 1)
	assert.ErrorIs(t, err, pool.ErrMissingName)
	assert.ErrorIs(t, svc.AssignSquares(ctx), pool.ErrPoolIncomplete)
	assert.ErrorIs(t, svc.AssignTeams(ctx), pool.ErrSquaresNotAssigned)
	assert.ErrorIs(t, svc.SetScore(ctx, pool.Q1, "Jets", "1"), pool.ErrUnknownTeam)

	assert.Zero(t, calls)
}

func TestServiceHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestService(t, 1)

	_, err := svc.Purchase(ctx, "Alice", "Able", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, svc.Reset(ctx), context.Canceled)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Buyers)
}
