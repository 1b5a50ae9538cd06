package pool

import (
	"fmt"
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/squares/internal/randutil"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("buyer-%03d", n)
	}
}

func newTestPool(t *testing.T, seed int64, opts ...Option) *Pool {
	t.Helper()
	base := []Option{
		WithRand(randutil.New(seed)),
		WithClock(quartz.NewMock(t)),
		WithIDSource(sequentialIDs()),
	}
	return New(append(base, opts...)...)
}

// soldOut fills the pool with the given quantities, which must sum to 100.
func soldOut(t *testing.T, p *Pool, quantities ...int) []Buyer {
	t.Helper()
	var buyers []Buyer
	for i, q := range quantities {
		b, err := p.AddPurchase(fmt.Sprintf("First%d", i), fmt.Sprintf("Last%d", i), q)
		require.NoError(t, err)
		buyers = append(buyers, b)
	}
	require.Equal(t, 0, p.Remaining())
	return buyers
}

func drawn(t *testing.T, seed int64, quantities ...int) (*Pool, []Buyer) {
	t.Helper()
	p := newTestPool(t, seed)
	buyers := soldOut(t, p, quantities...)
	require.NoError(t, p.AssignSquares())
	require.NoError(t, p.AssignTeams())
	return p, buyers
}
