package pool

import (
	"errors"
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/squares/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"ada", "lovelace", "AL"},
		{"  grace ", " hopper", "GH"},
		{"", "Turing", "?T"},
		{"Alan", "", "A?"},
		{"", "   ", "??"},
		{"émile", "zola", "ÉZ"},
	}
	for _, tt := range tests {
		t.Run(tt.first+"_"+tt.last, func(t *testing.T) {
			assert.Equal(t, tt.want, Initials(tt.first, tt.last))
		})
	}
}

func TestAddPurchase(t *testing.T) {
	t.Run("records trimmed buyer", func(t *testing.T) {
		clock := quartz.NewMock(t)
		p := New(WithRand(randutil.New(1)), WithClock(clock), WithIDSource(sequentialIDs()))

		b, err := p.AddPurchase("  Ada ", " Lovelace", 5)
		require.NoError(t, err)

		assert.Equal(t, "buyer-001", b.ID)
		assert.Equal(t, "Ada", b.FirstName)
		assert.Equal(t, "Lovelace", b.LastName)
		assert.Equal(t, 5, b.Quantity)
		assert.Equal(t, "AL", b.Initials)
		assert.Equal(t, clock.Now(), b.PurchasedAt)
		assert.Equal(t, 95, p.Remaining())
		assert.Equal(t, 5, p.Sold())
		assert.Equal(t, 5, p.Pot())
		assert.Equal(t, []Buyer{b}, p.PurchaseHistory())
	})

	t.Run("history keeps purchase order", func(t *testing.T) {
		p := newTestPool(t, 1)
		a, err := p.AddPurchase("A", "One", 1)
		require.NoError(t, err)
		b, err := p.AddPurchase("B", "Two", 2)
		require.NoError(t, err)
		c, err := p.AddPurchase("C", "Three", 3)
		require.NoError(t, err)

		assert.Equal(t, []Buyer{a, b, c}, p.PurchaseHistory())
	})

	t.Run("history is a copy", func(t *testing.T) {
		p := newTestPool(t, 1)
		_, err := p.AddPurchase("A", "One", 1)
		require.NoError(t, err)

		h := p.PurchaseHistory()
		h[0].FirstName = "changed"

		assert.Equal(t, "A", p.PurchaseHistory()[0].FirstName)
	})

	t.Run("pot follows price", func(t *testing.T) {
		p := newTestPool(t, 1, WithPrice(5))
		_, err := p.AddPurchase("A", "One", 4)
		require.NoError(t, err)

		assert.Equal(t, 20, p.Pot())
	})
}

func TestAddPurchaseValidation(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		last     string
		quantity int
		reason   error
	}{
		{"missing first", "  ", "Lovelace", 1, ErrMissingName},
		{"missing last", "Ada", "", 1, ErrMissingName},
		{"name checked before quantity", "", "", 0, ErrMissingName},
		{"zero quantity", "Ada", "Lovelace", 0, ErrInvalidQuantity},
		{"negative quantity", "Ada", "Lovelace", -3, ErrInvalidQuantity},
		{"exceeds remaining", "Ada", "Lovelace", 11, ErrExceedsRemaining},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPool(t, 1)
			_, err := p.AddPurchase("Big", "Buyer", 90)
			require.NoError(t, err)
			before := p.Snapshot()

			_, err = p.AddPurchase(tt.first, tt.last, tt.quantity)
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %T", err)
			assert.ErrorIs(t, err, tt.reason)
			assert.Equal(t, before, p.Snapshot())
		})
	}
}

func TestExceedsRemainingStatesCount(t *testing.T) {
	p := newTestPool(t, 1)
	_, err := p.AddPurchase("Big", "Buyer", 93)
	require.NoError(t, err)

	_, err = p.AddPurchase("Ada", "Lovelace", 8)
	require.ErrorIs(t, err, ErrExceedsRemaining)
	assert.Contains(t, err.Error(), "only 7 squares left")
	assert.Equal(t, "only 7 squares left", Detail(err))
}

func TestPurchasingClosed(t *testing.T) {
	t.Run("sold out", func(t *testing.T) {
		p := newTestPool(t, 1)
		soldOut(t, p, 100)

		_, err := p.AddPurchase("Ada", "Lovelace", 1)
		var se *StateError
		require.True(t, errors.As(err, &se))
		assert.ErrorIs(t, err, ErrPurchasingClosed)
		assert.Len(t, p.PurchaseHistory(), 1)
	})

	t.Run("after assignment", func(t *testing.T) {
		p := newTestPool(t, 1)
		soldOut(t, p, 50, 50)
		require.NoError(t, p.AssignSquares())
		before := p.Snapshot()

		_, err := p.AddPurchase("Ada", "Lovelace", 1)
		assert.ErrorIs(t, err, ErrPurchasingClosed)
		assert.Equal(t, before, p.Snapshot())
	})
}

func TestCapInvariant(t *testing.T) {
	rng := randutil.New(99)
	p := newTestPool(t, 99)

	for range 500 {
		q := rng.IntN(30) - 2
		before := p.Sold()
		_, err := p.AddPurchase("X", "Y", q)
		if err != nil {
			assert.Equal(t, before, p.Sold(), "rejected purchase changed the ledger")
		}
		require.LessOrEqual(t, p.Sold(), MaxSquares)
		require.GreaterOrEqual(t, p.Remaining(), 0)
	}
}

func TestParseQuantity(t *testing.T) {
	valid := map[string]int{"1": 1, " 12 ": 12, "100": 100}
	for in, want := range valid {
		got, err := ParseQuantity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "1.5", "0", "-2", "2e1"} {
		_, err := ParseQuantity(in)
		assert.ErrorIs(t, err, ErrInvalidQuantity, in)
	}
}
