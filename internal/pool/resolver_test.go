package pool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreDigit(t *testing.T) {
	tests := []struct {
		in    string
		digit int
		ok    bool
	}{
		{"114", 4, true},
		{"-7", 7, true},
		{"0", 0, true},
		{" 21 ", 1, true},
		{"21.9", 1, true},
		{"-13.5", 3, true},
		{"1e2", 0, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Infinity", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			digit, ok := ScoreDigit(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.digit, digit)
			}
		})
	}
}

func TestWinnerEndToEnd(t *testing.T) {
	p := newTestPool(t, 2024)
	a, err := p.AddPurchase("Alice", "Able", 60)
	require.NoError(t, err)
	b, err := p.AddPurchase("Bob", "Baker", 40)
	require.NoError(t, err)

	require.NoError(t, p.AssignSquares())
	assert.Equal(t, 0, p.Remaining())
	holdings := p.Holdings()
	assert.Equal(t, 60, holdings[a.ID])
	assert.Equal(t, 40, holdings[b.ID])

	require.NoError(t, p.AssignTeams())
	axes, ok := p.Axes()
	require.True(t, ok)

	require.NoError(t, p.SetScore(Q1, "Patriots", "21"))
	require.NoError(t, p.SetScore(Q1, "Seahawks", "14"))

	rowDigit, colDigit := 1, 4
	if axes.RowTeam.Key != "Patriots" {
		rowDigit, colDigit = 4, 1
	}
	r, ok := axes.RowOf(rowDigit)
	require.True(t, ok)
	c, ok := axes.ColOf(colDigit)
	require.True(t, ok)
	owner, ok := p.CellOwner(r, c)
	require.True(t, ok)

	w, ok := p.Winner(Q1)
	require.True(t, ok)
	assert.Equal(t, Winner{
		Quarter:  Q1,
		RowDigit: rowDigit,
		ColDigit: colDigit,
		RowTeam:  axes.RowTeam,
		ColTeam:  axes.ColTeam,
		Row:      r,
		Col:      c,
		Buyer:    owner,
	}, w)
	assert.Contains(t, []string{a.ID, b.ID}, w.Buyer.ID)
}

func TestWinnerPending(t *testing.T) {
	t.Run("before teams are drawn", func(t *testing.T) {
		p := newTestPool(t, 1)
		soldOut(t, p, 100)
		require.NoError(t, p.AssignSquares())
		require.NoError(t, p.SetScore(Q1, "Patriots", "7"))
		require.NoError(t, p.SetScore(Q1, "Seahawks", "3"))

		_, ok := p.Winner(Q1)
		assert.False(t, ok)
		assert.Empty(t, p.Winners())
	})

	for _, scores := range [][2]string{{"", "14"}, {"21", ""}, {"abc", "14"}, {"21", "x"}} {
		t.Run("scores "+scores[0]+"/"+scores[1], func(t *testing.T) {
			p, _ := drawn(t, 1, 100)
			require.NoError(t, p.SetScore(Q2, "Patriots", scores[0]))
			require.NoError(t, p.SetScore(Q2, "Seahawks", scores[1]))

			_, ok := p.Winner(Q2)
			assert.False(t, ok)
		})
	}

	t.Run("invalid quarter", func(t *testing.T) {
		p, _ := drawn(t, 1, 100)
		_, ok := p.Winner(Quarter(7))
		assert.False(t, ok)
	})
}

func TestWinnerDeterministic(t *testing.T) {
	p, _ := drawn(t, 77, 10, 20, 30, 40)
	require.NoError(t, p.SetScore(Q3, "Patriots", "17"))
	require.NoError(t, p.SetScore(Q3, "Seahawks", "24"))

	first, ok := p.Winner(Q3)
	require.True(t, ok)
	second, ok := p.Winner(Q3)
	require.True(t, ok)
	assert.Equal(t, first, second)

	require.NoError(t, p.SetScore(Q1, "Patriots", "3"))
	require.NoError(t, p.SetScore(Q4, "Seahawks", "99"))
	third, ok := p.Winner(Q3)
	require.True(t, ok)
	assert.Equal(t, first, third)
}

func TestWinnerTracksScoreEdits(t *testing.T) {
	p, _ := drawn(t, 5, 100)
	require.NoError(t, p.SetScore(Q1, "Patriots", "10"))
	require.NoError(t, p.SetScore(Q1, "Seahawks", "20"))
	before, ok := p.Winner(Q1)
	require.True(t, ok)

	require.NoError(t, p.SetScore(Q1, "Patriots", "13"))
	after, ok := p.Winner(Q1)
	require.True(t, ok)

	patriotsDigit := after.RowDigit
	if after.RowTeam.Key != "Patriots" {
		patriotsDigit = after.ColDigit
	}
	assert.Equal(t, 3, patriotsDigit)
	assert.NotEqual(t, before.Row*GridSize+before.Col, after.Row*GridSize+after.Col)

	require.NoError(t, p.SetScore(Q1, "Patriots", ""))
	_, ok = p.Winner(Q1)
	assert.False(t, ok)
}

func TestWinnersInQuarterOrder(t *testing.T) {
	p, _ := drawn(t, 9, 25, 25, 25, 25)
	require.NoError(t, p.SetScore(Q4, "Patriots", "30"))
	require.NoError(t, p.SetScore(Q4, "Seahawks", "27"))
	require.NoError(t, p.SetScore(Q2, "Patriots", "14"))
	require.NoError(t, p.SetScore(Q2, "Seahawks", "10"))

	ws := p.Winners()
	require.Len(t, ws, 2)
	assert.Equal(t, Q2, ws[0].Quarter)
	assert.Equal(t, Q4, ws[1].Quarter)
}

func TestEveryScorePairHasOneWinner(t *testing.T) {
	p, _ := drawn(t, 31, 1, 2, 3, 4, 90)
	seen := map[[2]int]bool{}
	for pats := range GridSize {
		for hawks := range GridSize {
			require.NoError(t, p.SetScore(Q1, "Patriots", itoa(pats)))
			require.NoError(t, p.SetScore(Q1, "Seahawks", itoa(hawks)))
			w, ok := p.Winner(Q1)
			require.True(t, ok)
			cell := [2]int{w.Row, w.Col}
			assert.False(t, seen[cell], "cell %v won twice", cell)
			seen[cell] = true
		}
	}
	assert.Len(t, seen, MaxSquares)
}

func TestSnapshotJSON(t *testing.T) {
	p, _ := drawn(t, 12, 50, 50)
	require.NoError(t, p.SetScore(Q1, "Patriots", "7"))
	require.NoError(t, p.SetScore(Q1, "Seahawks", "0"))

	data, err := json.Marshal(p.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"quarter":"Q1"`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	want := p.Snapshot()
	assert.Equal(t, want.Grid, back.Grid)
	assert.Equal(t, *want.Axes, *back.Axes)
	require.Len(t, back.Winners, 1)
	assert.Equal(t, want.Winners[0].Buyer.ID, back.Winners[0].Buyer.ID)
	assert.Equal(t, "7", back.Score(Q1, "Patriots"))
}

func itoa(n int) string {
	return string(rune('0' + n))
}
