package pool

import (
	"slices"

	"github.com/lox/squares/internal/randutil"
)

// Axes binds one team and one digit permutation to each grid dimension.
// RowDigits[r] labels row r and ColDigits[c] labels column c.
type Axes struct {
	RowTeam   Team          `json:"rowTeam"`
	ColTeam   Team          `json:"colTeam"`
	RowDigits [GridSize]int `json:"rowDigits"`
	ColDigits [GridSize]int `json:"colDigits"`
}

// RowOf returns the row labelled digit.
func (a Axes) RowOf(digit int) (int, bool) {
	return indexOf(a.RowDigits, digit)
}

// ColOf returns the column labelled digit.
func (a Axes) ColOf(digit int) (int, bool) {
	return indexOf(a.ColDigits, digit)
}

func indexOf(labels [GridSize]int, digit int) (int, bool) {
	i := slices.Index(labels[:], digit)
	return i, i >= 0
}

// AssignTeams draws which team plays rows and an independent digit
// permutation for each axis. It requires assigned squares and runs once.
func (p *Pool) AssignTeams() error {
	if !p.squares {
		return stateErr(ErrSquaresNotAssigned, "assign squares before teams")
	}
	if p.drawn {
		return stateErr(ErrTeamsAssigned, "teams can only be assigned once")
	}

	teams := slices.Clone(p.teams[:])
	randutil.Shuffle(p.rng, teams)
	rows := randutil.Perm(p.rng, GridSize)
	cols := randutil.Perm(p.rng, GridSize)

	p.axes = Axes{RowTeam: teams[0], ColTeam: teams[1]}
	copy(p.axes.RowDigits[:], rows)
	copy(p.axes.ColDigits[:], cols)
	p.drawn = true
	return nil
}

// Axes returns the axis assignment once teams are drawn.
func (p *Pool) Axes() (Axes, bool) {
	if !p.drawn {
		return Axes{}, false
	}
	return p.axes, true
}
