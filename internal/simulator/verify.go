package simulator

import (
	"fmt"

	"github.com/lox/squares/internal/pool"
)

// Verify checks the invariants of p and returns the first violation found. Digit checks apply once teams are drawn, winner checks
// once every quarter has resolved.
func Verify(p *pool.Pool) error {
	if p.Sold()+p.Remaining() != pool.MaxSquares {
		return fmt.Errorf("sold %d plus remaining %d is not %d", p.Sold(), p.Remaining(), pool.MaxSquares)
	}
	if p.Pot() != p.Sold()*p.Price() {
		return fmt.Errorf("pot %d does not match %d squares at %d", p.Pot(), p.Sold(), p.Price())
	}

	if !p.SquaresAssigned() {
		return nil
	}

	holdings := p.Holdings()
	for _, b := range p.PurchaseHistory() {
		if holdings[b.ID] != b.Quantity {
			return fmt.Errorf("buyer %s bought %d squares but holds %d", b.ID, b.Quantity, holdings[b.ID])
		}
	}
	for r := range pool.GridSize {
		for c := range pool.GridSize {
			if _, ok := p.CellOwner(r, c); !ok {
				return fmt.Errorf("cell %d,%d has no owner", r, c)
			}
		}
	}

	axes, ok := p.Axes()
	if !ok {
		return nil
	}
	if axes.RowTeam.Key == axes.ColTeam.Key {
		return fmt.Errorf("both axes drawn for %s", axes.RowTeam.Key)
	}
	if err := checkDigits("row", axes.RowDigits); err != nil {
		return err
	}
	if err := checkDigits("column", axes.ColDigits); err != nil {
		return err
	}

	for _, w := range p.Winners() {
		owner, ok := p.CellOwner(w.Row, w.Col)
		if !ok || owner.ID != w.Buyer.ID {
			return fmt.Errorf("%s winner %s does not own cell %d,%d", w.Quarter, w.Buyer.ID, w.Row, w.Col)
		}
		if axes.RowDigits[w.Row] != w.RowDigit || axes.ColDigits[w.Col] != w.ColDigit {
			return fmt.Errorf("%s winner cell %d,%d does not carry digits %d/%d", w.Quarter, w.Row, w.Col, w.RowDigit, w.ColDigit)
		}
		rowDigit, _ := pool.ScoreDigit(p.Score(w.Quarter, axes.RowTeam.Key))
		colDigit, _ := pool.ScoreDigit(p.Score(w.Quarter, axes.ColTeam.Key))
		if rowDigit != w.RowDigit || colDigit != w.ColDigit {
			return fmt.Errorf("%s winner digits %d/%d do not match scores", w.Quarter, w.RowDigit, w.ColDigit)
		}
	}
	return nil
}

func checkDigits(axis string, digits [pool.GridSize]int) error {
	var seen [pool.GridSize]bool
	for _, d := range digits {
		if d < 0 || d >= pool.GridSize || seen[d] {
			return fmt.Errorf("%s digits %v are not a permutation of 0-9", axis, digits)
		}
		seen[d] = true
	}
	return nil
}
