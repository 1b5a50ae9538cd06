package pool

import "github.com/lox/squares/internal/randutil"

// AssignSquares shuffles the sold squares onto the grid. It requires every
// square to be sold and can only run once per game.
func (p *Pool) AssignSquares() error {
	if p.squares {
		return stateErr(ErrSquaresAssigned, "squares can only be assigned once")
	}
	if remaining := p.Remaining(); remaining != 0 {
		return stateErr(ErrPoolIncomplete, "%d of %d squares still unsold", remaining, MaxSquares)
	}

	tokens := make([]string, 0, MaxSquares)
	for _, b := range p.buyers {
		for range b.Quantity {
			tokens = append(tokens, b.ID)
		}
	}
	randutil.Shuffle(p.rng, tokens)

	for k, id := range tokens {
		p.grid[k/GridSize][k%GridSize] = id
	}
	p.squares = true
	return nil
}

// CellOwner returns the buyer holding the square at row r, column c.
func (p *Pool) CellOwner(r, c int) (Buyer, bool) {
	if r < 0 || r >= GridSize || c < 0 || c >= GridSize {
		return Buyer{}, false
	}
	id := p.grid[r][c]
	if id == "" {
		return Buyer{}, false
	}
	return p.buyer(id)
}

// Holdings counts grid cells per buyer ID.
func (p *Pool) Holdings() map[string]int {
	counts := make(map[string]int, len(p.buyers))
	for r := range p.grid {
		for _, id := range p.grid[r] {
			if id != "" {
				counts[id]++
			}
		}
	}
	return counts
}
