package pool

// Winner is the square a quarter's score lands on.
type Winner struct {
	Quarter  Quarter `json:"quarter"`
	RowDigit int     `json:"rowDigit"`
	ColDigit int     `json:"colDigit"`
	RowTeam  Team    `json:"rowTeam"`
	ColTeam  Team    `json:"colTeam"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Buyer    Buyer   `json:"buyer"`
}

// Winner resolves quarter q against the current scores. It reports false
// until teams are drawn and both scores parse.
func (p *Pool) Winner(q Quarter) (Winner, bool) {
	if !p.drawn || !q.Valid() {
		return Winner{}, false
	}

	rowDigit, ok := ScoreDigit(p.scores[q][p.axes.RowTeam.Key])
	if !ok {
		return Winner{}, false
	}
	colDigit, ok := ScoreDigit(p.scores[q][p.axes.ColTeam.Key])
	if !ok {
		return Winner{}, false
	}

	r, ok := p.axes.RowOf(rowDigit)
	if !ok {
		return Winner{}, false
	}
	c, ok := p.axes.ColOf(colDigit)
	if !ok {
		return Winner{}, false
	}

	b, ok := p.CellOwner(r, c)
	if !ok {
		return Winner{}, false
	}

	return Winner{
		Quarter:  q,
		RowDigit: rowDigit,
		ColDigit: colDigit,
		RowTeam:  p.axes.RowTeam,
		ColTeam:  p.axes.ColTeam,
		Row:      r,
		Col:      c,
		Buyer:    b,
	}, true
}

// Winners returns the resolved quarters in play order.
func (p *Pool) Winners() []Winner {
	var out []Winner
	for _, q := range Quarters {
		if w, ok := p.Winner(q); ok {
			out = append(out, w)
		}
	}
	return out
}
