package pool

// QuarterScore holds the raw score text per team key for one quarter.
type QuarterScore struct {
	Quarter Quarter           `json:"quarter"`
	Scores  map[string]string `json:"scores"`
}

// Snapshot is a detached copy of everything a presentation layer shows.
type Snapshot struct {
	Teams           [2]Team                    `json:"teams"`
	Price           int                        `json:"price"`
	Buyers          []Buyer                    `json:"buyers"`
	Grid            [GridSize][GridSize]string `json:"grid"`
	SquaresAssigned bool                       `json:"squaresAssigned"`
	TeamsAssigned   bool                       `json:"teamsAssigned"`
	Axes            *Axes                      `json:"axes,omitempty"`
	Scores          [NumQuarters]QuarterScore  `json:"scores"`
	Winners         []Winner                   `json:"winners"`
	Sold            int                        `json:"sold"`
	Remaining       int                        `json:"remaining"`
	Pot             int                        `json:"pot"`
}

// Snapshot copies the current state.
func (p *Pool) Snapshot() Snapshot {
	s := Snapshot{
		Teams:           p.teams,
		Price:           p.price,
		Buyers:          p.PurchaseHistory(),
		Grid:            p.grid,
		SquaresAssigned: p.squares,
		TeamsAssigned:   p.drawn,
		Winners:         p.Winners(),
		Sold:            p.Sold(),
		Remaining:       p.Remaining(),
		Pot:             p.Pot(),
	}
	if axes, ok := p.Axes(); ok {
		s.Axes = &axes
	}
	for i, q := range Quarters {
		scores := make(map[string]string, len(p.scores[q]))
		for k, v := range p.scores[q] {
			scores[k] = v
		}
		s.Scores[i] = QuarterScore{Quarter: q, Scores: scores}
	}
	return s
}

// Buyer looks up a buyer by ID.
func (s Snapshot) Buyer(id string) (Buyer, bool) {
	for _, b := range s.Buyers {
		if b.ID == id {
			return b, true
		}
	}
	return Buyer{}, false
}

// OwnerAt returns the buyer holding row r, column c.
func (s Snapshot) OwnerAt(r, c int) (Buyer, bool) {
	if r < 0 || r >= GridSize || c < 0 || c >= GridSize || s.Grid[r][c] == "" {
		return Buyer{}, false
	}
	return s.Buyer(s.Grid[r][c])
}

// Winner returns the resolved winner for q, if any.
func (s Snapshot) Winner(q Quarter) (Winner, bool) {
	for _, w := range s.Winners {
		if w.Quarter == q {
			return w, true
		}
	}
	return Winner{}, false
}

// Score returns the raw score text for one team in one quarter.
func (s Snapshot) Score(q Quarter, teamKey string) string {
	if !q.Valid() {
		return ""
	}
	return s.Scores[q].Scores[teamKey]
}
