package pool

import (
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/squares/internal/randutil"
)

// Pool is the whole observable state of one squares game.
type Pool struct {
	rng    randutil.Source
	clock  quartz.Clock
	nextID func() string
	teams  [2]Team
	price  int

	buyers  []Buyer
	byID    map[string]int
	grid    [GridSize][GridSize]string
	axes    Axes
	scores  [NumQuarters]map[string]string
	squares bool // squares assigned
	drawn   bool // teams and digits assigned
}

// Option configures a Pool.
type Option func(*Pool)

// WithRand sets the source used for every shuffle.
func WithRand(src randutil.Source) Option {
	return func(p *Pool) { p.rng = src }
}

// WithClock sets the clock used to stamp purchases.
func WithClock(clock quartz.Clock) Option {
	return func(p *Pool) { p.clock = clock }
}

// WithIDSource sets the buyer ID generator. IDs must be unique and non-empty.
func WithIDSource(next func() string) Option {
	return func(p *Pool) { p.nextID = next }
}

// WithTeams sets the two teams. The first is listed first in score entry;
// which one plays rows is decided by AssignTeams.
func WithTeams(teams [2]Team) Option {
	return func(p *Pool) { p.teams = teams }
}

// WithPrice sets the price of one square in whole currency units.
func WithPrice(price int) Option {
	return func(p *Pool) { p.price = price }
}

// New creates an empty pool.
func New(opts ...Option) *Pool {
	p := &Pool{
		clock:  quartz.NewReal(),
		nextID: uuid.NewString,
		teams:  DefaultTeams,
		price:  1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = randutil.New(time.Now().UnixNano())
	}
	p.Reset()
	return p
}

// Reset clears buyers, grid, gates, axes and scores. Injected dependencies
// and configuration are kept.
func (p *Pool) Reset() {
	p.buyers = nil
	p.byID = make(map[string]int)
	p.grid = [GridSize][GridSize]string{}
	p.axes = Axes{}
	for q := range p.scores {
		p.scores[q] = make(map[string]string, len(p.teams))
		for _, t := range p.teams {
			p.scores[q][t.Key] = ""
		}
	}
	p.squares = false
	p.drawn = false
}

// Teams returns the two configured teams.
func (p *Pool) Teams() [2]Team {
	return p.teams
}

// Price returns the price of one square.
func (p *Pool) Price() int {
	return p.price
}

// SquaresAssigned reports whether the grid has been filled.
func (p *Pool) SquaresAssigned() bool {
	return p.squares
}

// TeamsAssigned reports whether teams and digits have been drawn.
func (p *Pool) TeamsAssigned() bool {
	return p.drawn
}

// CanBuy reports whether AddPurchase can currently succeed for some input.
func (p *Pool) CanBuy() bool {
	return !p.squares && p.Remaining() > 0
}

// CanAssignSquares reports whether AssignSquares would succeed.
func (p *Pool) CanAssignSquares() bool {
	return !p.squares && p.Remaining() == 0
}

// CanAssignTeams reports whether AssignTeams would succeed.
func (p *Pool) CanAssignTeams() bool {
	return p.squares && !p.drawn
}

func (p *Pool) buyer(id string) (Buyer, bool) {
	i, ok := p.byID[id]
	if !ok {
		return Buyer{}, false
	}
	return p.buyers[i], true
}

func (p *Pool) team(key string) (Team, bool) {
	for _, t := range p.teams {
		if t.Key == key {
			return t, true
		}
	}
	return Team{}, false
}
