// Package simulator plays many complete pools from consecutive seeds and
// reports how often each buyer slot wins relative to the squares it held.
package simulator

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/squares/internal/pool"
	"github.com/lox/squares/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// maxScore bounds the random per-quarter scores
const maxScore = 50

// Config holds configuration for running simulations
type Config struct {
	Pools   int
	Buyers  int
	Seed    int64
	Workers int
	Logger  *log.Logger
}

// SlotStats aggregates one buyer slot across every simulated pool
type SlotStats struct {
	Slot    int
	Squares int
	Wins    int
}

// Report is the outcome of a simulation run
type Report struct {
	Pools    int
	Quarters int
	Slots    []SlotStats
}

// ExpectedShare is the fraction of all squares the slot held
func (r *Report) ExpectedShare(slot int) float64 {
	if r.Pools == 0 {
		return 0
	}
	return float64(r.Slots[slot].Squares) / float64(r.Pools*pool.MaxSquares)
}

// ObservedShare is the fraction of resolved quarters the slot won
func (r *Report) ObservedShare(slot int) float64 {
	if r.Quarters == 0 {
		return 0
	}
	return float64(r.Slots[slot].Wins) / float64(r.Quarters)
}

// MaxDeviation is the largest gap between expected and observed share
func (r *Report) MaxDeviation() float64 {
	var worst float64
	for i := range r.Slots {
		d := r.ObservedShare(i) - r.ExpectedShare(i)
		if d < 0 {
			d = -d
		}
		worst = max(worst, d)
	}
	return worst
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pools: %d  Quarters: %d\n", r.Pools, r.Quarters)
	fmt.Fprintf(&b, "%-6s %8s %8s %10s %10s\n", "Slot", "Squares", "Wins", "Expected", "Observed")
	for i, s := range r.Slots {
		fmt.Fprintf(&b, "%-6d %8d %8d %9.2f%% %9.2f%%\n",
			s.Slot+1, s.Squares, s.Wins, 100*r.ExpectedShare(i), 100*r.ObservedShare(i))
	}
	fmt.Fprintf(&b, "Max deviation: %.2f%%", 100*r.MaxDeviation())
	return b.String()
}

// Simulator runs squares pool simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Buyers <= 0 {
		config.Buyers = 5
	}
	return &Simulator{config: config, logger: config.Logger.WithPrefix("simulator")}
}

// poolResult is what one simulated pool contributes to the report
type poolResult struct {
	squares []int
	wins    []int
}

// Run plays config.Pools pools with seeds Seed, Seed+1, ... and aggregates
// the results. The first invariant violation stops the run with an error
// naming the offending seed.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Buyers > pool.MaxSquares {
		return nil, fmt.Errorf("at most %d buyers fit in one pool, got %d", pool.MaxSquares, s.config.Buyers)
	}

	results := make([]poolResult, s.config.Pools)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Pools {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := playPool(seed, s.config.Buyers)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Pools: s.config.Pools, Slots: make([]SlotStats, s.config.Buyers)}
	for i := range report.Slots {
		report.Slots[i].Slot = i
	}
	for _, r := range results {
		for slot := range report.Slots {
			report.Slots[slot].Squares += r.squares[slot]
			report.Slots[slot].Wins += r.wins[slot]
			report.Quarters += r.wins[slot]
		}
	}

	s.logger.Info("Simulation complete",
		"pools", report.Pools,
		"quarters", report.Quarters,
		"max_deviation", fmt.Sprintf("%.4f", report.MaxDeviation()))

	return report, nil
}

// playPool runs one pool from purchase through four quarters of scores
func playPool(seed int64, buyers int) (poolResult, error) {
	rng := randutil.New(seed)
	ids := randutil.NewReader(randutil.New(^seed))

	p := pool.New(
		pool.WithRand(rng),
		pool.WithIDSource(func() string {
			return uuid.Must(uuid.NewRandomFromReader(ids)).String()
		}),
	)

	result := poolResult{squares: splitSquares(rng, buyers), wins: make([]int, buyers)}
	slots := make(map[string]int, buyers)
	for slot, qty := range result.squares {
		b, err := p.AddPurchase("Buyer", strconv.Itoa(slot+1), qty)
		if err != nil {
			return poolResult{}, fmt.Errorf("purchase for slot %d: %w", slot+1, err)
		}
		slots[b.ID] = slot
	}

	if err := p.AssignSquares(); err != nil {
		return poolResult{}, err
	}
	if err := p.AssignTeams(); err != nil {
		return poolResult{}, err
	}

	teams := p.Teams()
	for _, q := range pool.Quarters {
		for _, t := range teams {
			if err := p.SetScore(q, t.Key, strconv.Itoa(rng.IntN(maxScore))); err != nil {
				return poolResult{}, err
			}
		}
	}

	if err := Verify(p); err != nil {
		return poolResult{}, err
	}

	winners := p.Winners()
	if len(winners) != pool.NumQuarters {
		return poolResult{}, fmt.Errorf("%d of %d quarters resolved with every score set", len(winners), pool.NumQuarters)
	}
	for _, w := range winners {
		result.wins[slots[w.Buyer.ID]]++
	}
	return result, nil
}

// splitSquares divides all squares among n buyers, each holding at least one
func splitSquares(rng randutil.Source, n int) []int {
	cuts := randutil.Perm(rng, pool.MaxSquares-1)[:n-1]
	marks := make([]bool, pool.MaxSquares)
	for _, c := range cuts {
		marks[c+1] = true
	}

	out := make([]int, 0, n)
	last := 0
	for i := 1; i < pool.MaxSquares; i++ {
		if marks[i] {
			out = append(out, i-last)
			last = i
		}
	}
	return append(out, pool.MaxSquares-last)
}
