package server

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/squares/internal/metrics"
	"github.com/lox/squares/internal/pool"
)

// Service is the single actor that drives a pool on behalf of every
// connected client. All commands are serialized through one mutex.
type Service struct {
	mu        sync.Mutex
	pool      *pool.Pool
	logger    *log.Logger
	listeners map[int]func(pool.Snapshot)
	nextID    int
	metrics   *metrics.Recorder
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithMetrics records every command and pool change on r
func WithMetrics(r *metrics.Recorder) ServiceOption {
	return func(s *Service) { s.metrics = r }
}

// NewService wraps p. The service takes ownership; callers must not touch
// p directly afterwards.
func NewService(p *pool.Pool, logger *log.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		pool:      p,
		logger:    logger.WithPrefix("service"),
		listeners: make(map[int]func(pool.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.ObservePool(p.Snapshot())
	return s
}

// Metrics returns the recorder set with WithMetrics, or nil
func (s *Service) Metrics() *metrics.Recorder {
	return s.metrics
}

// Subscribe registers fn to receive a snapshot after every successful
// mutation. fn runs with the service locked and must not call back into it.
func (s *Service) Subscribe(fn func(pool.Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// notify must be called with s.mu held
func (s *Service) notify() {
	if len(s.listeners) == 0 && s.metrics == nil {
		return
	}
	snap := s.pool.Snapshot()
	s.metrics.ObservePool(snap)
	for _, fn := range s.listeners {
		fn(snap)
	}
}

// Purchase records a purchase.
func (s *Service) Purchase(ctx context.Context, first, last string, quantity int) (pool.Buyer, error) {
	if err := ctx.Err(); err != nil {
		return pool.Buyer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.pool.AddPurchase(first, last, quantity)
	s.metrics.RecordCommand("purchase", err)
	if err != nil {
		s.logger.Warn("Purchase rejected", "first", first, "last", last, "quantity", quantity, "error", err)
		return pool.Buyer{}, err
	}
	s.logger.Info("Purchase recorded", "buyer", b.ID, "initials", b.Initials, "quantity", b.Quantity, "remaining", s.pool.Remaining())
	s.notify()
	return b, nil
}

// AssignSquares shuffles the sold squares onto the grid.
func (s *Service) AssignSquares(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.pool.AssignSquares()
	s.metrics.RecordCommand("assign_squares", err)
	if err != nil {
		s.logger.Warn("Square assignment rejected", "error", err)
		return err
	}
	s.logger.Info("Squares assigned", "buyers", len(s.pool.PurchaseHistory()))
	s.notify()
	return nil
}

// AssignTeams draws the teams and digits for both axes.
func (s *Service) AssignTeams(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.pool.AssignTeams()
	s.metrics.RecordCommand("assign_teams", err)
	if err != nil {
		s.logger.Warn("Team assignment rejected", "error", err)
		return err
	}
	axes, _ := s.pool.Axes()
	s.logger.Info("Teams assigned",
		"rows", axes.RowTeam.Key,
		"cols", axes.ColTeam.Key,
		"rowDigits", axes.RowDigits,
		"colDigits", axes.ColDigits)
	s.notify()
	return nil
}

// SetScore stores the score text for one team in one quarter.
func (s *Service) SetScore(ctx context.Context, q pool.Quarter, team, score string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.pool.SetScore(q, team, score)
	s.metrics.RecordCommand("set_score", err)
	if err != nil {
		s.logger.Warn("Score rejected", "quarter", q, "team", team, "error", err)
		return err
	}
	if w, ok := s.pool.Winner(q); ok {
		s.logger.Info("Quarter resolved", "quarter", q, "row", w.Row, "col", w.Col, "buyer", w.Buyer.ID)
	} else {
		s.logger.Debug("Score set", "quarter", q, "team", team, "score", score)
	}
	s.notify()
	return nil
}

// Reset clears the pool.
func (s *Service) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool.Reset()
	s.metrics.RecordCommand("reset", nil)
	s.logger.Info("Pool reset")
	s.notify()
	return nil
}

// Snapshot returns the current state.
func (s *Service) Snapshot(ctx context.Context) (pool.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return pool.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Snapshot(), nil
}
