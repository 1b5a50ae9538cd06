package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/squares/internal/pool"
	"github.com/lox/squares/internal/protocol"
)

// Server exposes a Service over websocket and a small HTTP surface
type Server struct {
	service     *Service
	upgrader    websocket.Upgrader
	logger      *log.Logger
	clock       quartz.Clock
	mu          sync.RWMutex
	connections map[*Connection]struct{}
	httpServer  *http.Server
	unsubscribe func()
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for message timestamps
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// NewServer creates a server for service
func NewServer(service *Service, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		service: service,
		upgrader: websocket.Upgrader{
			// The board is meant to be opened from any device on the office network
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		clock:       quartz.NewReal(),
		connections: make(map[*Connection]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = service.Subscribe(s.broadcastState)
	return s
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	if rec := s.service.Metrics(); rec != nil {
		mux.Handle("GET /metrics", rec.Handler())
	}
	return mux
}

// Start listens on addr and serves until Shutdown
func (s *Server) Start(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(l)
}

// Serve serves on l until Shutdown
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting server", "addr", l.Addr().String())
	return srv.Serve(l)
}

// Shutdown stops accepting requests and closes every connection
func (s *Server) Shutdown(ctx context.Context) error {
	s.unsubscribe()

	s.mu.Lock()
	srv := s.httpServer
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close() // Ignore close errors during shutdown
	}

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ConnectionCount returns the number of open websocket connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(ws, s)
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.service.Metrics().ConnectionOpened()
	s.logger.Info("Client connected", "remote", r.RemoteAddr, "total", total)

	conn.Start()

	// Every client starts from the current board
	if snap, err := s.service.Snapshot(r.Context()); err == nil {
		s.sendState(conn, snap, "")
	}

	go func() {
		<-conn.Done()
		s.mu.Lock()
		delete(s.connections, conn)
		total := len(s.connections)
		s.mu.Unlock()
		s.service.Metrics().ConnectionClosed()
		s.logger.Info("Client disconnected", "remote", r.RemoteAddr, "total", total)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(protocol.StateData{Snapshot: snap}); err != nil {
		s.logger.Error("Failed to encode state", "error", err)
	}
}

// broadcastState runs inside the service lock, so it only queues messages
func (s *Server) broadcastState(snap pool.Snapshot) {
	msg, err := protocol.NewMessage(protocol.TypeState, protocol.StateData{Snapshot: snap}, s.clock.Now())
	if err != nil {
		s.logger.Error("Failed to create state message", "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to queue state", "error", err)
			continue
		}
		count++
	}
	s.logger.Debug("Broadcasted state", "recipients", count, "sold", snap.Sold)
}

func (s *Server) sendState(conn *Connection, snap pool.Snapshot, requestID string) {
	msg, err := protocol.NewMessage(protocol.TypeState, protocol.StateData{Snapshot: snap}, s.clock.Now())
	if err != nil {
		s.logger.Error("Failed to create state message", "error", err)
		return
	}
	msg.RequestID = requestID
	_ = conn.SendMessage(msg)
}
