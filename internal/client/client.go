package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/squares/internal/pool"
	"github.com/lox/squares/internal/protocol"
)

const (
	defaultTimeout = 10 * time.Second
	writeWait      = 10 * time.Second
)

var (
	// ErrClosed is returned by requests made after the connection went away.
	ErrClosed = errors.New("client closed")
	// ErrTimeout is returned when the server does not reply in time.
	ErrTimeout = errors.New("request timed out")
)

// Client drives a remote pool over websocket
type Client struct {
	conn    *websocket.Conn
	logger  *log.Logger
	clock   quartz.Clock
	timeout time.Duration

	writeMu sync.Mutex
	mu      sync.Mutex
	pending map[string]chan *protocol.Message
	nextID  uint64

	updates   chan pool.Snapshot
	done      chan struct{}
	closeOnce sync.Once
	err       error
}

// Option configures a Client
type Option func(*Client)

// WithClock sets the clock used for request deadlines and timestamps
func WithClock(clock quartz.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithTimeout bounds how long a request waits for its reply
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Dial connects to a squares server. serverURL may use http, https, ws or
// wss; the /ws path is added when missing.
func Dial(ctx context.Context, serverURL string, logger *log.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	logger = logger.WithPrefix("client")
	logger.Info("Connecting to server", "url", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Client{
		conn:    conn,
		logger:  logger,
		clock:   quartz.NewReal(),
		timeout: defaultTimeout,
		pending: make(map[string]chan *protocol.Message),
		updates: make(chan pool.Snapshot, 16),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.readPump()
	logger.Info("Connected to server")
	return c, nil
}

// Updates delivers every state pushed by the server. Slow readers miss
// intermediate states, never the connection.
func (c *Client) Updates() <-chan pool.Snapshot {
	return c.updates
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err reports why the connection ended
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close disconnects from the server
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// Purchase records a purchase on the server.
func (c *Client) Purchase(ctx context.Context, first, last string, quantity int) (pool.Buyer, error) {
	msg, err := c.request(ctx, protocol.TypePurchase, protocol.PurchaseData{
		FirstName: first,
		LastName:  last,
		Quantity:  quantity,
	})
	if err != nil {
		return pool.Buyer{}, err
	}
	var ack protocol.AckData
	if err := msg.Decode(&ack); err != nil {
		return pool.Buyer{}, err
	}
	if ack.Buyer == nil {
		return pool.Buyer{}, fmt.Errorf("purchase ack without buyer")
	}
	return *ack.Buyer, nil
}

// AssignSquares asks the server to shuffle squares onto the grid.
func (c *Client) AssignSquares(ctx context.Context) error {
	_, err := c.request(ctx, protocol.TypeAssignSquares, nil)
	return err
}

// AssignTeams asks the server to draw teams and digits.
func (c *Client) AssignTeams(ctx context.Context) error {
	_, err := c.request(ctx, protocol.TypeAssignTeams, nil)
	return err
}

// SetScore stores a score on the server.
func (c *Client) SetScore(ctx context.Context, q pool.Quarter, team, score string) error {
	_, err := c.request(ctx, protocol.TypeSetScore, protocol.SetScoreData{Quarter: q, Team: team, Score: score})
	return err
}

// Reset clears the remote pool.
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.request(ctx, protocol.TypeReset, nil)
	return err
}

// Snapshot fetches the current state.
func (c *Client) Snapshot(ctx context.Context) (pool.Snapshot, error) {
	msg, err := c.request(ctx, protocol.TypeGetState, nil)
	if err != nil {
		return pool.Snapshot{}, err
	}
	var data protocol.StateData
	if err := msg.Decode(&data); err != nil {
		return pool.Snapshot{}, err
	}
	return data.Snapshot, nil
}

// request sends one command and waits for the reply carrying its ID. Error
// replies come back as the typed pool error.
func (c *Client) request(ctx context.Context, typ protocol.MessageType, data any) (*protocol.Message, error) {
	msg, err := protocol.NewMessage(typ, data, c.clock.Now())
	if err != nil {
		return nil, err
	}

	replyCh := make(chan *protocol.Message, 1)
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.nextID++
	msg.RequestID = strconv.FormatUint(c.nextID, 10)
	c.pending[msg.RequestID] = replyCh
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = c.conn.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", typ, err)
	}

	timer := c.clock.NewTimer(c.timeout, "client", "request")
	defer timer.Stop()

	select {
	case reply := <-replyCh:
		if reply.Type == protocol.TypeError {
			var e protocol.ErrorData
			if err := reply.Decode(&e); err != nil {
				return nil, err
			}
			return nil, e.Err()
		}
		return reply, nil
	case <-c.done:
		return nil, ErrClosed
	case <-timer.C:
		return nil, fmt.Errorf("%s: %w", typ, ErrTimeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", typ, ctx.Err())
	}
}

func (c *Client) readPump() {
	var readErr error
	defer func() {
		c.mu.Lock()
		c.err = readErr
		if c.err == nil {
			c.err = ErrClosed
		}
		c.mu.Unlock()
		close(c.done)
		_ = c.conn.Close()
	}()

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Error("WebSocket error", "error", err)
			}
			readErr = err
			return
		}
		c.dispatch(&msg)
	}
}

func (c *Client) dispatch(msg *protocol.Message) {
	if msg.Type == protocol.TypeState && msg.RequestID == "" {
		var data protocol.StateData
		if err := msg.Decode(&data); err != nil {
			c.logger.Warn("Dropping malformed state", "error", err)
			return
		}
		c.publish(data.Snapshot)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[msg.RequestID]
	c.mu.Unlock()
	if !ok {
		c.logger.Debug("Dropping unsolicited message", "type", msg.Type, "request", msg.RequestID)
		return
	}
	ch <- msg
}

// publish keeps only the newest state when the reader falls behind
func (c *Client) publish(snap pool.Snapshot) {
	for {
		select {
		case c.updates <- snap:
			return
		default:
		}
		select {
		case <-c.updates:
		default:
		}
	}
}
