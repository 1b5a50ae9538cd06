package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/squares/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBuffer = 64
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client
type Connection struct {
	conn      *websocket.Conn
	server    *Server
	send      chan *protocol.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func newConnection(conn *websocket.Conn, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		server: server,
		send:   make(chan *protocol.Message, sendBuffer),
		logger: server.logger.WithPrefix("conn").With("remote", conn.RemoteAddr().String()),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues msg without blocking. A client that falls a full
// buffer behind is disconnected.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		go func() { _ = c.Close() }()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)
	ctx := c.ctx
	svc := c.server.service

	switch msg.Type {
	case protocol.TypePurchase:
		var data protocol.PurchaseData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg.RequestID, "invalid_message", err.Error())
			return
		}
		b, err := svc.Purchase(ctx, data.FirstName, data.LastName, data.Quantity)
		if err != nil {
			c.sendPoolError(msg.RequestID, err)
			return
		}
		c.sendAck(msg.RequestID, protocol.AckData{Buyer: &b})

	case protocol.TypeAssignSquares:
		c.reply(msg.RequestID, svc.AssignSquares(ctx))

	case protocol.TypeAssignTeams:
		c.reply(msg.RequestID, svc.AssignTeams(ctx))

	case protocol.TypeSetScore:
		var data protocol.SetScoreData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg.RequestID, "invalid_message", err.Error())
			return
		}
		c.reply(msg.RequestID, svc.SetScore(ctx, data.Quarter, data.Team, data.Score))

	case protocol.TypeReset:
		c.reply(msg.RequestID, svc.Reset(ctx))

	case protocol.TypeGetState:
		snap, err := svc.Snapshot(ctx)
		if err != nil {
			c.sendPoolError(msg.RequestID, err)
			return
		}
		c.server.sendState(c, snap, msg.RequestID)

	default:
		c.sendError(msg.RequestID, "unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) reply(requestID string, err error) {
	if err != nil {
		c.sendPoolError(requestID, err)
		return
	}
	c.sendAck(requestID, protocol.AckData{})
}

func (c *Connection) sendAck(requestID string, data protocol.AckData) {
	c.sendMessage(protocol.TypeAck, data, requestID)
}

func (c *Connection) sendPoolError(requestID string, err error) {
	data := protocol.ErrorDataFrom(err)
	c.sendMessage(protocol.TypeError, data, requestID)
}

func (c *Connection) sendError(requestID, code, message string) {
	c.sendMessage(protocol.TypeError, protocol.ErrorData{Code: code, Message: message}, requestID)
}

func (c *Connection) sendMessage(t protocol.MessageType, data any, requestID string) {
	msg, err := protocol.NewMessage(t, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	msg.RequestID = requestID
	if err := c.SendMessage(msg); err != nil {
		c.logger.Debug("Failed to queue message", "type", t, "error", err)
	}
}
