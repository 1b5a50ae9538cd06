package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/squares/internal/pool"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypePurchase      MessageType = "purchase"
	TypeAssignSquares MessageType = "assign_squares"
	TypeAssignTeams   MessageType = "assign_teams"
	TypeSetScore      MessageType = "set_score"
	TypeReset         MessageType = "reset"
	TypeGetState      MessageType = "get_state"

	// Server -> Client
	TypeAck   MessageType = "ack"
	TypeError MessageType = "error"
	TypeState MessageType = "state"
)

func (t MessageType) String() string {
	return string(t)
}

// Message is the envelope every frame travels in
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message carrying data marshalled as JSON. A nil data
// leaves the payload empty.
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: now}
	if data == nil {
		return msg, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", messageType, err)
	}
	msg.Data = raw
	return msg, nil
}

// Decode unmarshals the payload into v.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s: empty payload", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("%s: %w", m.Type, err)
	}
	return nil
}

// Client -> Server payloads

type PurchaseData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Quantity  int    `json:"quantity"`
}

type SetScoreData struct {
	Quarter pool.Quarter `json:"quarter"`
	Team    string       `json:"team"`
	Score   string       `json:"score"`
}

// Server -> Client payloads

// AckData confirms a command. Buyer is set for purchases.
type AckData struct {
	Buyer *pool.Buyer `json:"buyer,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Err rebuilds the typed pool error the server reported.
func (e ErrorData) Err() error {
	return pool.ErrorFromCode(e.Code, e.Message)
}

// ErrorDataFrom describes err for the wire.
func ErrorDataFrom(err error) ErrorData {
	return ErrorData{Code: pool.Code(err), Message: pool.Detail(err)}
}

type StateData struct {
	Snapshot pool.Snapshot `json:"snapshot"`
}
