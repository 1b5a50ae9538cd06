package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/squares/internal/pool"
	"github.com/lox/squares/internal/protocol"
	"github.com/lox/squares/internal/randutil"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestService(t *testing.T, seed int64, opts ...ServiceOption) *Service {
	t.Helper()
	n := 0
	p := pool.New(
		pool.WithRand(randutil.New(seed)),
		pool.WithClock(quartz.NewMock(t)),
		pool.WithIDSource(func() string {
			n++
			return fmt.Sprintf("b%d", n)
		}),
	)
	return NewService(p, testLogger(), opts...)
}

func startTestServer(t *testing.T, seed int64) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(newTestService(t, seed), testLogger(), WithClock(quartz.NewMock(t)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ protocol.MessageType, data any, requestID string) {
	t.Helper()
	msg, err := protocol.NewMessage(typ, data, time.Now())
	require.NoError(t, err)
	msg.RequestID = requestID
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil reads frames until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(*protocol.Message) bool) *protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg protocol.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if match(&msg) {
			return &msg
		}
	}
}

func reply(t *testing.T, conn *websocket.Conn, requestID string) *protocol.Message {
	t.Helper()
	return readUntil(t, conn, func(m *protocol.Message) bool { return m.RequestID == requestID })
}

func decodeState(t *testing.T, msg *protocol.Message) pool.Snapshot {
	t.Helper()
	require.Equal(t, protocol.TypeState, msg.Type)
	var data protocol.StateData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data.Snapshot
}
