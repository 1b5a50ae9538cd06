package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/squares/internal/pool"
	"github.com/lox/squares/internal/randutil"
	"github.com/lox/squares/internal/server"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestService(t *testing.T, seed int64) *server.Service {
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
	return server.NewService(p, testLogger())
}

func newTestModel(t *testing.T, ctrl Controller, updates <-chan pool.Snapshot) *Model {
	t.Helper()
	m := New(ctrl, testLogger(), updates)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	feed(t, m, m.refresh())
	return m
}

// feed runs cmd synchronously and hands its message back to the model
func feed(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func execute(t *testing.T, m *Model, line string) {
	t.Helper()
	feed(t, m, m.Execute(line))
}

func logText(m *Model) string {
	return strings.Join(m.Log(), "\n")
}
