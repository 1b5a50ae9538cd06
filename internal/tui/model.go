package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/squares/internal/pool"
)

const (
	commandTimeout = 10 * time.Second
	logPaneHeight  = 8
)

// Model is the Bubble Tea model for running a pool from the terminal
type Model struct {
	ctrl    Controller
	logger  *log.Logger
	updates <-chan pool.Snapshot

	logViewport viewport.Model
	input       textinput.Model

	snapshot pool.Snapshot
	loaded   bool
	logLines []string
	quitting bool

	width  int
	height int
}

// snapshotMsg carries fresh state; pushed marks state that arrived on the
// updates channel rather than from our own refresh.
type snapshotMsg struct {
	snapshot pool.Snapshot
	pushed   bool
}

// resultMsg reports the outcome of one executed command
type resultMsg struct {
	text     string
	err      error
	snapshot *pool.Snapshot
}

type updatesClosedMsg struct{}

// New creates a model driving ctrl. updates may be nil; when set, every
// snapshot received on it replaces the displayed state.
func New(ctrl Controller, logger *log.Logger, updates <-chan pool.Snapshot) *Model {
	vp := viewport.New(80, logPaneHeight)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "buy <first> <last> <qty>, assign squares, assign teams, score Q1 <team> <score>, help"
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 80
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		ctrl:        ctrl,
		logger:      logger.WithPrefix("tui"),
		updates:     updates,
		logViewport: vp,
		input:       ti,
	}
}

// Init loads the initial state and starts listening for pushed updates
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh(), m.waitForUpdate())
}

// Snapshot returns the state currently on screen
func (m *Model) Snapshot() pool.Snapshot {
	return m.snapshot
}

// Log returns the lines written to the log pane
func (m *Model) Log() []string {
	return m.logLines
}

// Quitting reports whether the user asked to leave
func (m *Model) Quitting() bool {
	return m.quitting
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = max(msg.Width-4, 1)
		m.logViewport.Height = logPaneHeight
		m.input.Width = max(msg.Width-8, 1)
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case snapshotMsg:
		m.apply(msg.snapshot)
		if msg.pushed {
			cmds = append(cmds, m.waitForUpdate())
		}

	case resultMsg:
		if msg.err != nil {
			m.addLog(ErrorStyle.Render("error: " + msg.err.Error()))
		} else if msg.text != "" {
			m.addLog(SuccessStyle.Render(msg.text))
		}
		if msg.snapshot != nil {
			m.apply(*msg.snapshot)
		}

	case updatesClosedMsg:
		m.addLog(WarningStyle.Render("disconnected from server"))
		m.updates = nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			cmd := m.Execute(line)
			return m, cmd
		case "pgup":
			m.logViewport.HalfPageUp()
			return m, nil
		case "pgdown":
			m.logViewport.HalfPageDown()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Execute parses and runs one command line. Parse errors, help and quit
// are handled immediately; everything else returns a command that calls
// the controller and reports back with a resultMsg.
func (m *Model) Execute(line string) tea.Cmd {
	m.addLog(InfoStyle.Render("> " + line))

	cmd, err := ParseCommand(line, m.snapshot.Teams)
	if err != nil {
		m.addLog(ErrorStyle.Render(err.Error()))
		return nil
	}

	ctrl := m.ctrl
	switch cmd.Kind {
	case CmdHelp:
		for _, l := range strings.Split(helpText, "\n") {
			m.addLog(l)
		}
		return nil
	case CmdQuit:
		m.quitting = true
		return tea.Quit
	case CmdBuy:
		return run(ctrl, func(ctx context.Context) (string, error) {
			b, err := ctrl.Purchase(ctx, cmd.FirstName, cmd.LastName, cmd.Quantity)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s (%s) bought %d", b.FullName(), b.Initials, b.Quantity), nil
		})
	case CmdAssignSquares:
		return run(ctrl, func(ctx context.Context) (string, error) {
			return "squares assigned", ctrl.AssignSquares(ctx)
		})
	case CmdAssignTeams:
		return run(ctrl, func(ctx context.Context) (string, error) {
			return "teams and numbers drawn", ctrl.AssignTeams(ctx)
		})
	case CmdScore:
		return run(ctrl, func(ctx context.Context) (string, error) {
			if cmd.Score == "" {
				return fmt.Sprintf("%s %s cleared", cmd.Quarter, cmd.Team), ctrl.SetScore(ctx, cmd.Quarter, cmd.Team, "")
			}
			return fmt.Sprintf("%s %s %s", cmd.Quarter, cmd.Team, cmd.Score), ctrl.SetScore(ctx, cmd.Quarter, cmd.Team, cmd.Score)
		})
	case CmdReset:
		return run(ctrl, func(ctx context.Context) (string, error) {
			return "pool reset", ctrl.Reset(ctx)
		})
	}
	return nil
}

// run executes fn off the UI goroutine and follows it with a snapshot so
// the board reflects the command even without pushed updates.
func run(ctrl Controller, fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		text, err := fn(ctx)
		if err != nil {
			return resultMsg{err: err}
		}
		snap, err := ctrl.Snapshot(ctx)
		if err != nil {
			return resultMsg{text: text, err: err}
		}
		return resultMsg{text: text, snapshot: &snap}
	}
}

func (m *Model) refresh() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		snap, err := ctrl.Snapshot(ctx)
		if err != nil {
			return resultMsg{err: err}
		}
		return snapshotMsg{snapshot: snap}
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	ch := m.updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg{snapshot: snap, pushed: true}
	}
}

// apply replaces the displayed state and announces newly resolved winners
func (m *Model) apply(snap pool.Snapshot) {
	prev := m.snapshot
	m.snapshot = snap
	if !m.loaded {
		m.loaded = true
		return
	}
	for _, w := range snap.Winners {
		if old, ok := prev.Winner(w.Quarter); ok && old.Buyer.ID == w.Buyer.ID && old.Row == w.Row && old.Col == w.Col {
			continue
		}
		m.addLog(SuccessStyle.Render(fmt.Sprintf("%s winner: %s (%s %d, %s %d)",
			w.Quarter, w.Buyer.FullName(), w.RowTeam.Key, w.RowDigit, w.ColTeam.Key, w.ColDigit)))
	}
}

func (m *Model) addLog(line string) {
	m.logLines = append(m.logLines, line)
	m.logViewport.SetContent(strings.Join(m.logLines, "\n"))
	m.logViewport.GotoBottom()
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	board := paneStyle.Render(RenderBoard(m.snapshot))
	quarters := paneStyle.Render(RenderQuarters(m.snapshot))
	left := lipgloss.JoinVertical(lipgloss.Left, board, quarters)

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		paneStyle.Render(RenderSales(m.snapshot)),
		paneStyle.Render(RenderHistory(m.snapshot)),
	)

	top := lipgloss.JoinHorizontal(lipgloss.Top, left, sidebar)
	logPane := paneStyle.Width(max(m.width-2, 1)).Render(m.logViewport.View())

	help := InfoStyle.Render("Enter to submit • PgUp/PgDn scroll log • Ctrl+C to quit")
	input := inputPaneStyle.Width(max(m.width-2, 1)).Render(m.input.View() + "\n" + help)

	return lipgloss.JoinVertical(lipgloss.Left, top, logPane, input)
}
