package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/squares/internal/pool"
)

// CommandKind identifies what a typed line asks for
type CommandKind int

const (
	CmdBuy CommandKind = iota
	CmdAssignSquares
	CmdAssignTeams
	CmdScore
	CmdReset
	CmdHelp
	CmdQuit
)

// Command is one parsed input line
type Command struct {
	Kind      CommandKind
	FirstName string
	LastName  string
	Quantity  int
	Quarter   pool.Quarter
	Team      string
	Score     string
}

// ErrUnknownCommand is returned for lines that match no command
var ErrUnknownCommand = errors.New("unknown command")

const helpText = `Commands:
  buy <first> <last> <qty>       buy squares (last name may contain spaces)
  assign squares                 shuffle sold squares onto the board
  assign teams                   draw teams and digits for both axes
  score <Q1-Q4> <team> [score]   set or clear a quarter score
  reset                          start over
  help                           show this help
  quit                           leave`

// ParseCommand parses one line of input. Team names match the configured
// keys case-insensitively and are returned in their configured spelling.
func ParseCommand(line string, teams [2]pool.Team) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "buy":
		if len(args) < 3 {
			return Command{}, fmt.Errorf("usage: buy <first> <last> <qty>")
		}
		qty, err := pool.ParseQuantity(args[len(args)-1])
		if err != nil {
			return Command{}, err
		}
		return Command{
			Kind:      CmdBuy,
			FirstName: args[0],
			LastName:  strings.Join(args[1:len(args)-1], " "),
			Quantity:  qty,
		}, nil

	case "assign":
		if len(args) == 1 {
			switch strings.ToLower(args[0]) {
			case "squares":
				return Command{Kind: CmdAssignSquares}, nil
			case "teams", "numbers":
				return Command{Kind: CmdAssignTeams}, nil
			}
		}
		return Command{}, fmt.Errorf("usage: assign squares | assign teams")

	case "score":
		if len(args) < 2 || len(args) > 3 {
			return Command{}, fmt.Errorf("usage: score <Q1-Q4> <team> [score]")
		}
		q, err := pool.ParseQuarter(args[0])
		if err != nil {
			return Command{}, err
		}
		team, ok := matchTeam(args[1], teams)
		if !ok {
			return Command{}, fmt.Errorf("unknown team %q, expected %s or %s", args[1], teams[0].Key, teams[1].Key)
		}
		cmd := Command{Kind: CmdScore, Quarter: q, Team: team}
		if len(args) == 3 {
			cmd.Score = args[2]
		}
		return cmd, nil

	case "reset":
		return Command{Kind: CmdReset}, nil
	case "help", "?":
		return Command{Kind: CmdHelp}, nil
	case "quit", "exit", "q":
		return Command{Kind: CmdQuit}, nil
	}

	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, verb)
}

func matchTeam(s string, teams [2]pool.Team) (string, bool) {
	for _, t := range teams {
		if strings.EqualFold(s, t.Key) {
			return t.Key, true
		}
	}
	return "", false
}
