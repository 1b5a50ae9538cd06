package pool

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// GridSize is the number of rows and columns on the board.
	GridSize = 10
	// MaxSquares is the hard cap on squares sold.
	MaxSquares = GridSize * GridSize
)

// Team is one side of the game. Key is the short name scores are entered
// under; Name is what the board displays.
type Team struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// DefaultTeams are the two teams a pool plays with unless configured otherwise.
var DefaultTeams = [2]Team{
	{Key: "Patriots", Name: "New England Patriots"},
	{Key: "Seahawks", Name: "Seattle Seahawks"},
}

// Quarter indexes one of the four scoring periods.
type Quarter int

const (
	Q1 Quarter = iota
	Q2
	Q3
	Q4
)

// NumQuarters is the number of scoring periods.
const NumQuarters = 4

// Quarters lists every quarter in play order.
var Quarters = [NumQuarters]Quarter{Q1, Q2, Q3, Q4}

func (q Quarter) String() string {
	if !q.Valid() {
		return fmt.Sprintf("Quarter(%d)", int(q))
	}
	return "Q" + strconv.Itoa(int(q)+1)
}

// Valid reports whether q is one of Q1..Q4.
func (q Quarter) Valid() bool {
	return q >= Q1 && q <= Q4
}

// MarshalText encodes a quarter as "Q1".."Q4".
func (q Quarter) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, validationErr(ErrUnknownQuarter, "%d", int(q))
	}
	return []byte(q.String()), nil
}

// UnmarshalText accepts anything ParseQuarter does.
func (q *Quarter) UnmarshalText(text []byte) error {
	parsed, err := ParseQuarter(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// ParseQuarter accepts "Q1", "q1" or "1" through "Q4".
func ParseQuarter(s string) (Quarter, error) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "Q")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > NumQuarters {
		return 0, validationErr(ErrUnknownQuarter, "%q is not Q1-Q4", s)
	}
	return Quarter(n - 1), nil
}
