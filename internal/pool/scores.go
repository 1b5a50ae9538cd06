package pool

import (
	"math"
	"strconv"
	"strings"
)

// SetScore stores the raw score text for one team in one quarter. The text
// is kept verbatim; it is only interpreted when a winner is resolved.
func (p *Pool) SetScore(q Quarter, teamKey, text string) error {
	if !q.Valid() {
		return validationErr(ErrUnknownQuarter, "%d", int(q))
	}
	if _, ok := p.team(teamKey); !ok {
		return validationErr(ErrUnknownTeam, "%q", teamKey)
	}
	p.scores[q][teamKey] = text
	return nil
}

// Score returns the raw score text for one team in one quarter.
func (p *Pool) Score(q Quarter, teamKey string) string {
	if !q.Valid() {
		return ""
	}
	return p.scores[q][teamKey]
}

// ScoreDigit reduces a score to the digit the board is labelled with:
// abs(trunc(n)) mod 10. Empty and non-numeric text reports false.
func ScoreDigit(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return int(math.Mod(math.Abs(math.Trunc(n)), 10)), true
}
