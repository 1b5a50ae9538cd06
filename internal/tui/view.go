package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/squares/internal/pool"
)

const cellWidth = 4

// Phase names where the pool is in its lifecycle
func Phase(s pool.Snapshot) string {
	switch {
	case s.TeamsAssigned:
		return "Teams drawn"
	case s.SquaresAssigned:
		return "Squares assigned"
	case s.Remaining == 0:
		return "Sold out"
	default:
		return "Selling"
	}
}

// RenderBoard draws the 10x10 grid with axis digits and owner initials.
// Digits show as "?" until teams are drawn; winning cells are highlighted.
func RenderBoard(s pool.Snapshot) string {
	var b strings.Builder

	if s.Axes != nil {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Rows: %s   Columns: %s", s.Axes.RowTeam.Name, s.Axes.ColTeam.Name)))
	} else {
		b.WriteString(InfoStyle.Render("Rows: ?   Columns: ?"))
	}
	b.WriteString("\n")

	b.WriteString(pad(""))
	for c := range pool.GridSize {
		label := "?"
		if s.Axes != nil {
			label = fmt.Sprint(s.Axes.ColDigits[c])
		}
		b.WriteString(AxisStyle.Render(pad(label)))
	}
	b.WriteString("\n")

	winning := make(map[[2]int]bool, len(s.Winners))
	for _, w := range s.Winners {
		winning[[2]int{w.Row, w.Col}] = true
	}

	for r := range pool.GridSize {
		label := "?"
		if s.Axes != nil {
			label = fmt.Sprint(s.Axes.RowDigits[r])
		}
		b.WriteString(AxisStyle.Render(pad(label)))
		for c := range pool.GridSize {
			owner, ok := s.OwnerAt(r, c)
			switch {
			case !ok:
				b.WriteString(EmptyCellStyle.Render(pad("·")))
			case winning[[2]int{r, c}]:
				b.WriteString(WinnerCellStyle.Render(pad(owner.Initials)))
			default:
				b.WriteString(CellStyle.Render(pad(owner.Initials)))
			}
		}
		if r < pool.GridSize-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderSales shows price, squares sold and remaining, and the pot.
func RenderSales(s pool.Snapshot) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Sales "))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Status:    %s\n", Phase(s))
	fmt.Fprintf(&b, "Price:     $%d/square\n", s.Price)
	fmt.Fprintf(&b, "Sold:      %d/%d\n", s.Sold, pool.MaxSquares)
	fmt.Fprintf(&b, "Remaining: %d\n", s.Remaining)
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot:       $%d", s.Pot)))
	return b.String()
}

// RenderHistory lists purchases in the order they were made.
func RenderHistory(s pool.Snapshot) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Purchases "))
	if len(s.Buyers) == 0 {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("none yet"))
		return b.String()
	}
	for _, buyer := range s.Buyers {
		fmt.Fprintf(&b, "\n%-3s %s x%d", buyer.Initials, buyer.FullName(), buyer.Quantity)
	}
	return b.String()
}

// RenderQuarters shows each quarter's scores and, once resolvable, its winner.
func RenderQuarters(s pool.Snapshot) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Scores "))
	for _, q := range pool.Quarters {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s  ", q)
		for _, t := range s.Teams {
			score := s.Score(q, t.Key)
			if score == "" {
				score = "-"
			}
			fmt.Fprintf(&b, "%s %-4s ", t.Key, score)
		}
		if w, ok := s.Winner(q); ok {
			b.WriteString(SuccessStyle.Render(fmt.Sprintf("→ %s (%d/%d)", w.Buyer.FullName(), w.RowDigit, w.ColDigit)))
		}
	}
	return b.String()
}

func pad(s string) string {
	return lipgloss.NewStyle().Width(cellWidth).Render(s)
}
