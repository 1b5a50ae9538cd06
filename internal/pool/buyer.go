package pool

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Buyer is one purchase in the ledger. It is never modified after creation.
type Buyer struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Quantity    int       `json:"quantity"`
	Initials    string    `json:"initials"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// FullName joins first and last name.
func (b Buyer) FullName() string {
	return b.FirstName + " " + b.LastName
}

// Initials upper-cases the first letter of each name, using "?" for a
// missing half.
func Initials(first, last string) string {
	return initial(first) + initial(last)
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
