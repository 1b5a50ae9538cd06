package pool

import (
	"strconv"
	"strings"
)

// Sold is the number of squares purchased so far.
func (p *Pool) Sold() int {
	sold := 0
	for _, b := range p.buyers {
		sold += b.Quantity
	}
	return sold
}

// Remaining is the number of squares still for sale.
func (p *Pool) Remaining() int {
	return MaxSquares - p.Sold()
}

// Pot is the money collected, Sold times the square price.
func (p *Pool) Pot() int {
	return p.Sold() * p.price
}

// PurchaseHistory returns the buyers in purchase order.
func (p *Pool) PurchaseHistory() []Buyer {
	out := make([]Buyer, len(p.buyers))
	copy(out, p.buyers)
	return out
}

// Buyer looks up a buyer by ID.
func (p *Pool) Buyer(id string) (Buyer, bool) {
	return p.buyer(id)
}

// AddPurchase records a purchase of quantity squares. Names are trimmed.
// Checks run in order and the first failure is returned: purchasing still
// open, both names present, quantity positive, quantity within what is left.
func (p *Pool) AddPurchase(first, last string, quantity int) (Buyer, error) {
	if p.squares {
		return Buyer{}, stateErr(ErrPurchasingClosed, "squares have been assigned")
	}
	remaining := p.Remaining()
	if remaining <= 0 {
		return Buyer{}, stateErr(ErrPurchasingClosed, "all %d squares are sold", MaxSquares)
	}

	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" || last == "" {
		return Buyer{}, validationErr(ErrMissingName, "enter both first and last name")
	}
	if quantity < 1 {
		return Buyer{}, validationErr(ErrInvalidQuantity, "quantity must be at least 1")
	}
	if quantity > remaining {
		return Buyer{}, validationErr(ErrExceedsRemaining, "only %d squares left", remaining)
	}

	b := Buyer{
		ID:          p.nextID(),
		FirstName:   first,
		LastName:    last,
		Quantity:    quantity,
		Initials:    Initials(first, last),
		PurchasedAt: p.clock.Now(),
	}
	p.byID[b.ID] = len(p.buyers)
	p.buyers = append(p.buyers, b)
	return b, nil
}

// ParseQuantity parses a quantity typed by a user. Only positive base-10
// integers are accepted.
func ParseQuantity(text string) (int, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, validationErr(ErrInvalidQuantity, "%q is not a whole number", text)
	}
	if n < 1 {
		return 0, validationErr(ErrInvalidQuantity, "quantity must be at least 1")
	}
	return n, nil
}
