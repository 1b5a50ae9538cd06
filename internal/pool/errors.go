package pool

import (
	"errors"
	"fmt"
)

// Rejection reasons. Match them with errors.Is against the returned
// *ValidationError or *StateError.
var (
	ErrMissingName      = errors.New("missing name")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrExceedsRemaining = errors.New("exceeds remaining")
	ErrUnknownQuarter   = errors.New("unknown quarter")
	ErrUnknownTeam      = errors.New("unknown team")

	ErrPurchasingClosed   = errors.New("purchasing closed")
	ErrPoolIncomplete     = errors.New("pool incomplete")
	ErrSquaresAssigned    = errors.New("squares already assigned")
	ErrSquaresNotAssigned = errors.New("squares not assigned")
	ErrTeamsAssigned      = errors.New("teams already assigned")
)

// ValidationError reports bad caller input. State is never mutated.
type ValidationError struct {
	Reason  error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// StateError reports a gated transition attempted out of order. State is
// never mutated.
type StateError struct {
	Reason  error
	Message string
}

func (e *StateError) Error() string {
	if e.Message == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *StateError) Unwrap() error { return e.Reason }

func validationErr(reason error, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func stateErr(reason error, format string, args ...any) error {
	return &StateError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

var codes = map[error]string{
	ErrMissingName:        "missing_name",
	ErrInvalidQuantity:    "invalid_quantity",
	ErrExceedsRemaining:   "exceeds_remaining",
	ErrUnknownQuarter:     "unknown_quarter",
	ErrUnknownTeam:        "unknown_team",
	ErrPurchasingClosed:   "purchasing_closed",
	ErrPoolIncomplete:     "pool_incomplete",
	ErrSquaresAssigned:    "squares_assigned",
	ErrSquaresNotAssigned: "squares_not_assigned",
	ErrTeamsAssigned:      "teams_assigned",
}

// Code returns the stable wire code for a pool error, or "internal" for
// anything the engine did not produce.
func Code(err error) string {
	for reason, code := range codes {
		if errors.Is(err, reason) {
			return code
		}
	}
	return "internal"
}

// ErrorFromCode rebuilds the typed error a remote peer reported. Unknown
// codes come back as a plain error carrying the message.
func ErrorFromCode(code, message string) error {
	for reason, c := range codes {
		if c != code {
			continue
		}
		switch reason {
		case ErrMissingName, ErrInvalidQuantity, ErrExceedsRemaining, ErrUnknownQuarter, ErrUnknownTeam:
			return &ValidationError{Reason: reason, Message: message}
		default:
			return &StateError{Reason: reason, Message: message}
		}
	}
	return fmt.Errorf("%s: %s", code, message)
}

// Detail returns the human message of a pool error without its reason
// prefix, the counterpart of ErrorFromCode.
func Detail(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var se *StateError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
