// Package inventory owns the in-memory seat inventory: flights, their rows
// and tickets, the registry that indexes them by code and state, and the
// locking protocol every operation goes through.
package inventory

import (
	"errors"
	"fmt"
)

// Kind groups errors into the three families reported to callers.
type Kind string

const (
	KindUnknown       Kind = "Unknown"
	KindNotFound      Kind = "NotFound"
	KindStateConflict Kind = "StateConflict"
	KindSeatConflict  Kind = "SeatConflict"
)

// codedError is a sentinel carrying a stable code and its kind.  Handlers
// compare with errors.Is and render Code to clients.
type codedError struct {
	code string
	kind Kind
	msg  string
}

func (e *codedError) Error() string { return e.msg }

func newError(code string, kind Kind, msg string) error {
	return &codedError{code: code, kind: kind, msg: msg}
}

// Lookup failures.
var (
	ErrFlightNotFound = newError("FlightNotFound", KindNotFound, "flight not found")
	ErrTicketNotFound = newError("TicketNotFound", KindNotFound, "ticket not found")
)

// Lifecycle conflicts.
var (
	ErrFlightNotPending = newError("FlightNotPending", KindStateConflict, "flight is not pending")
	ErrFlightConfirmed  = newError("FlightConfirmed", KindStateConflict, "flight is confirmed")
	ErrSameFlight       = newError("SameFlight", KindStateConflict, "source and target flight are the same")
)

// Seat conflicts.
var (
	ErrInvalidRow         = newError("InvalidRow", KindSeatConflict, "invalid row")
	ErrInvalidSeat        = newError("InvalidSeat", KindSeatConflict, "invalid seat")
	ErrSeatTaken          = newError("SeatTaken", KindSeatConflict, "seat already taken")
	ErrAlreadySeated      = newError("AlreadySeated", KindSeatConflict, "passenger already seated")
	ErrNotSeated          = newError("NotSeated", KindSeatConflict, "passenger is not seated")
	ErrCategoryNotAllowed = newError("CategoryNotAllowed", KindSeatConflict, "row category not allowed for ticket")
	ErrNoAvailableSeats   = newError("NoAvailableSeats", KindSeatConflict, "no available seats for ticket category")
)

// SeatError attaches the offending coordinates to a seat conflict.  It
// unwraps to the sentinel so errors.Is keeps working.
type SeatError struct {
	Err    error
	Row    int
	Column rune
}

func (e *SeatError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("%v: row %d", e.Err, e.Row)
	}
	return fmt.Sprintf("%v: %d%c", e.Err, e.Row, e.Column)
}

func (e *SeatError) Unwrap() error { return e.Err }

func seatErr(err error, row int, col rune) error {
	return &SeatError{Err: err, Row: row, Column: col}
}

// KindOf returns the family of err, or KindUnknown for errors that did not
// originate in this package.
func KindOf(err error) Kind {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.kind
	}
	return KindUnknown
}

// Code returns the stable code of err ("SeatTaken", "FlightNotFound", ...)
// or "Unknown".
func Code(err error) string {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return string(KindUnknown)
}
