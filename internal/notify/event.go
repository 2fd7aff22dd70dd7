package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/flight-seat-manager/internal/model"
)

// Event type names, also used as the "type" field on the wire.
const (
	TypeSeatAssigned  = "seat.assigned"
	TypeSeatChanged   = "seat.changed"
	TypeFlightChanged = "flight.changed"
)

// Meta is carried by every event.  Flight is the code the subscription was
// registered under.
type Meta struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Flight     string    `json:"flight"`
	Passenger  string    `json:"passenger"`
}

func newMeta(flight, passenger string) Meta {
	return Meta{ID: uuid.NewString(), OccurredAt: time.Now().UTC(), Flight: flight, Passenger: passenger}
}

func (m Meta) meta() Meta { return m }

// Event is one of SeatAssigned, SeatChanged or FlightChanged.
type Event interface {
	Type() string
	meta() Meta
	deliver(ctx context.Context, h Handler) error
}

// SeatAssigned is sent when a passenger is given a seat.
type SeatAssigned struct {
	Meta
	Destination string        `json:"destination"`
	Seat        model.SeatRef `json:"seat"`
}

// NewSeatAssigned stamps a SeatAssigned event with a fresh id and time.
func NewSeatAssigned(flight, destination, passenger string, seat model.SeatRef) SeatAssigned {
	return SeatAssigned{Meta: newMeta(flight, passenger), Destination: destination, Seat: seat}
}

func (SeatAssigned) Type() string { return TypeSeatAssigned }

func (e SeatAssigned) deliver(ctx context.Context, h Handler) error { return h.OnSeatAssigned(ctx, e) }

// SeatChanged is sent when a passenger moves to another seat on the same
// flight.  From is nil when the passenger had no previous seat.
type SeatChanged struct {
	Meta
	Destination string         `json:"destination"`
	From        *model.SeatRef `json:"from,omitempty"`
	To          model.SeatRef  `json:"to"`
}

// NewSeatChanged stamps a SeatChanged event.
func NewSeatChanged(flight, destination, passenger string, from *model.SeatRef, to model.SeatRef) SeatChanged {
	return SeatChanged{Meta: newMeta(flight, passenger), Destination: destination, From: from, To: to}
}

func (SeatChanged) Type() string { return TypeSeatChanged }

func (e SeatChanged) deliver(ctx context.Context, h Handler) error { return h.OnSeatChanged(ctx, e) }

// FlightChanged is sent when a passenger's ticket moves to another flight.
type FlightChanged struct {
	Meta
	OldCode        string `json:"old_code"`
	NewCode        string `json:"new_code"`
	NewDestination string `json:"new_destination"`
}

// NewFlightChanged stamps a FlightChanged event.  It is addressed to the
// subscriptions of the old flight.
func NewFlightChanged(passenger, oldCode, newCode, newDestination string) FlightChanged {
	return FlightChanged{Meta: newMeta(oldCode, passenger), OldCode: oldCode, NewCode: newCode, NewDestination: newDestination}
}

func (FlightChanged) Type() string { return TypeFlightChanged }

func (e FlightChanged) deliver(ctx context.Context, h Handler) error { return h.OnFlightChanged(ctx, e) }
