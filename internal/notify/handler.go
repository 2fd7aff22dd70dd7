package notify

import "context"

// Handler receives the notifications of the passengers it is registered
// for.  Calls happen on dispatcher workers, never on the booking path; an
// error is logged and the notification is not retried.
type Handler interface {
	OnSeatAssigned(ctx context.Context, ev SeatAssigned) error
	OnSeatChanged(ctx context.Context, ev SeatChanged) error
	OnFlightChanged(ctx context.Context, ev FlightChanged) error
}

// HandlerFuncs adapts plain functions to Handler.  Nil fields ignore the
// corresponding event.
type HandlerFuncs struct {
	SeatAssigned  func(ctx context.Context, ev SeatAssigned) error
	SeatChanged   func(ctx context.Context, ev SeatChanged) error
	FlightChanged func(ctx context.Context, ev FlightChanged) error
}

func (h HandlerFuncs) OnSeatAssigned(ctx context.Context, ev SeatAssigned) error {
	if h.SeatAssigned == nil {
		return nil
	}
	return h.SeatAssigned(ctx, ev)
}

func (h HandlerFuncs) OnSeatChanged(ctx context.Context, ev SeatChanged) error {
	if h.SeatChanged == nil {
		return nil
	}
	return h.SeatChanged(ctx, ev)
}

func (h HandlerFuncs) OnFlightChanged(ctx context.Context, ev FlightChanged) error {
	if h.FlightChanged == nil {
		return nil
	}
	return h.FlightChanged(ctx, ev)
}

// EventFunc adapts a single function receiving every event to Handler.
type EventFunc func(ctx context.Context, ev Event) error

func (f EventFunc) OnSeatAssigned(ctx context.Context, ev SeatAssigned) error { return f(ctx, ev) }

func (f EventFunc) OnSeatChanged(ctx context.Context, ev SeatChanged) error { return f(ctx, ev) }

func (f EventFunc) OnFlightChanged(ctx context.Context, ev FlightChanged) error { return f(ctx, ev) }
