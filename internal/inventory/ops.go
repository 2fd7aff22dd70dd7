package inventory

import (
	"errors"

	"github.com/iliyamo/flight-seat-manager/internal/model"
)

// Assignment describes a seat that was just taken.
type Assignment struct {
	Flight      string
	Destination string
	Seat        model.SeatRef
}

// SeatMove describes a seat change on one flight.
type SeatMove struct {
	Flight      string
	Destination string
	From        model.SeatRef
	To          model.SeatRef
}

// Transfer describes a ticket that moved between flights.
type Transfer struct {
	OldFlight      string
	NewFlight      string
	NewDestination string
	FreedSeat      *model.SeatRef
}

// IsAvailable reports whether a seat of a pending flight is free.
func (r *Registry) IsAvailable(code string, row int, col rune) (bool, error) {
	var free bool
	err := r.withFlight(code, RequirePending, func(f *Flight) error {
		var err error
		free, err = f.checkSeat(row, col)
		return err
	})
	return free, err
}

// Assign seats an unseated passenger on a pending flight.
func (r *Registry) Assign(code, passenger string, row int, col rune) (Assignment, error) {
	var out Assignment
	err := r.withFlight(code, RequirePending, func(f *Flight) error {
		seat, err := f.assignSeat(row, col, passenger)
		if err != nil {
			return err
		}
		out = Assignment{Flight: f.code, Destination: f.destination, Seat: seat}
		return nil
	})
	return out, err
}

// ChangeSeat moves a seated passenger to another free seat of a pending
// flight.
func (r *Registry) ChangeSeat(code, passenger string, row int, col rune) (SeatMove, error) {
	var out SeatMove
	err := r.withFlight(code, RequirePending, func(f *Flight) error {
		from, to, err := f.changeSeat(row, col, passenger)
		if err != nil {
			return err
		}
		out = SeatMove{Flight: f.code, Destination: f.destination, From: from, To: to}
		return nil
	})
	return out, err
}

// Ticket returns a copy of the passenger's ticket on a flight that is not
// confirmed.
func (r *Registry) Ticket(code, passenger string) (model.Ticket, error) {
	var out model.Ticket
	err := r.withFlight(code, RequireNotConfirmed, func(f *Flight) error {
		t, ok := f.ticket(passenger)
		if !ok {
			return ErrTicketNotFound
		}
		out = t
		return nil
	})
	return out, err
}

// WithTicket runs fn while the passenger's ticket is guaranteed to sit on a
// flight that is not confirmed.  fn must not call back into the Registry.
func (r *Registry) WithTicket(code, passenger string, fn func() error) error {
	return r.withFlight(code, RequireNotConfirmed, func(f *Flight) error {
		if _, ok := f.tickets[passenger]; !ok {
			return ErrTicketNotFound
		}
		return fn()
	})
}

// Alternatives lists pending flights to the same destination as the
// passenger's ticket.  A flight qualifies when it has a free seat the
// ticket's class may use, business included; its entry maps the categories
// from the ticket's class up to but excluding business.  Flights with an
// empty map are left out, so business tickets get no alternatives.  The
// source flight is never listed.
//
// Each flight is locked on its own: the source first to read the ticket,
// then every candidate in code order.  A candidate confirmed in between is
// skipped.
func (r *Registry) Alternatives(code, passenger string) ([]model.Alternative, error) {
	t, err := r.Ticket(code, passenger)
	if err != nil {
		return nil, err
	}
	out := make([]model.Alternative, 0)
	for _, cand := range r.FlightsByState(model.StatePending) {
		if cand.code == code || cand.destination != t.Destination {
			continue
		}
		var avail map[model.RowCategory]int
		err := r.withFlight(cand.code, RequirePending, func(f *Flight) error {
			if _, ok := f.bestAvailableCategoryAtOrAbove(t.Category); ok {
				avail = f.alternativeSeats(t.Category)
			}
			return nil
		})
		if errors.Is(err, ErrFlightNotPending) || errors.Is(err, ErrFlightNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(avail) == 0 {
			continue
		}
		out = append(out, model.Alternative{Code: cand.code, Destination: cand.destination, Available: avail})
	}
	return out, nil
}

// ChangeFlight moves the passenger's ticket from oldCode to newCode.  The
// source must not be confirmed, the target must be pending and must have a
// free seat at or above the ticket's category.  The ticket arrives unseated.
//
// onMoved, when not nil, runs after the move while both flights are still
// locked, so anything keyed by the ticket's flight can follow it in the same
// order as the moves.  It must not call back into the registry.
func (r *Registry) ChangeFlight(passenger, oldCode, newCode string, onMoved func(Transfer)) (Transfer, error) {
	var out Transfer
	err := r.withFlightPair(oldCode, newCode, RequireNotConfirmed, RequirePending, func(src, dst *Flight) error {
		t, ok := src.tickets[passenger]
		if !ok {
			return ErrTicketNotFound
		}
		if _, ok := dst.bestAvailableCategoryAtOrAbove(t.Category); !ok {
			return ErrNoAvailableSeats
		}
		var freed *model.SeatRef
		if t.Seat != nil {
			s := *t.Seat
			freed = &s
		}
		if _, err := src.moveTicket(passenger, dst); err != nil {
			return err
		}
		out = Transfer{OldFlight: src.code, NewFlight: dst.code, NewDestination: dst.destination, FreedSeat: freed}
		if onMoved != nil {
			onMoved(out)
		}
		return nil
	})
	return out, err
}

// SeatMap renders every row of a flight in any state.
func (r *Registry) SeatMap(code string) ([]model.RowView, error) {
	var out []model.RowView
	err := r.withFlight(code, AnyState, func(f *Flight) error {
		out = f.seatMap()
		return nil
	})
	return out, err
}

// Summary returns the flight's counters in any state.
func (r *Registry) Summary(code string) (model.FlightSummary, error) {
	var out model.FlightSummary
	err := r.withFlight(code, AnyState, func(f *Flight) error {
		out = f.summary()
		return nil
	})
	return out, err
}

// AvailableByCategory returns the free seats of one category.
func (r *Registry) AvailableByCategory(code string, c model.RowCategory) (int, error) {
	var n int
	err := r.withFlight(code, AnyState, func(f *Flight) error {
		n = f.availableByCategory(c)
		return nil
	})
	return n, err
}

// Confirm closes a pending flight for booking.  Confirming twice fails.
func (r *Registry) Confirm(code string) error {
	return r.transition(code, model.StateConfirmed, RequireNotConfirmed)
}
