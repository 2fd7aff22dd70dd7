// Package service composes the seat inventory and the notification
// dispatcher into the booking operations exposed to callers.
package service

import (
	"context"

	"github.com/iliyamo/flight-seat-manager/internal/inventory"
	"github.com/iliyamo/flight-seat-manager/internal/logger"
	"github.com/iliyamo/flight-seat-manager/internal/metrics"
	"github.com/iliyamo/flight-seat-manager/internal/model"
	"github.com/iliyamo/flight-seat-manager/internal/notify"
)

// Notifier is the part of notify.Dispatcher the booking service uses.
type Notifier interface {
	Register(flightCode, passenger string, h notify.Handler) error
	Notify(ctx context.Context, flightCode, passenger string, ev notify.Event)
	Transfer(passenger, oldCode, newCode string) int
	Handlers(flightCode, passenger string) []notify.Handler
	NotifyHandlers(ctx context.Context, handlers []notify.Handler, ev notify.Event)
}

// BookingService runs booking operations against the inventory.  Every
// operation takes and releases its flight guards inside the inventory
// call; notifications are queued only after that call returned.
type BookingService struct {
	inv      *inventory.Registry
	notifier Notifier
	log      logger.Logger
}

// NewBookingService panics on nil dependencies, they are wiring bugs.
func NewBookingService(inv *inventory.Registry, notifier Notifier, log logger.Logger) *BookingService {
	if inv == nil || notifier == nil || log == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{inv: inv, notifier: notifier, log: log.With("component", "booking")}
}

// observe logs and counts the outcome of one operation.
func (s *BookingService) observe(op string, err error, kv ...interface{}) {
	result := "ok"
	if err != nil {
		result = inventory.Code(err)
	}
	metrics.Bookings.WithLabelValues(op, result).Inc()

	kv = append(kv, "operation", op, "result", result)
	switch inventory.KindOf(err) {
	case inventory.KindUnknown:
		if err != nil {
			s.log.Error("booking operation failed", append(kv, "error", err)...)
			return
		}
		s.log.Info("booking operation", kv...)
	default:
		s.log.Debug("booking operation rejected", append(kv, "error", err)...)
	}
}

// IsAvailable reports whether a seat of a pending flight is free.
func (s *BookingService) IsAvailable(_ context.Context, code string, row int, col rune) (bool, error) {
	free, err := s.inv.IsAvailable(code, row, col)
	s.observe("is_available", err, "flight", code, "row", row, "column", string(col), "free", free)
	return free, err
}

// Assign seats the passenger and notifies their subscriptions.
func (s *BookingService) Assign(ctx context.Context, code, passenger string, row int, col rune) error {
	a, err := s.inv.Assign(code, passenger, row, col)
	s.observe("assign", err, "flight", code, "passenger", passenger, "row", row, "column", string(col))
	if err != nil {
		return err
	}
	s.notifier.Notify(ctx, a.Flight, passenger, notify.NewSeatAssigned(a.Flight, a.Destination, passenger, a.Seat))
	return nil
}

// ChangeSeat moves a seated passenger and notifies their subscriptions.
func (s *BookingService) ChangeSeat(ctx context.Context, code, passenger string, row int, col rune) error {
	m, err := s.inv.ChangeSeat(code, passenger, row, col)
	s.observe("change_seat", err, "flight", code, "passenger", passenger, "row", row, "column", string(col))
	if err != nil {
		return err
	}
	from := m.From
	s.notifier.Notify(ctx, m.Flight, passenger, notify.NewSeatChanged(m.Flight, m.Destination, passenger, &from, m.To))
	return nil
}

// ListAlternativeFlights returns the pending flights to the same
// destination with room in the passenger's class or better, sorted by code.
func (s *BookingService) ListAlternativeFlights(_ context.Context, code, passenger string) ([]model.Alternative, error) {
	alts, err := s.inv.Alternatives(code, passenger)
	s.observe("list_alternatives", err, "flight", code, "passenger", passenger, "count", len(alts))
	return alts, err
}

// ChangeFlight moves the passenger's ticket to another flight, where it
// arrives unseated.  The target needs a free seat the ticket's class may
// use.  The passenger's subscriptions are re-keyed while both flights are
// still locked, so back-to-back moves can not leave them behind; the
// FlightChanged event is queued for them after the locks are gone.
func (s *BookingService) ChangeFlight(ctx context.Context, passenger, oldCode, newCode string) error {
	var (
		handlers []notify.Handler
		moved    int
	)
	t, err := s.inv.ChangeFlight(passenger, oldCode, newCode, func(t inventory.Transfer) {
		handlers = s.notifier.Handlers(t.OldFlight, passenger)
		moved = s.notifier.Transfer(passenger, t.OldFlight, t.NewFlight)
	})
	s.observe("change_flight", err, "passenger", passenger, "from", oldCode, "to", newCode)
	if err != nil {
		return err
	}
	if moved > 0 {
		s.log.Debug("subscriptions moved", "passenger", passenger, "from", t.OldFlight, "to", t.NewFlight, "handlers", moved)
	}
	s.notifier.NotifyHandlers(ctx, handlers, notify.NewFlightChanged(passenger, t.OldFlight, t.NewFlight, t.NewDestination))
	return nil
}

// RegisterNotifications subscribes h to the passenger's notifications on a
// flight that is not confirmed and on which the passenger holds a ticket.
func (s *BookingService) RegisterNotifications(_ context.Context, code, passenger string, h notify.Handler) error {
	err := s.notifier.Register(code, passenger, h)
	s.observe("register_notifications", err, "flight", code, "passenger", passenger)
	return err
}

// SeatMap returns the seat map of a flight in any state.
func (s *BookingService) SeatMap(_ context.Context, code string) ([]model.RowView, error) {
	return s.inv.SeatMap(code)
}

// Flight returns a summary of a flight in any state.
func (s *BookingService) Flight(_ context.Context, code string) (model.FlightSummary, error) {
	return s.inv.Summary(code)
}

// Flights lists the summaries of every flight in the given state.
func (s *BookingService) Flights(ctx context.Context, state model.FlightState) ([]model.FlightSummary, error) {
	flights := s.inv.FlightsByState(state)
	out := make([]model.FlightSummary, 0, len(flights))
	for _, f := range flights {
		sum, err := s.Flight(ctx, f.Code())
		if err != nil {
			// Raced with a transition; skip it.
			continue
		}
		if sum.State != state {
			continue
		}
		out = append(out, sum)
	}
	return out, nil
}

// ConfirmFlight closes a flight for changes.  Later operations other than
// queries fail with FlightNotPending or FlightConfirmed.
func (s *BookingService) ConfirmFlight(_ context.Context, code string) error {
	err := s.inv.Confirm(code)
	s.observe("confirm_flight", err, "flight", code)
	return err
}
