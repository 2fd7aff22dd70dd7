package inventory

import (
	"fmt"
	"sync"

	"github.com/iliyamo/flight-seat-manager/internal/model"
)

// Flight is one flight's seat inventory.  It carries two guards:
//
//   - stateMu protects state (lifecycle) and is the guard the registry
//     takes when it moves the flight between state buckets.
//   - contentMu protects rows, available and tickets.
//
// Neither guard is reachable from outside the package.  Every unexported
// method below expects the caller to hold both guards; callers obtain them
// through Registry.WithFlight or Registry.WithFlightPair (see lock.go).
type Flight struct {
	code        string
	destination string

	stateMu sync.Mutex
	state   model.FlightState

	contentMu sync.Mutex
	rows      []row
	total     [3]int
	available [3]int
	tickets   map[string]*model.Ticket
}

// NewFlight builds a PENDING flight from a plane layout and its unseated
// tickets.  Rows are materialised business first.  Ticket destinations
// default to the flight's destination and any seat they carry is cleared.
func NewFlight(code, destination string, layout model.Layout, tickets []model.Ticket) (*Flight, error) {
	if code == "" {
		return nil, fmt.Errorf("flight code is required")
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("flight %s: %w", code, err)
	}
	f := &Flight{
		code:        code,
		destination: destination,
		state:       model.StatePending,
		tickets:     make(map[string]*model.Ticket, len(tickets)),
	}
	for _, c := range model.Categories {
		cl := layout.Categories[c]
		for i := 0; i < cl.Rows; i++ {
			f.rows = append(f.rows, newRow(c, cl.SeatsPerRow))
		}
		f.total[c] = cl.Rows * cl.SeatsPerRow
		f.available[c] = f.total[c]
	}
	for _, t := range tickets {
		if t.Passenger == "" {
			return nil, fmt.Errorf("flight %s: ticket without passenger", code)
		}
		if !t.Category.Valid() {
			return nil, fmt.Errorf("flight %s: ticket for %s has invalid category", code, t.Passenger)
		}
		if _, dup := f.tickets[t.Passenger]; dup {
			return nil, fmt.Errorf("flight %s: duplicate ticket for %s", code, t.Passenger)
		}
		t := t
		t.FlightCode = code
		t.Seat = nil
		if t.Destination == "" {
			t.Destination = destination
		}
		f.tickets[t.Passenger] = &t
	}
	return f, nil
}

// Code and Destination never change after construction and need no guard.
func (f *Flight) Code() string { return f.code }

func (f *Flight) Destination() string { return f.destination }

func (f *Flight) rowAt(r int) (*row, error) {
	if r < 0 || r >= len(f.rows) {
		return nil, seatErr(ErrInvalidRow, r, 0)
	}
	return &f.rows[r], nil
}

func (f *Flight) seatAt(r int, col rune) (*row, int, error) {
	rw, err := f.rowAt(r)
	if err != nil {
		return nil, 0, err
	}
	i, ok := rw.column(col)
	if !ok {
		return nil, 0, seatErr(ErrInvalidSeat, r, col)
	}
	return rw, i, nil
}

// checkSeat reports whether the seat is free.
func (f *Flight) checkSeat(r int, col rune) (bool, error) {
	rw, i, err := f.seatAt(r, col)
	if err != nil {
		return false, err
	}
	return rw.occupant(i) == "", nil
}

// assignSeat seats an unseated passenger.  All checks run before the row,
// the ticket and the counter are written.
func (f *Flight) assignSeat(r int, col rune, passenger string) (model.SeatRef, error) {
	t, ok := f.tickets[passenger]
	if !ok {
		return model.SeatRef{}, ErrTicketNotFound
	}
	rw, i, err := f.seatAt(r, col)
	if err != nil {
		return model.SeatRef{}, err
	}
	if rw.occupant(i) != "" {
		return model.SeatRef{}, seatErr(ErrSeatTaken, r, col)
	}
	if t.Seated() {
		return model.SeatRef{}, ErrAlreadySeated
	}
	if !t.Category.Allows(rw.category) {
		return model.SeatRef{}, seatErr(ErrCategoryNotAllowed, r, col)
	}
	return f.seat(t, r, col, rw, i), nil
}

// changeSeat moves a seated passenger to a free seat.
func (f *Flight) changeSeat(r int, col rune, passenger string) (from, to model.SeatRef, err error) {
	t, ok := f.tickets[passenger]
	if !ok {
		return from, to, ErrTicketNotFound
	}
	rw, i, err := f.seatAt(r, col)
	if err != nil {
		return from, to, err
	}
	if rw.occupant(i) != "" {
		return from, to, seatErr(ErrSeatTaken, r, col)
	}
	if !t.Seated() {
		return from, to, ErrNotSeated
	}
	if !t.Category.Allows(rw.category) {
		return from, to, seatErr(ErrCategoryNotAllowed, r, col)
	}
	from = *t.Seat
	f.unseat(t)
	to = f.seat(t, r, col, rw, i)
	return from, to, nil
}

// moveTicket hands the passenger's ticket over to target, freeing the seat
// held on f.  The caller holds the guards of both flights.
func (f *Flight) moveTicket(passenger string, target *Flight) (*model.Ticket, error) {
	t, ok := f.tickets[passenger]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if t.Seated() {
		f.unseat(t)
	}
	delete(f.tickets, passenger)
	t.FlightCode = target.code
	t.Destination = target.destination
	target.tickets[passenger] = t
	return t, nil
}

func (f *Flight) seat(t *model.Ticket, r int, col rune, rw *row, i int) model.SeatRef {
	rw.occupy(i, t.Passenger)
	ref := model.SeatRef{Row: r, Column: col, Category: rw.category}
	t.Seat = &ref
	f.available[rw.category]--
	return ref
}

func (f *Flight) unseat(t *model.Ticket) {
	rw := &f.rows[t.Seat.Row]
	if i, ok := rw.column(t.Seat.Column); ok {
		rw.vacate(i)
	}
	f.available[rw.category]++
	t.Seat = nil
}

func (f *Flight) ticket(passenger string) (model.Ticket, bool) {
	t, ok := f.tickets[passenger]
	if !ok {
		return model.Ticket{}, false
	}
	cp := *t
	if t.Seat != nil {
		s := *t.Seat
		cp.Seat = &s
	}
	return cp, true
}

func (f *Flight) availableByCategory(c model.RowCategory) int {
	if !c.Valid() {
		return 0
	}
	return f.available[c]
}

// bestAvailableCategoryAtOrAbove scans from c toward business and returns
// the first category with a free seat.
func (f *Flight) bestAvailableCategoryAtOrAbove(c model.RowCategory) (model.RowCategory, bool) {
	if !c.Valid() {
		return 0, false
	}
	for rank := c.Rank(); rank >= 0; rank-- {
		if f.available[rank] > 0 {
			return model.RowCategory(rank), true
		}
	}
	return 0, false
}

// alternativeSeats returns the free seats per category from c up to, but
// not including, business.  Every such category gets an entry, full ones
// with zero, so a business ticket always gets an empty map.
func (f *Flight) alternativeSeats(c model.RowCategory) map[model.RowCategory]int {
	out := make(map[model.RowCategory]int)
	if !c.Valid() {
		return out
	}
	for rank := c.Rank(); rank > model.Business.Rank(); rank-- {
		out[model.RowCategory(rank)] = f.available[rank]
	}
	return out
}

func (f *Flight) seatMap() []model.RowView {
	out := make([]model.RowView, len(f.rows))
	for i := range f.rows {
		out[i] = model.RowView{Row: i, Category: f.rows[i].category, Seats: f.rows[i].view()}
	}
	return out
}

func (f *Flight) summary() model.FlightSummary {
	s := model.FlightSummary{
		Code:        f.code,
		Destination: f.destination,
		State:       f.state,
		Available:   make(map[model.RowCategory]int, len(model.Categories)),
		Total:       make(map[model.RowCategory]int, len(model.Categories)),
		Tickets:     len(f.tickets),
	}
	for _, c := range model.Categories {
		s.Available[c] = f.available[c]
		s.Total[c] = f.total[c]
	}
	return s
}

// occupiedByCategory counts occupied seats straight from the rows.  Used to
// check available + occupied == total.
func (f *Flight) occupiedByCategory() [3]int {
	var out [3]int
	for i := range f.rows {
		out[f.rows[i].category] += f.rows[i].occupied()
	}
	return out
}
