package model

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// SeatRef identifies a seat within a flight: a zero based row index and a
// column letter starting at 'A'.  Category is the class of the row the
// seat belongs to.
type SeatRef struct {
	Row      int
	Column   rune
	Category RowCategory
}

// Label renders the seat as row number followed by column, e.g. "12C".
func (s SeatRef) Label() string { return fmt.Sprintf("%d%c", s.Row, s.Column) }

type seatRefJSON struct {
	Row      int         `json:"row"`
	Column   string      `json:"column"`
	Category RowCategory `json:"category"`
}

// MarshalJSON writes the column as a one letter string.
func (s SeatRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(seatRefJSON{Row: s.Row, Column: string(s.Column), Category: s.Category})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *SeatRef) UnmarshalJSON(b []byte) error {
	var v seatRefJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if utf8.RuneCountInString(v.Column) != 1 {
		return fmt.Errorf("seat column must be a single letter, got %q", v.Column)
	}
	col, _ := utf8.DecodeRuneInString(v.Column)
	*s = SeatRef{Row: v.Row, Column: col, Category: v.Category}
	return nil
}

// Ticket is a passenger's booking on one flight.  Seat is nil until the
// passenger is assigned a seat.
//
// Fields:
//  Passenger   – passenger identifier, unique across all flights.
//  Category    – class that was purchased.
//  Destination – destination of the booking.
//  FlightCode  – flight currently holding the ticket.
//  Seat        – assigned seat, nil when unseated.
type Ticket struct {
	Passenger   string      `json:"passenger"`
	Category    RowCategory `json:"category"`
	Destination string      `json:"destination"`
	FlightCode  string      `json:"flight_code"`
	Seat        *SeatRef    `json:"seat,omitempty"`
}

// Seated reports whether the ticket holds a seat.
func (t *Ticket) Seated() bool { return t.Seat != nil }
