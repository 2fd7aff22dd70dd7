package model

import (
	"fmt"
	"strings"
)

// FlightState is the lifecycle state of a flight.  Flights are created
// PENDING and move to CONFIRMED through an administrative trigger; a
// CONFIRMED flight no longer accepts seat changes or new subscriptions.
type FlightState string

const (
	StatePending   FlightState = "PENDING"
	StateConfirmed FlightState = "CONFIRMED"
)

// ParseFlightState converts a textual state into a FlightState.
func ParseFlightState(s string) (FlightState, error) {
	switch FlightState(strings.ToUpper(strings.TrimSpace(s))) {
	case StatePending:
		return StatePending, nil
	case StateConfirmed:
		return StateConfirmed, nil
	}
	return "", fmt.Errorf("unknown flight state %q", s)
}

// FlightSummary is a point-in-time copy of a flight's counters.
//
// Fields:
//  Code        – flight code (e.g. AA101).
//  Destination – airport the flight travels to.
//  State       – lifecycle state at the time of the read.
//  Available   – free seats per category.
//  Total       – seats per category as built from the layout.
//  Tickets     – number of tickets currently held by the flight.
type FlightSummary struct {
	Code        string              `json:"code"`
	Destination string              `json:"destination"`
	State       FlightState         `json:"state"`
	Available   map[RowCategory]int `json:"available"`
	Total       map[RowCategory]int `json:"total"`
	Tickets     int                 `json:"tickets"`
}

// Alternative is one candidate flight returned when a passenger asks for
// flights to the same destination.  Available maps each category from the
// passenger's class up to but excluding business to its free seats.
type Alternative struct {
	Code        string              `json:"code"`
	Destination string              `json:"destination"`
	Available   map[RowCategory]int `json:"available"`
}

// RowView renders one row of a seat map.  Seats holds one character per
// seat: the initial of the seated passenger or '*' when free.
type RowView struct {
	Row      int         `json:"row"`
	Category RowCategory `json:"category"`
	Seats    string      `json:"seats"`
}
