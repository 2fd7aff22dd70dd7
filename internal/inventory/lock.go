package inventory

import (
	"sort"

	"github.com/iliyamo/flight-seat-manager/internal/model"
)

// Locking protocol.
//
// There is one global acquisition order:
//
//	registry.mu  <  for each flight, by ascending code: stateMu < contentMu
//
// Single flight operations resolve the flight under registry.mu, release
// it, then take stateMu and contentMu of that flight.  Two flight
// operations resolve both flights, then take both flights' guards through
// acquireOrdered, which sorts by code regardless of which flight is the
// source and which the target.  Guards are released in exact reverse
// order on every path.  Registry.TransitionState is the only caller that
// holds registry.mu while taking a stateMu, which is consistent with the
// order above.  Code running under a flight's guards must not call back
// into the Registry.
//
// Because registry.mu is dropped before the flight guards are taken, the
// lifecycle state observed during resolution may be stale; every operation
// therefore re-checks the state through a Requirement once stateMu is held.

// Requirement gates an operation on the flight's lifecycle state.  It is
// evaluated with the flight's state guard held.
type Requirement func(model.FlightState) error

// RequirePending admits PENDING flights only.
func RequirePending(s model.FlightState) error {
	if s != model.StatePending {
		return ErrFlightNotPending
	}
	return nil
}

// RequireNotConfirmed rejects CONFIRMED flights.
func RequireNotConfirmed(s model.FlightState) error {
	if s == model.StateConfirmed {
		return ErrFlightConfirmed
	}
	return nil
}

// AnyState admits every state.  Used by read-only admin queries.
func AnyState(model.FlightState) error { return nil }

// acquireOrdered locks the guards of the given flights in the global order
// and returns the function that releases them in reverse.
func acquireOrdered(flights ...*Flight) (release func()) {
	ordered := make([]*Flight, len(flights))
	copy(ordered, flights)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].code < ordered[j].code })
	for _, f := range ordered {
		f.stateMu.Lock()
		f.contentMu.Lock()
	}
	return func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].contentMu.Unlock()
			ordered[i].stateMu.Unlock()
		}
	}
}

// withFlight runs fn with the flight's guards held, after checking req.
func (r *Registry) withFlight(code string, req Requirement, fn func(f *Flight) error) error {
	f, err := r.Lookup(code)
	if err != nil {
		return err
	}
	release := acquireOrdered(f)
	defer release()
	if err := req(f.state); err != nil {
		return err
	}
	return fn(f)
}

// withFlightPair runs fn with the guards of both flights held.  The two
// codes must differ: the guards are not reentrant.
func (r *Registry) withFlightPair(a, b string, reqA, reqB Requirement, fn func(fa, fb *Flight) error) error {
	if a == b {
		return ErrSameFlight
	}
	fa, fb, err := r.lookupPair(a, b)
	if err != nil {
		return err
	}
	release := acquireOrdered(fa, fb)
	defer release()
	if err := reqA(fa.state); err != nil {
		return err
	}
	if err := reqB(fb.state); err != nil {
		return err
	}
	return fn(fa, fb)
}
