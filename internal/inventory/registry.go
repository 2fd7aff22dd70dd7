package inventory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/flight-seat-manager/internal/model"
)

// Registry indexes every flight by code and by lifecycle state.  It is the
// only authority for locating a flight and for moving it between states.
// The structural lock mu is held just long enough to resolve membership;
// it is never held while flight content is read or written.
type Registry struct {
	mu         sync.Mutex
	states     map[string]model.FlightState
	byState    map[model.FlightState]map[string]*Flight
	passengers map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		states: make(map[string]model.FlightState),
		byState: map[model.FlightState]map[string]*Flight{
			model.StatePending:   {},
			model.StateConfirmed: {},
		},
		passengers: make(map[string]struct{}),
	}
}

// Add inserts a freshly built flight.  Flights are added at load time,
// before any request is served.  A passenger may hold a ticket on only one
// flight, so a manifest that tickets the same passenger twice is rejected.
func (r *Registry) Add(f *Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.states[f.code]; dup {
		return fmt.Errorf("flight %s already registered", f.code)
	}
	for p := range f.tickets {
		if _, dup := r.passengers[p]; dup {
			return fmt.Errorf("flight %s: passenger %s already holds a ticket on another flight", f.code, p)
		}
	}
	for p := range f.tickets {
		r.passengers[p] = struct{}{}
	}
	r.states[f.code] = f.state
	r.byState[f.state][f.code] = f
	return nil
}

// Lookup resolves a flight by code.
func (r *Registry) Lookup(code string) (*Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupLocked(code)
}

func (r *Registry) lookupLocked(code string) (*Flight, error) {
	state, ok := r.states[code]
	if !ok {
		return nil, ErrFlightNotFound
	}
	return r.byState[state][code], nil
}

// lookupPair resolves two flights in one critical section.  a is resolved
// first so a missing source flight is reported before a missing target.
func (r *Registry) lookupPair(a, b string) (*Flight, *Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fa, err := r.lookupLocked(a)
	if err != nil {
		return nil, nil, err
	}
	fb, err := r.lookupLocked(b)
	if err != nil {
		return nil, nil, err
	}
	return fa, fb, nil
}

// FlightsByState returns the flights currently in state, ordered by code.
// The slice is a copy; a flight may change state right after the call, so
// callers re-check the state under the flight's guards.
func (r *Registry) FlightsByState(state model.FlightState) []*Flight {
	r.mu.Lock()
	bucket := r.byState[state]
	out := make([]*Flight, 0, len(bucket))
	for _, f := range bucket {
		out = append(out, f)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].code < out[j].code })
	return out
}

// Codes returns every registered flight code in order.
func (r *Registry) Codes() []string {
	r.mu.Lock()
	out := make([]string, 0, len(r.states))
	for code := range r.states {
		out = append(out, code)
	}
	r.mu.Unlock()
	sort.Strings(out)
	return out
}

// TransitionState moves a flight to state.  Moving a flight to the state
// it is already in is a no-op.
func (r *Registry) TransitionState(code string, state model.FlightState) error {
	return r.transition(code, state, AnyState)
}

// transition holds the registry lock while the flight's state guard is
// taken so the bucket move and the flight's own state field change
// together.  This is the only place the two are held at once and it
// follows the global order in lock.go.  req is checked against the current
// state before anything moves.
func (r *Registry) transition(code string, state model.FlightState, req Requirement) error {
	if _, ok := r.byState[state]; !ok {
		return fmt.Errorf("unknown flight state %q", state)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := r.lookupLocked(code)
	if err != nil {
		return err
	}
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	old := f.state
	if err := req(old); err != nil {
		return err
	}
	if old == state {
		return nil
	}
	delete(r.byState[old], code)
	r.byState[state][code] = f
	r.states[code] = state
	f.state = state
	return nil
}
