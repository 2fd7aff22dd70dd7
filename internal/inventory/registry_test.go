package inventory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-manager/internal/model"
)

func newTestRegistry(t *testing.T, flights ...*Flight) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, f := range flights {
		require.NoError(t, r.Add(f))
	}
	return r
}

func TestRegistryAdd(t *testing.T) {
	r := newTestRegistry(t, mustFlight(t, "AA101", "JFK", smallLayout, ticket("john", model.Economy)))

	err := r.Add(mustFlight(t, "AA101", "MIA", smallLayout))
	assert.Error(t, err, "duplicate code")

	err = r.Add(mustFlight(t, "AA303", "JFK", smallLayout, ticket("john", model.Business)))
	assert.Error(t, err, "passenger already ticketed elsewhere")

	_, err = r.Lookup("AA303")
	assert.ErrorIs(t, err, ErrFlightNotFound, "rejected flight must not be registered")
	assert.Equal(t, []string{"AA101"}, r.Codes())
}

func TestRegistryTransitionState(t *testing.T) {
	r := newTestRegistry(t,
		mustFlight(t, "AA101", "JFK", smallLayout),
		mustFlight(t, "AA202", "JFK", smallLayout),
	)

	require.NoError(t, r.TransitionState("AA101", model.StateConfirmed))
	require.NoError(t, r.TransitionState("AA101", model.StateConfirmed), "same state is a no-op")

	pending := r.FlightsByState(model.StatePending)
	require.Len(t, pending, 1)
	assert.Equal(t, "AA202", pending[0].Code())
	confirmed := r.FlightsByState(model.StateConfirmed)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "AA101", confirmed[0].Code())

	f, err := r.Lookup("AA101")
	require.NoError(t, err)
	assert.Equal(t, model.StateConfirmed, f.state)

	assert.ErrorIs(t, r.TransitionState("ZZ999", model.StateConfirmed), ErrFlightNotFound)
	assert.Error(t, r.TransitionState("AA202", model.FlightState("BOARDING")))
}

func TestRegistryConfirm(t *testing.T) {
	r := newTestRegistry(t, mustFlight(t, "AA101", "JFK", smallLayout))

	require.NoError(t, r.Confirm("AA101"))
	assert.ErrorIs(t, r.Confirm("AA101"), ErrFlightConfirmed)
	assert.ErrorIs(t, r.Confirm("nope"), ErrFlightNotFound)
}

func TestRegistryStateGating(t *testing.T) {
	r := newTestRegistry(t,
		mustFlight(t, "AA101", "JFK", smallLayout, ticket("john", model.Economy)),
		mustFlight(t, "AA202", "JFK", smallLayout, ticket("mary", model.Economy)),
	)
	require.NoError(t, r.Confirm("AA202"))

	_, err := r.IsAvailable("AA202", 1, 'A')
	assert.ErrorIs(t, err, ErrFlightNotPending)
	_, err = r.Assign("AA202", "mary", 1, 'A')
	assert.ErrorIs(t, err, ErrFlightNotPending)
	_, err = r.ChangeSeat("AA202", "mary", 1, 'A')
	assert.ErrorIs(t, err, ErrFlightNotPending)
	_, err = r.Alternatives("AA202", "mary")
	assert.ErrorIs(t, err, ErrFlightConfirmed)
	_, err = r.ChangeFlight("mary", "AA202", "AA101", nil)
	assert.ErrorIs(t, err, ErrFlightConfirmed)
	_, err = r.ChangeFlight("john", "AA101", "AA202", nil)
	assert.ErrorIs(t, err, ErrFlightNotPending)
	assert.ErrorIs(t, r.WithTicket("AA202", "mary", func() error { return nil }), ErrFlightConfirmed)

	_, err = r.IsAvailable("XX000", 1, 'A')
	assert.ErrorIs(t, err, ErrFlightNotFound)

	// read-only admin queries work in every state
	_, err = r.SeatMap("AA202")
	assert.NoError(t, err)
	s, err := r.Summary("AA202")
	require.NoError(t, err)
	assert.Equal(t, model.StateConfirmed, s.State)
}

func TestRegistryIsAvailable(t *testing.T) {
	r := newTestRegistry(t, mustFlight(t, "AA101", "JFK", smallLayout, ticket("john", model.Business)))

	free, err := r.IsAvailable("AA101", 0, 'A')
	require.NoError(t, err)
	assert.True(t, free)

	_, err = r.Assign("AA101", "john", 0, 'A')
	require.NoError(t, err)
	free, err = r.IsAvailable("AA101", 0, 'A')
	require.NoError(t, err)
	assert.False(t, free)

	_, err = r.IsAvailable("AA101", 5, 'A')
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = r.IsAvailable("AA101", 0, 'Q')
	assert.ErrorIs(t, err, ErrInvalidSeat)

	n, err := r.AvailableByCategory("AA101", model.Business)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegistryChangeFlight(t *testing.T) {
	r := newTestRegistry(t,
		mustFlight(t, "AA101", "JFK", smallLayout, ticket("john", model.Economy)),
		mustFlight(t, "AA202", "JFK", smallLayout),
	)
	_, err := r.Assign("AA101", "john", 1, 'B')
	require.NoError(t, err)

	var flights []*Flight
	for _, code := range []string{"AA101", "AA202"} {
		f, err := r.Lookup(code)
		require.NoError(t, err)
		flights = append(flights, f)
	}
	var seen []Transfer
	tr, err := r.ChangeFlight("john", "AA101", "AA202", func(tr Transfer) {
		for _, f := range flights {
			assert.False(t, f.contentMu.TryLock(), "%s must still be locked", f.code)
		}
		seen = append(seen, tr)
	})
	require.NoError(t, err)
	assert.Equal(t, []Transfer{tr}, seen)
	assert.Equal(t, "AA101", tr.OldFlight)
	assert.Equal(t, "AA202", tr.NewFlight)
	assert.Equal(t, "JFK", tr.NewDestination)
	require.NotNil(t, tr.FreedSeat)
	assert.Equal(t, model.SeatRef{Row: 1, Column: 'B', Category: model.Economy}, *tr.FreedSeat)

	src, _ := r.Summary("AA101")
	dst, _ := r.Summary("AA202")
	assert.Equal(t, 4, src.Available[model.Economy], "freed seat returns to the source")
	assert.Equal(t, 4, dst.Available[model.Economy], "ticket arrives unseated")
	assert.Equal(t, 0, src.Tickets)
	assert.Equal(t, 1, dst.Tickets)

	_, err = r.Ticket("AA101", "john")
	assert.ErrorIs(t, err, ErrTicketNotFound)
	tk, err := r.Ticket("AA202", "john")
	require.NoError(t, err)
	assert.Nil(t, tk.Seat)
	assert.Equal(t, "AA202", tk.FlightCode)
}

func TestRegistryChangeFlightFailures(t *testing.T) {
	full := model.Layout{Categories: map[model.RowCategory]model.CategoryLayout{
		model.Business: {Rows: 1, SeatsPerRow: 1},
		model.Economy:  {Rows: 1, SeatsPerRow: 1},
	}}
	r := newTestRegistry(t,
		mustFlight(t, "AA101", "JFK", smallLayout, ticket("john", model.Business), ticket("eco", model.Economy)),
		mustFlight(t, "AA202", "JFK", full, ticket("x", model.Business)),
	)
	_, err := r.Assign("AA202", "x", 0, 'A')
	require.NoError(t, err)

	tests := []struct {
		name      string
		passenger string
		from, to  string
		want      error
	}{
		{name: "same flight", passenger: "john", from: "AA101", to: "AA101", want: ErrSameFlight},
		{name: "unknown source", passenger: "john", from: "ZZ1", to: "AA202", want: ErrFlightNotFound},
		{name: "unknown target", passenger: "john", from: "AA101", to: "ZZ1", want: ErrFlightNotFound},
		{name: "no ticket", passenger: "ghost", from: "AA101", to: "AA202", want: ErrTicketNotFound},
		{name: "business full on target", passenger: "john", from: "AA101", to: "AA202", want: ErrNoAvailableSeats},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ChangeFlight(tt.passenger, tt.from, tt.to, func(Transfer) {
				t.Error("onMoved called for a failed move")
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// economy passengers still fit in the economy seat
	_, err = r.ChangeFlight("eco", "AA101", "AA202", nil)
	assert.NoError(t, err)
}

func TestRegistryAlternatives(t *testing.T) {
	r := newTestRegistry(t,
		mustFlight(t, "AA101", "JFK", smallLayout, ticket("john", model.Economy), ticket("biz", model.Business)),
		mustFlight(t, "AA202", "JFK", smallLayout, ticket("b1", model.Business), ticket("b2", model.Business)),
		mustFlight(t, "AA303", "JFK", smallLayout),
		mustFlight(t, "AA404", "MIA", smallLayout),
		mustFlight(t, "AA505", "JFK", smallLayout),
		mustFlight(t, "AA606", "JFK", smallLayout,
			ticket("e1", model.Economy), ticket("e2", model.Economy), ticket("e3", model.Economy), ticket("e4", model.Economy),
			ticket("f1", model.Business), ticket("f2", model.Business)),
	)
	// AA202 business is full, economy free
	_, err := r.Assign("AA202", "b1", 0, 'A')
	require.NoError(t, err)
	_, err = r.Assign("AA202", "b2", 0, 'B')
	require.NoError(t, err)
	// AA606 economy is full, business free
	for i, p := range []string{"e1", "e2", "e3", "e4"} {
		_, err = r.Assign("AA606", p, 1+i/2, rune('A'+i%2))
		require.NoError(t, err)
	}
	require.NoError(t, r.Confirm("AA505"))

	got, err := r.Alternatives("AA101", "john")
	require.NoError(t, err)
	want := []model.Alternative{
		{Code: "AA202", Destination: "JFK", Available: map[model.RowCategory]int{model.PremiumEconomy: 0, model.Economy: 4}},
		{Code: "AA303", Destination: "JFK", Available: map[model.RowCategory]int{model.PremiumEconomy: 0, model.Economy: 4}},
		{Code: "AA606", Destination: "JFK", Available: map[model.RowCategory]int{model.PremiumEconomy: 0, model.Economy: 0}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Alternatives(economy) mismatch (-want +got):\n%s", diff)
	}
	for _, alt := range got {
		assert.NotContains(t, alt.Available, model.Business, alt.Code)
	}

	got, err = r.Alternatives("AA101", "biz")
	require.NoError(t, err)
	assert.Empty(t, got, "business tickets have no alternatives")

	// once AA606 business fills up nothing is left for an economy ticket there
	_, err = r.Assign("AA606", "f1", 0, 'A')
	require.NoError(t, err)
	_, err = r.Assign("AA606", "f2", 0, 'B')
	require.NoError(t, err)
	got, err = r.Alternatives("AA101", "john")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AA303", got[1].Code)

	_, err = r.Alternatives("AA101", "ghost")
	assert.ErrorIs(t, err, ErrTicketNotFound)
	_, err = r.Alternatives("ZZ1", "john")
	assert.ErrorIs(t, err, ErrFlightNotFound)
}
