package inventory

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-manager/internal/model"
)

func TestConcurrentAssignSameSeat(t *testing.T) {
	const n = 64
	tickets := make([]model.Ticket, n)
	for i := range tickets {
		tickets[i] = ticket(fmt.Sprintf("p%02d", i), model.Economy)
	}
	r := newTestRegistry(t, mustFlight(t, "AA101", "JFK", smallLayout, tickets...))

	var ok, taken atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			<-start
			_, err := r.Assign("AA101", p, 1, 'A')
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrSeatTaken):
				taken.Add(1)
			default:
				t.Errorf("unexpected error for %s: %v", p, err)
			}
		}(tickets[i].Passenger)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), taken.Load())
	s, err := r.Summary("AA101")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Available[model.Economy])

	f, _ := r.Lookup("AA101")
	assertBalanced(t, f)
}

// Two passengers are shuttled back and forth between the same two flights
// in opposite directions.  With source-first locking this deadlocks; with
// ordered locking every call returns.
func TestChangeFlightOppositeDirectionsTerminates(t *testing.T) {
	r := newTestRegistry(t,
		mustFlight(t, "AA101", "JFK", smallLayout, ticket("alice", model.Economy)),
		mustFlight(t, "BB202", "JFK", smallLayout, ticket("bob", model.Economy)),
	)

	const rounds = 500
	done := make(chan struct{})
	var wg sync.WaitGroup
	shuttle := func(passenger, home, away string) {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			from, to := home, away
			if i%2 == 1 {
				from, to = away, home
			}
			if _, err := r.ChangeFlight(passenger, from, to, nil); err != nil {
				t.Errorf("%s %s->%s: %v", passenger, from, to, err)
				return
			}
		}
	}
	wg.Add(2)
	go shuttle("alice", "AA101", "BB202")
	go shuttle("bob", "BB202", "AA101")
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("opposite direction transfers did not terminate")
	}

	a, _ := r.Summary("AA101")
	b, _ := r.Summary("BB202")
	assert.Equal(t, 2, a.Tickets+b.Tickets, "tickets are moved, never duplicated or lost")
	_, err := r.Ticket("AA101", "alice")
	assert.NoError(t, err)
	_, err = r.Ticket("BB202", "bob")
	assert.NoError(t, err)
}

// Mixed load across three flights: seat churn, transfers in every
// direction and reads.  Afterwards every flight balances and every
// passenger holds exactly one ticket.
func TestMixedLoadKeepsInvariants(t *testing.T) {
	layout := model.Layout{Categories: map[model.RowCategory]model.CategoryLayout{
		model.Business:       {Rows: 1, SeatsPerRow: 4},
		model.PremiumEconomy: {Rows: 2, SeatsPerRow: 4},
		model.Economy:        {Rows: 4, SeatsPerRow: 4},
	}}
	codes := []string{"AA1", "BB2", "CC3"}
	var passengers []string
	var flights []*Flight
	for fi, code := range codes {
		var tks []model.Ticket
		for i := 0; i < 6; i++ {
			p := fmt.Sprintf("%s-p%d", code, i)
			passengers = append(passengers, p)
			tks = append(tks, ticket(p, model.Categories[(fi+i)%3]))
		}
		flights = append(flights, mustFlight(t, code, "JFK", layout, tks...))
	}
	r := newTestRegistry(t, flights...)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 300; i++ {
				p := passengers[(w*7+i)%len(passengers)]
				code := codes[(w+i)%len(codes)]
				other := codes[(w+i+1)%len(codes)]
				row, col := (i*3+w)%7, rune('A'+(i+w)%4)
				switch i % 5 {
				case 0:
					_, _ = r.Assign(code, p, row, col)
				case 1:
					_, _ = r.ChangeSeat(code, p, row, col)
				case 2:
					_, _ = r.ChangeFlight(p, code, other, nil)
				case 3:
					_, _ = r.Alternatives(code, p)
				default:
					_, _ = r.IsAvailable(code, row, col)
				}
			}
		}(w)
	}
	wg.Wait()

	seen := map[string]int{}
	for _, f := range flights {
		assertBalanced(t, f)
		for p := range f.tickets {
			seen[p]++
		}
	}
	for _, p := range passengers {
		assert.Equal(t, 1, seen[p], "passenger %s", p)
	}
}

func TestConfirmRacesWithAssign(t *testing.T) {
	var tks []model.Ticket
	for i := 0; i < 4; i++ {
		tks = append(tks, ticket(fmt.Sprintf("p%d", i), model.Economy))
	}
	r := newTestRegistry(t, mustFlight(t, "AA101", "JFK", smallLayout, tks...))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Assign("AA101", fmt.Sprintf("p%d", i), 1+i/2, rune('A'+i%2))
			if err != nil {
				assert.ErrorIs(t, err, ErrFlightNotPending)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, r.Confirm("AA101"))
	}()
	wg.Wait()

	f, _ := r.Lookup("AA101")
	assertBalanced(t, f)
	_, err := r.Assign("AA101", "p0", 0, 'A')
	assert.ErrorIs(t, err, ErrFlightNotPending)
}

func TestAcquireOrderedSortsByCode(t *testing.T) {
	a := mustFlight(t, "AA1", "JFK", smallLayout)
	b := mustFlight(t, "BB2", "JFK", smallLayout)

	release := acquireOrdered(b, a)
	assert.False(t, a.stateMu.TryLock())
	assert.False(t, a.contentMu.TryLock())
	assert.False(t, b.stateMu.TryLock())
	assert.False(t, b.contentMu.TryLock())
	release()
	for _, f := range []*Flight{a, b} {
		require.True(t, f.stateMu.TryLock())
		require.True(t, f.contentMu.TryLock())
		f.contentMu.Unlock()
		f.stateMu.Unlock()
	}
}
