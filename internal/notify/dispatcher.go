// Package notify delivers seat and flight change notifications to the
// handlers passengers registered, off the booking path.  Booking operations
// hand events to the Dispatcher after releasing every flight guard; a
// bounded queue feeds a fixed pool of workers that call the handlers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/flight-seat-manager/internal/logger"
	"github.com/iliyamo/flight-seat-manager/internal/metrics"
)

// Policy decides what happens when the delivery queue is full.
type Policy string

const (
	// PolicyBlock makes the submitter wait for room, or for its context.
	PolicyBlock Policy = "block"
	// PolicyDropOldest evicts the oldest queued task to make room.
	PolicyDropOldest Policy = "drop_oldest"
	// PolicyReject drops the new task.
	PolicyReject Policy = "reject"
)

// ParsePolicy validates a policy name.  An empty name means block.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case "":
		return PolicyBlock, nil
	case PolicyBlock, PolicyDropOldest, PolicyReject:
		return p, nil
	}
	return "", fmt.Errorf("unknown notification backpressure policy %q", s)
}

// Config sizes the dispatcher.
type Config struct {
	Workers         int
	QueueSize       int
	Policy          Policy
	DeliveryTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	if c.Policy == "" {
		c.Policy = PolicyBlock
	}
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = 5 * time.Second
	}
	return c
}

// Verifier checks that a passenger holds a ticket on a flight that still
// accepts subscriptions and runs fn while that stays true.
// inventory.Registry implements it.
type Verifier interface {
	WithTicket(flightCode, passenger string, fn func() error) error
}

// ErrClosed is returned by Register once the dispatcher is shutting down.
var ErrClosed = errors.New("notification dispatcher closed")

type subKey struct {
	flight    string
	passenger string
}

type task struct {
	event   Event
	handler Handler
}

// Dispatcher holds the passenger subscriptions and the delivery pool.
type Dispatcher struct {
	cfg      Config
	log      logger.Logger
	verifier Verifier

	mu   sync.Mutex
	subs map[subKey][]Handler

	// qmu guards closed against sends racing close(queue).
	qmu    sync.RWMutex
	closed bool
	queue  chan task

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher builds a dispatcher and starts its workers.
func NewDispatcher(cfg Config, verifier Verifier, log logger.Logger) *Dispatcher {
	if verifier == nil || log == nil {
		panic("nil dependency passed to NewDispatcher")
	}
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		cfg:      cfg,
		log:      log.With("component", "notify"),
		verifier: verifier,
		subs:     make(map[subKey][]Handler),
		queue:    make(chan task, cfg.QueueSize),
		baseCtx:  ctx,
		cancel:   cancel,
	}
	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}
	return d
}

// Register appends h to the passenger's subscriptions on flightCode.  It
// fails with the verifier's error when the flight does not exist, is
// confirmed, or the passenger has no ticket on it.
func (d *Dispatcher) Register(flightCode, passenger string, h Handler) error {
	if h == nil {
		return errors.New("nil notification handler")
	}
	d.qmu.RLock()
	closed := d.closed
	d.qmu.RUnlock()
	if closed {
		return ErrClosed
	}
	return d.verifier.WithTicket(flightCode, passenger, func() error {
		d.mu.Lock()
		k := subKey{flight: flightCode, passenger: passenger}
		d.subs[k] = append(d.subs[k], h)
		d.mu.Unlock()
		return nil
	})
}

// Subscribers returns how many handlers are registered for the passenger on
// the flight.
func (d *Dispatcher) Subscribers(flightCode, passenger string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs[subKey{flight: flightCode, passenger: passenger}])
}

// Transfer moves the passenger's subscriptions from one flight code to
// another, after the passenger's ticket changed flights.  Handlers already
// registered on the new code are kept ahead of the moved ones.
func (d *Dispatcher) Transfer(passenger, oldCode, newCode string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	from := subKey{flight: oldCode, passenger: passenger}
	moved := d.subs[from]
	if len(moved) == 0 {
		return 0
	}
	delete(d.subs, from)
	to := subKey{flight: newCode, passenger: passenger}
	d.subs[to] = append(d.subs[to], moved...)
	return len(moved)
}

// Handlers returns a copy of the handlers the passenger registered on
// flightCode.
func (d *Dispatcher) Handlers(flightCode, passenger string) []Handler {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Handler(nil), d.subs[subKey{flight: flightCode, passenger: passenger}]...)
}

// Notify queues ev for every handler the passenger registered on
// flightCode.  It never reports failures to the caller: a full queue is
// handled by the configured policy and logged.
func (d *Dispatcher) Notify(ctx context.Context, flightCode, passenger string, ev Event) {
	d.NotifyHandlers(ctx, d.Handlers(flightCode, passenger), ev)
}

// NotifyHandlers queues ev for the given handlers, for callers that took a
// snapshot of a subscription before re-keying it.
func (d *Dispatcher) NotifyHandlers(ctx context.Context, handlers []Handler, ev Event) {
	for _, h := range handlers {
		d.enqueue(ctx, task{event: ev, handler: h})
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, t task) {
	d.qmu.RLock()
	defer d.qmu.RUnlock()
	if d.closed {
		d.drop(t, "closed")
		return
	}

	switch d.cfg.Policy {
	case PolicyReject:
		select {
		case d.queue <- t:
		default:
			d.drop(t, "queue full")
			return
		}
	case PolicyDropOldest:
		for {
			select {
			case d.queue <- t:
				d.enqueued()
				return
			default:
			}
			select {
			case old := <-d.queue:
				metrics.QueueDepth.Dec()
				d.drop(old, "evicted")
			default:
			}
		}
	default:
		select {
		case d.queue <- t:
		case <-ctx.Done():
			d.drop(t, "submitter gave up")
			return
		}
	}
	d.enqueued()
}

func (d *Dispatcher) enqueued() {
	metrics.Notifications.WithLabelValues("enqueued").Inc()
	metrics.QueueDepth.Inc()
}

func (d *Dispatcher) drop(t task, reason string) {
	metrics.Notifications.WithLabelValues("dropped").Inc()
	m := t.event.meta()
	d.log.Warn("notification dropped",
		"reason", reason, "event", t.event.Type(), "id", m.ID,
		"flight", m.Flight, "passenger", m.Passenger)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.queue {
		metrics.QueueDepth.Dec()
		d.deliver(t)
	}
}

// deliver calls one handler.  Errors and panics are contained here.
func (d *Dispatcher) deliver(t task) {
	m := t.event.meta()
	ctx, cancel := context.WithTimeout(d.baseCtx, d.cfg.DeliveryTimeout)
	defer cancel()
	start := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return t.event.deliver(ctx, t.handler)
	}()

	metrics.DeliveryTime.WithLabelValues(t.event.Type()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		d.log.Error("notification delivery failed",
			"event", t.event.Type(), "id", m.ID,
			"flight", m.Flight, "passenger", m.Passenger, "error", err)
		return
	}
	metrics.Notifications.WithLabelValues("delivered").Inc()
	d.log.Debug("notification delivered",
		"event", t.event.Type(), "id", m.ID, "flight", m.Flight, "passenger", m.Passenger)
}

// Close stops accepting notifications, lets the workers drain what is
// queued and waits for them.  If ctx ends first, in-flight deliveries are
// cancelled and ctx's error is returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.qmu.Lock()
	if d.closed {
		d.qmu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.qmu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
