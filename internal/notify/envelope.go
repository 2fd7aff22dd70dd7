package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/flight-seat-manager/internal/queue"
)

// ToMessage wraps ev into the broker envelope.  The payload is the event's
// own JSON form.
func ToMessage(ev Event) (queue.Notification, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return queue.Notification{}, fmt.Errorf("marshal %s: %w", ev.Type(), err)
	}
	m := ev.meta()
	return queue.Notification{
		ID:         m.ID,
		Type:       ev.Type(),
		Flight:     m.Flight,
		Passenger:  m.Passenger,
		OccurredAt: m.OccurredAt,
		Payload:    payload,
	}, nil
}

// MessageSink is a Handler that turns every event into a broker envelope
// and hands it to send.  The broker sinks are built on it.
type MessageSink struct {
	send func(ctx context.Context, n queue.Notification) error
}

func (s MessageSink) relay(ctx context.Context, ev Event) error {
	n, err := ToMessage(ev)
	if err != nil {
		return err
	}
	return s.send(ctx, n)
}

func (s MessageSink) OnSeatAssigned(ctx context.Context, ev SeatAssigned) error {
	return s.relay(ctx, ev)
}

func (s MessageSink) OnSeatChanged(ctx context.Context, ev SeatChanged) error {
	return s.relay(ctx, ev)
}

func (s MessageSink) OnFlightChanged(ctx context.Context, ev FlightChanged) error {
	return s.relay(ctx, ev)
}
