package notify

import (
	"context"

	"github.com/iliyamo/flight-seat-manager/internal/queue"
)

// Publisher is satisfied by *queue.Publisher.
type Publisher interface {
	Publish(ctx context.Context, n queue.Notification) error
}

// NewAMQPSink relays events to the seat.notifications queue.
func NewAMQPSink(p Publisher) Handler {
	return MessageSink{send: p.Publish}
}
