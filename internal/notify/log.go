package notify

import (
	"context"

	"github.com/iliyamo/flight-seat-manager/internal/logger"
)

// NewLogSink logs every event.  It is the sink used when no broker is
// configured.
func NewLogSink(log logger.Logger) Handler {
	log = log.With("sink", "log")
	return EventFunc(func(_ context.Context, ev Event) error {
		m := ev.meta()
		log.Info("passenger notification",
			"event", ev.Type(), "id", m.ID, "flight", m.Flight, "passenger", m.Passenger)
		return nil
	})
}
