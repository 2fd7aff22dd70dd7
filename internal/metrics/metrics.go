// Package metrics declares the prometheus collectors of the seat manager.
// They register with the default registry and are served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seatmgr"

var (
	// Bookings counts booking operations by operation and result code
	// ("ok" or an error code such as "SeatTaken").
	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Booking operations by operation and result",
	}, []string{"operation", "result"})

	// Notifications counts delivery tasks by outcome: enqueued, delivered,
	// failed, dropped.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Notification delivery tasks by outcome",
	}, []string{"result"})

	// QueueDepth is the number of delivery tasks waiting for a worker.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Delivery tasks waiting in the notification queue",
	})

	// DeliveryTime observes how long a single handler call takes.
	DeliveryTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_delivery_seconds",
		Help:      "Time spent delivering one notification to one handler",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event"})

	// Relayed counts messages handled by the notification relay consumer.
	Relayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_messages_total",
		Help:      "Messages consumed by the notification relay",
	}, []string{"result"})
)
