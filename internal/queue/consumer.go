package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/flight-seat-manager/internal/logger"
	"github.com/iliyamo/flight-seat-manager/internal/metrics"
)

// Recorder stores one relayed notification.
type Recorder interface {
	Record(n Notification) error
}

// FileRecorder appends notifications, one line each, to a log file.
type FileRecorder struct {
	mu   sync.Mutex
	path string
}

// NewFileRecorder records into path, creating its directory on first use.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

func (r *FileRecorder) Record(n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(n.Line()); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// Consumer reads the seat.notifications queue and hands every message to a
// Recorder.
type Consumer struct {
	url      string
	prefetch int
	rec      Recorder
	log      logger.Logger
}

// NewConsumer builds a consumer; prefetch bounds unacknowledged deliveries.
func NewConsumer(url string, prefetch int, rec Recorder, log logger.Logger) *Consumer {
	if rec == nil || log == nil {
		panic("nil dependency passed to NewConsumer")
	}
	if prefetch <= 0 {
		prefetch = 50
	}
	return &Consumer{url: url, prefetch: prefetch, rec: rec, log: log.With("component", "notification-relay")}
}

// Run consumes until ctx is cancelled, re-dialling the broker with
// exponential backoff (1s doubling up to 30s) whenever the connection
// drops.  It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("failed to dial broker", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn("consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.log.Warn("set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info("consuming", "queue", NotificationQueue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(d.Body); err != nil {
				// Reject without requeue to avoid tight redelivery loops.
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes and records one message body.
func (c *Consumer) Handle(body []byte) error {
	n, err := Decode(body)
	if err != nil {
		metrics.Relayed.WithLabelValues("invalid").Inc()
		c.log.Warn("rejecting notification", "error", err)
		return err
	}
	if err := c.rec.Record(n); err != nil {
		metrics.Relayed.WithLabelValues("failed").Inc()
		c.log.Error("recording notification failed", "id", n.ID, "error", err)
		return err
	}
	metrics.Relayed.WithLabelValues("recorded").Inc()
	c.log.Debug("notification recorded", "id", n.ID, "type", n.Type, "flight", n.Flight)
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
