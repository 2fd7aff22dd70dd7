package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/iliyamo/flight-seat-manager/internal/queue"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter returns a writer for topic that balances by key, so all of
// one passenger's notifications land on the same partition in order.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaSink writes events keyed by passenger.
func NewKafkaSink(w MessageWriter) Handler {
	return MessageSink{send: func(ctx context.Context, n queue.Notification) error {
		body, err := json.Marshal(n)
		if err != nil {
			return err
		}
		msg := kafka.Message{
			Key:   []byte(n.Passenger),
			Value: body,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(n.Type)},
				{Key: "flight", Value: []byte(n.Flight)},
			},
		}
		if err := w.WriteMessages(ctx, msg); err != nil {
			return fmt.Errorf("kafka write: %w", err)
		}
		return nil
	}}
}
