package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flight-seat-manager/internal/queue"
)

// RedisChannel is the pub/sub channel a passenger's notifications for a
// flight are published on.
func RedisChannel(flight, passenger string) string {
	return fmt.Sprintf("notifications:%s:%s", flight, passenger)
}

// NewRedisSink publishes events with PUBLISH to the passenger's channel.
// Subscribers that are not listening miss the message.
func NewRedisSink(rdb redis.UniversalClient) Handler {
	return MessageSink{send: func(ctx context.Context, n queue.Notification) error {
		body, err := json.Marshal(n)
		if err != nil {
			return err
		}
		if err := rdb.Publish(ctx, RedisChannel(n.Flight, n.Passenger), body).Err(); err != nil {
			return fmt.Errorf("redis publish: %w", err)
		}
		return nil
	}}
}
