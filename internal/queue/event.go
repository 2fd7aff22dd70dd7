// Package queue defines the notification envelope exchanged over the
// message broker, the publisher used by the seat manager and the relay
// consumer that records what was published.
package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NotificationQueue is the durable queue notifications are published to.
const NotificationQueue = "seat.notifications"

// Notification is the wire form of a passenger notification.  Payload holds
// the event body as produced by the notify package; consumers that only log
// or route messages never need to decode it.
type Notification struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Flight     string          `json:"flight"`
	Passenger  string          `json:"passenger"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Validate rejects envelopes a consumer cannot route.
func (n Notification) Validate() error {
	var missing []string
	if n.ID == "" {
		missing = append(missing, "id")
	}
	if n.Type == "" {
		missing = append(missing, "type")
	}
	if n.Flight == "" {
		missing = append(missing, "flight")
	}
	if n.Passenger == "" {
		missing = append(missing, "passenger")
	}
	if len(missing) > 0 {
		return fmt.Errorf("notification missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Decode parses and validates a message body.
func Decode(body []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return Notification{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := n.Validate(); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// Line renders n as the single line written to the notification log.
func (n Notification) Line() string {
	payload := "{}"
	if len(n.Payload) > 0 {
		payload = string(n.Payload)
	}
	return fmt.Sprintf("[%s] %s | id=%s | flight=%s | passenger=%q | payload=%s\n",
		n.OccurredAt.UTC().Format(time.RFC3339), n.Type, n.ID, n.Flight, n.Passenger, payload)
}
