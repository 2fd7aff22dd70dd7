package config

import (
	"fmt"
	"strings"
	"time"
)

// Notification sinks selectable with NOTIFY_SINK.
const (
	SinkLog   = "log"
	SinkAMQP  = "amqp"
	SinkRedis = "redis"
	SinkKafka = "kafka"
)

// NotifyConfig sizes the notification dispatcher and names the sink that
// relays events to out of process passengers.
type NotifyConfig struct {
	Workers   int
	QueueSize int
	Policy    string
	Timeout   time.Duration
	Sink      string
}

// LoadNotifyConfig reads NOTIFY_* variables.
func LoadNotifyConfig() (NotifyConfig, error) {
	cfg := NotifyConfig{
		Workers:   envInt("NOTIFY_WORKERS", 4),
		QueueSize: envInt("NOTIFY_QUEUE_SIZE", 1024),
		Policy:    envStr("NOTIFY_POLICY", "block"),
		Timeout:   envDur("NOTIFY_TIMEOUT", 5*time.Second),
		Sink:      strings.ToLower(envStr("NOTIFY_SINK", SinkLog)),
	}
	switch cfg.Sink {
	case SinkLog, SinkAMQP, SinkRedis, SinkKafka:
	default:
		return cfg, fmt.Errorf("unknown NOTIFY_SINK %q", cfg.Sink)
	}
	if cfg.Workers < 1 || cfg.QueueSize < 1 {
		return cfg, fmt.Errorf("NOTIFY_WORKERS and NOTIFY_QUEUE_SIZE must be positive")
	}
	return cfg, nil
}

// KafkaConfig locates the topic the Kafka sink writes to.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoadKafkaConfig reads KAFKA_BROKERS (comma separated) and KAFKA_TOPIC.
func LoadKafkaConfig() KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(envStr("KAFKA_BROKERS", "localhost:9092"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return KafkaConfig{Brokers: brokers, Topic: envStr("KAFKA_TOPIC", "seat-notifications")}
}
