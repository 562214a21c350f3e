package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/benmeehan/location-store/pkg/mqtt"
	"github.com/rs/zerolog"
)

// Kind names a record lifecycle event.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
)

// RecordEvent announces that a record changed. It never carries the secret or the location.
type RecordEvent struct {
	Kind      Kind      `json:"event"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers record events to interested parties.
type Publisher interface {
	Publish(event RecordEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(RecordEvent) error { return nil }

// MQTTPublisher publishes record events as JSON to <topic>/<kind>.
type MQTTPublisher struct {
	client  mqtt.MQTTClient
	topic   string
	qos     byte
	timeout time.Duration
	logger  zerolog.Logger
}

// NewMQTTPublisher creates a publisher writing below the given topic prefix.
func NewMQTTPublisher(client mqtt.MQTTClient, topic string, qos int, timeout time.Duration, logger zerolog.Logger) *MQTTPublisher {
	return &MQTTPublisher{
		client:  client,
		topic:   topic,
		qos:     byte(qos),
		timeout: timeout,
		logger:  logger,
	}
}

// Publish implements Publisher. It waits up to the configured timeout for the broker to acknowledge.
func (p *MQTTPublisher) Publish(event RecordEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize record event: %w", err)
	}

	topic := p.topic + "/" + string(event.Kind)
	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.Debug().
		Str("topic", topic).
		Str("record_id", event.ID).
		Msg("Record event published")
	return nil
}
