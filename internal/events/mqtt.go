package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/graystore/internal/infrastructure/mqtt"
)

// RetainedPublisher is the part of *mqtt.Client the MQTT publisher uses.
type RetainedPublisher interface {
	PublishRetained(topic string, payload []byte) error
	Topics() mqtt.Topics
}

// MQTT publishes events on <prefix>/tags/<tag>. An update is retained so
// new subscribers see each tag's current key. A removal publishes an empty
// retained payload, which clears the retained message on the broker.
type MQTT struct {
	client RetainedPublisher
}

// NewMQTT returns a publisher over client.
func NewMQTT(client RetainedPublisher) *MQTT {
	return &MQTT{client: client}
}

// Publish sends e to the tag's topic.
func (m *MQTT) Publish(_ context.Context, e Event) error {
	var payload []byte
	if e.Type != TypeTagRemoved {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding event: %w", err)
		}
		payload = data
	}
	if err := m.client.PublishRetained(m.client.Topics().Tag(e.Tag), payload); err != nil {
		return fmt.Errorf("publishing %s for %s: %w", e.Type, e.Tag, err)
	}
	return nil
}
