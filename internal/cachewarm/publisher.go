package cachewarm

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// PublishFunc announces a persisted mapping. The HTTP layer depends on this
// narrow signature rather than the whole Publisher.
type PublishFunc func(event *MappingCreatedEvent) error

// Publisher emits MappingCreatedEvents on the mapping.created stream.
type Publisher struct {
	publisher message.Publisher
}

// NewPublisher wraps a broker publisher for mapping announcements.
func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

// MappingCreated publishes the event so sibling instances can warm their
// caches. The mapping must already be durable when this is called.
func (p *Publisher) MappingCreated(event *MappingCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode mapping event: %w", err)
	}

	return p.publisher.Publish(TopicMappingCreated, message.NewMessage(watermill.NewUUID(), payload))
}

// Shutdown closes the underlying broker publisher.
func (p *Publisher) Shutdown() error {
	return p.publisher.Close()
}
