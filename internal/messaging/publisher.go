package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publish sends a typed event to a fixed topic. Handlers depend on this
// narrow function type instead of the broker interface.
type Publish[T any] func(event *T) error

// NewPublishFunc binds a publisher and topic into a typed publish
// function. Each call encodes the event as JSON under a fresh message id.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode event for %s: %w", topic, err)
		}

		return publisher.Publish(topic, message.NewMessage(watermill.NewUUID(), payload))
	}
}

// PublisherGroup owns the broker publisher's lifecycle. Typed publish
// functions derived from it share the one connection; the injector shuts
// the group down once.
type PublisherGroup struct {
	publisher message.Publisher
}

// NewPublisherGroup wraps a broker publisher.
func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher exposes the underlying broker publisher for deriving typed
// publish functions.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the underlying publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
