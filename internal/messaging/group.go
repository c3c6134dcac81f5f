package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a component with a start/shutdown lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs a set of consumers over one subscriber and gives
// them a single lifecycle. Start is all-or-nothing; Shutdown is
// best-effort across every member.
type ConsumerGroup struct {
	consumers  []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates an empty group over a shared subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a consumer. Not safe to call after Start.
func (g *ConsumerGroup) Add(consumer Runnable) {
	g.consumers = append(g.consumers, consumer)
}

// Start starts every consumer. If one fails, those already running are
// shut down and the start error is returned.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	started := 0

	for _, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			g.rollback(started)

			return fmt.Errorf("start consumer %d: %w", started, err)
		}

		started++
	}

	g.logger.Info("consumer group started", zap.Int("count", started))

	return nil
}

func (g *ConsumerGroup) rollback(started int) {
	for i := started - 1; i >= 0; i-- {
		if err := g.consumers[i].Shutdown(); err != nil {
			g.logger.Error("rollback shutdown failed", zap.Int("consumer", i), zap.Error(err))
		}
	}
}

// Shutdown stops every consumer, then closes the subscriber. All members
// are attempted regardless of failures; the first error is returned.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("shutting down consumer group")

	var firstErr error

	for _, consumer := range g.consumers {
		if err := consumer.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := g.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
