// Package eventbus provides the publishing side of domain event
// distribution. Events reach the bus exclusively through the outbox
// processor, never directly from command handlers.
package eventbus

import (
	"context"
	"log/slog"
)

// Publisher delivers serialized domain events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// NoopPublisher logs and discards. Used in development and in tests that
// exercise the outbox without a broker.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("noop publish", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
