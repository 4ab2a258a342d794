// Package outbox implements the transactional outbox: domain events are
// written to the outbox table in the same transaction as the state
// change that raised them, and a background processor relays them to the
// event bus with retry and dead-lettering.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/echo-labs/echo-core/internal/shared/domain"
	"github.com/google/uuid"
)

// Message is one event awaiting relay to the broker.
type Message struct {
	ID            int64
	EventID       uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	RoutingKey    string
	Payload       json.RawMessage
	Metadata      json.RawMessage
	CreatedAt     time.Time
	PublishedAt   *time.Time
	NextRetryAt   *time.Time
	RetryCount    int
	LastError     *string
	DeadAt        *time.Time
	DeadReason    *string
}

// NewMessage serializes a domain event into an outbox message.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewMessages serializes a batch of events.
func NewMessages(events []domain.DomainEvent) ([]*Message, error) {
	msgs := make([]*Message, 0, len(events))
	for _, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// IsPublished reports whether the message has left the outbox.
func (m *Message) IsPublished() bool {
	return m.PublishedAt != nil
}
