package outbox

import (
	"context"
	"sync"
	"time"
)

// Repository persists outbox messages. SaveBatch participates in any
// transaction carried by the context.
type Repository interface {
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns relayable messages ordered by creation time.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld removes published messages past the retention window.
	DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error)
}

// InMemoryRepository backs tests and broker-less development.
type InMemoryRepository struct {
	mu       sync.Mutex
	messages []*Message
	nextID   int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range msgs {
		msg.ID = r.nextID
		r.nextID++
		r.messages = append(r.messages, msg)
	}
	return nil
}

func (r *InMemoryRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var result []*Message
	for _, msg := range r.messages {
		if msg.PublishedAt != nil || msg.DeadAt != nil {
			continue
		}
		if msg.NextRetryAt != nil && msg.NextRetryAt.After(now) {
			continue
		}
		result = append(result, msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *InMemoryRepository) MarkPublished(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg := r.find(id); msg != nil {
		now := time.Now()
		msg.PublishedAt = &now
	}
	return nil
}

func (r *InMemoryRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg := r.find(id); msg != nil {
		msg.RetryCount++
		msg.LastError = &errMsg
		msg.NextRetryAt = &nextRetryAt
	}
	return nil
}

func (r *InMemoryRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg := r.find(id); msg != nil {
		now := time.Now()
		msg.DeadAt = &now
		msg.DeadReason = &reason
	}
	return nil
}

func (r *InMemoryRepository) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	kept := r.messages[:0]
	var removed int64
	for _, msg := range r.messages {
		if msg.PublishedAt != nil && msg.PublishedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, msg)
	}
	r.messages = kept
	return removed, nil
}

func (r *InMemoryRepository) find(id int64) *Message {
	for _, msg := range r.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}
