package domain

import (
	"context"

	"github.com/google/uuid"
)

// StateRepository persists the cognitive-state audit trail.
type StateRepository interface {
	// Upsert writes the record keyed by user, replacing any previous state.
	Upsert(ctx context.Context, record *StateRecord) error

	// GetLatest returns the most recent record, or (nil, nil) when the
	// user has never been classified.
	GetLatest(ctx context.Context, userID uuid.UUID) (*StateRecord, error)
}
