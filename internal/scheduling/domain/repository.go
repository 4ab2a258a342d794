package domain

import (
	"context"

	"github.com/google/uuid"
)

// WorkItemRepository handles persistence for suggested work items.
type WorkItemRepository interface {
	// Save persists a new work item.
	Save(ctx context.Context, item *WorkItem) error

	// FindByID retrieves a work item. Returns (nil, nil) when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*WorkItem, error)

	// SavePlacement writes the item's placement only when none is stored yet.
	// The write is conditional on status='suggested' and an absent start so
	// that two near-simultaneous suggestions cannot both land. Returns false
	// when another placement won the race.
	SavePlacement(ctx context.Context, item *WorkItem) (bool, error)

	// UpdateStatus records the user's defend/dismiss decision.
	UpdateStatus(ctx context.Context, id uuid.UUID, status ItemStatus) error
}
