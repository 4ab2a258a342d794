package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SnapshotRepository reads day snapshots. A missing snapshot is an
// absence, (nil, nil), never an error; downstream signal derivation
// degrades to zero values.
type SnapshotRepository interface {
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DaySnapshot, error)
}

// SnapshotWriter upserts snapshots delivered by external automations.
type SnapshotWriter interface {
	Upsert(ctx context.Context, snapshot *DaySnapshot) error
}
