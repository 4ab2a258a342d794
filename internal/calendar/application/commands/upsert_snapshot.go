// Package commands contains the calendar write operations.
package commands

import (
	"context"
	"time"

	"github.com/echo-labs/echo-core/internal/calendar/domain"
	"github.com/google/uuid"
)

// SnapshotInvalidator drops cached reads after a write. The cache layer
// implements it; a nil invalidator means no cache is wired.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID, date time.Time)
}

// UpsertSnapshotCommand delivers a fresh day snapshot from an automation.
type UpsertSnapshotCommand struct {
	Snapshot *domain.DaySnapshot
}

// UpsertSnapshotHandler stores the snapshot and invalidates the cache.
type UpsertSnapshotHandler struct {
	writer      domain.SnapshotWriter
	invalidator SnapshotInvalidator
	now         func() time.Time
}

func NewUpsertSnapshotHandler(writer domain.SnapshotWriter, invalidator SnapshotInvalidator) *UpsertSnapshotHandler {
	return &UpsertSnapshotHandler{
		writer:      writer,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// Handle executes the UpsertSnapshotCommand.
func (h *UpsertSnapshotHandler) Handle(ctx context.Context, cmd UpsertSnapshotCommand) error {
	snapshot := cmd.Snapshot
	snapshot.UpdatedAt = h.now().UTC()

	if err := h.writer.Upsert(ctx, snapshot); err != nil {
		return err
	}
	if h.invalidator != nil {
		h.invalidator.Invalidate(ctx, snapshot.UserID, snapshot.Date)
	}
	return nil
}
