// Package commands contains the scheduling write operations.
package commands

import (
	"context"
	"errors"

	calendarDomain "github.com/echo-labs/echo-core/internal/calendar/domain"
	"github.com/echo-labs/echo-core/internal/scheduling/application/services"
	"github.com/echo-labs/echo-core/internal/scheduling/domain"
	sharedApplication "github.com/echo-labs/echo-core/internal/shared/application"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ErrWorkItemNotFound is returned when the item does not exist.
var ErrWorkItemNotFound = errors.New("work item not found")

// SuggestBlockCommand requests a placement for a stored work item.
type SuggestBlockCommand struct {
	ItemID uuid.UUID
	UserID uuid.UUID
}

// SuggestBlockResult reports the placement and whether this invocation
// computed it. A stored placement is returned as-is; Computed is false
// then. Block is nil when nothing fits before the deadline.
type SuggestBlockResult struct {
	Block    *domain.SuggestedBlock
	Computed bool
}

// SuggestBlockHandler loads the item and its day snapshot, runs the
// suggester, and stores the placement with a conditional write so that
// concurrent invocations cannot both land.
type SuggestBlockHandler struct {
	itemRepo   domain.WorkItemRepository
	snapshots  calendarDomain.SnapshotRepository
	suggester  *services.BlockSuggester
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewSuggestBlockHandler(
	itemRepo domain.WorkItemRepository,
	snapshots calendarDomain.SnapshotRepository,
	suggester *services.BlockSuggester,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *SuggestBlockHandler {
	return &SuggestBlockHandler{
		itemRepo:   itemRepo,
		snapshots:  snapshots,
		suggester:  suggester,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the SuggestBlockCommand.
func (h *SuggestBlockHandler) Handle(ctx context.Context, cmd SuggestBlockCommand) (*SuggestBlockResult, error) {
	item, err := h.itemRepo.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.UserID() != cmd.UserID {
		return nil, ErrWorkItemNotFound
	}

	// Idempotency: a stored placement is returned verbatim, never
	// recomputed, even when the calendar has changed since.
	if item.HasPlacement() {
		return &SuggestBlockResult{Block: item.Placement(), Computed: false}, nil
	}

	windows, timeline, err := h.loadDay(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	block, err := h.suggester.Suggest(item.EstimatedMinutes(), windows, timeline, item.Deadline())
	if err != nil {
		return nil, err
	}
	if block == nil {
		return &SuggestBlockResult{Block: nil, Computed: true}, nil
	}

	if err := item.ApplyPlacement(*block); err != nil {
		return nil, err
	}

	var stored bool
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		stored, err = h.itemRepo.SavePlacement(txCtx, item)
		if err != nil {
			return err
		}
		if !stored {
			return nil
		}

		events := item.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))
		msgs, err := outbox.NewMessages(events)
		if err != nil {
			return err
		}
		return h.outboxRepo.SaveBatch(txCtx, msgs)
	})
	if err != nil {
		return nil, err
	}
	item.ClearDomainEvents()

	if !stored {
		// A concurrent invocation won the conditional write. Re-read and
		// return the placement it stored.
		winner, err := h.itemRepo.FindByID(ctx, cmd.ItemID)
		if err != nil {
			return nil, err
		}
		if winner == nil || !winner.HasPlacement() {
			return nil, domain.ErrAlreadyPlaced
		}
		return &SuggestBlockResult{Block: winner.Placement(), Computed: false}, nil
	}

	return &SuggestBlockResult{Block: block, Computed: true}, nil
}

// loadDay reads today's snapshot. A missing snapshot degrades to an
// empty calendar: the whole working frame is one free gap.
func (h *SuggestBlockHandler) loadDay(ctx context.Context, userID uuid.UUID) ([]domain.DeepWorkWindow, []domain.BusyInterval, error) {
	snapshot, err := h.snapshots.FindByUserAndDate(ctx, userID, h.suggester.Now())
	if err != nil {
		return nil, nil, err
	}
	if snapshot == nil {
		return nil, nil, nil
	}
	return snapshot.DeepWorkWindows, snapshot.Timeline, nil
}
