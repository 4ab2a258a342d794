package commands

import (
	"context"

	"github.com/echo-labs/echo-core/internal/scheduling/domain"
	sharedApplication "github.com/echo-labs/echo-core/internal/shared/application"
	"github.com/google/uuid"
)

// DecidePlacementCommand records the user's verdict on a placement.
type DecidePlacementCommand struct {
	ItemID uuid.UUID
	UserID uuid.UUID
	Defend bool
}

// DecidePlacementHandler marks a placement defended or dismissed.
type DecidePlacementHandler struct {
	itemRepo domain.WorkItemRepository
	uow      sharedApplication.UnitOfWork
}

func NewDecidePlacementHandler(itemRepo domain.WorkItemRepository, uow sharedApplication.UnitOfWork) *DecidePlacementHandler {
	return &DecidePlacementHandler{itemRepo: itemRepo, uow: uow}
}

// Handle executes the DecidePlacementCommand.
func (h *DecidePlacementHandler) Handle(ctx context.Context, cmd DecidePlacementCommand) error {
	item, err := h.itemRepo.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return err
	}
	if item == nil || item.UserID() != cmd.UserID {
		return ErrWorkItemNotFound
	}

	if cmd.Defend {
		item.Defend()
	} else {
		item.Dismiss()
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.itemRepo.UpdateStatus(txCtx, item.ID(), item.Status())
	})
}
