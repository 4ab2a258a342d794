package commands

import (
	"context"
	"time"

	"github.com/echo-labs/echo-core/internal/scheduling/domain"
	sharedApplication "github.com/echo-labs/echo-core/internal/shared/application"
	"github.com/google/uuid"
)

// CreateWorkItemCommand registers a task awaiting a placement.
type CreateWorkItemCommand struct {
	UserID           uuid.UUID
	Title            string
	EstimatedMinutes int
	Deadline         *time.Time
}

// CreateWorkItemHandler handles the CreateWorkItemCommand.
type CreateWorkItemHandler struct {
	itemRepo domain.WorkItemRepository
	uow      sharedApplication.UnitOfWork
}

func NewCreateWorkItemHandler(itemRepo domain.WorkItemRepository, uow sharedApplication.UnitOfWork) *CreateWorkItemHandler {
	return &CreateWorkItemHandler{itemRepo: itemRepo, uow: uow}
}

// Handle executes the CreateWorkItemCommand.
func (h *CreateWorkItemHandler) Handle(ctx context.Context, cmd CreateWorkItemCommand) (*domain.WorkItem, error) {
	item, err := domain.NewWorkItem(cmd.UserID, cmd.Title, cmd.EstimatedMinutes, cmd.Deadline)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.itemRepo.Save(txCtx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
