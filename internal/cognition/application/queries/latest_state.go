package queries

import (
	"context"
	"errors"

	"github.com/echo-labs/echo-core/internal/cognition/domain"
	"github.com/google/uuid"
)

// ErrStateNotFound is returned when the user has never been classified.
var ErrStateNotFound = errors.New("cognitive state not found")

// LatestStateQuery asks for the most recently persisted classification.
type LatestStateQuery struct {
	UserID uuid.UUID
}

// LatestStateHandler reads the audit trail without recomputing.
type LatestStateHandler struct {
	stateRepo domain.StateRepository
}

func NewLatestStateHandler(stateRepo domain.StateRepository) *LatestStateHandler {
	return &LatestStateHandler{stateRepo: stateRepo}
}

// Handle executes the LatestStateQuery.
func (h *LatestStateHandler) Handle(ctx context.Context, query LatestStateQuery) (*domain.StateRecord, error) {
	record, err := h.stateRepo.GetLatest(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrStateNotFound
	}
	return record, nil
}
