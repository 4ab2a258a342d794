// Package commands contains the cognition write operations.
package commands

import (
	"context"
	"time"

	"github.com/echo-labs/echo-core/internal/cognition/application/services"
	"github.com/echo-labs/echo-core/internal/cognition/domain"
	sharedApplication "github.com/echo-labs/echo-core/internal/shared/application"
	sharedDomain "github.com/echo-labs/echo-core/internal/shared/domain"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RecomputeStateCommand requests a fresh classification for a user.
type RecomputeStateCommand struct {
	UserID uuid.UUID
}

// RecomputeStateResult carries the classification back to the caller.
type RecomputeStateResult struct {
	Record   *domain.StateRecord
	Pressure domain.PressureIndex
}

// RecomputeStateHandler collects signals, classifies, and persists the
// audit record together with its event in one transaction.
type RecomputeStateHandler struct {
	collector  *services.SignalCollector
	stateRepo  domain.StateRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

func NewRecomputeStateHandler(
	collector *services.SignalCollector,
	stateRepo domain.StateRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *RecomputeStateHandler {
	return &RecomputeStateHandler{
		collector:  collector,
		stateRepo:  stateRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// WithClock overrides the handler's clock for tests.
func (h *RecomputeStateHandler) WithClock(now func() time.Time) *RecomputeStateHandler {
	h.now = now
	return h
}

// Handle executes the RecomputeStateCommand. Signal gaps degrade to zero
// values, so every invocation yields a state.
func (h *RecomputeStateHandler) Handle(ctx context.Context, cmd RecomputeStateCommand) (*RecomputeStateResult, error) {
	pressureSignals, stateSignals, err := h.collector.Collect(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	index := services.ComputePressure(pressureSignals)
	state := services.ClassifyState(stateSignals)
	computedAt := h.now().UTC()
	record := domain.NewStateRecord(cmd.UserID, state, index, computedAt)

	event := domain.NewStateRecomputed(cmd.UserID, state, index, computedAt)
	events := []sharedDomain.DomainEvent{event}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.stateRepo.Upsert(txCtx, record); err != nil {
			return err
		}
		msgs, err := outbox.NewMessages(events)
		if err != nil {
			return err
		}
		return h.outboxRepo.SaveBatch(txCtx, msgs)
	})
	if err != nil {
		return nil, err
	}

	return &RecomputeStateResult{Record: record, Pressure: index}, nil
}
