package commands

import (
	"context"
	"testing"
	"time"

	calendarDomain "github.com/echo-labs/echo-core/internal/calendar/domain"
	"github.com/echo-labs/echo-core/internal/cognition/application/services"
	"github.com/echo-labs/echo-core/internal/cognition/domain"
	inboxDomain "github.com/echo-labs/echo-core/internal/inbox/domain"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopUnitOfWork struct{}

func (noopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (noopUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (noopUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

type stubEmailRepo struct {
	unresolved map[inboxDomain.Band]int
	received   int
	resolved   int
	drafts     int
}

func (s *stubEmailRepo) CountUnresolvedByBand(ctx context.Context, userID uuid.UUID) (map[inboxDomain.Band]int, error) {
	return s.unresolved, nil
}

func (s *stubEmailRepo) CountReceivedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	return s.received, nil
}

func (s *stubEmailRepo) CountResolvedToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	return s.resolved, nil
}

func (s *stubEmailRepo) CountPreparedDraftsToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	return s.drafts, nil
}

type stubSnapshotRepo struct {
	snapshot *calendarDomain.DaySnapshot
}

func (s *stubSnapshotRepo) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*calendarDomain.DaySnapshot, error) {
	return s.snapshot, nil
}

type memoryStateRepo struct {
	records map[uuid.UUID]*domain.StateRecord
}

func newMemoryStateRepo() *memoryStateRepo {
	return &memoryStateRepo{records: make(map[uuid.UUID]*domain.StateRecord)}
}

func (r *memoryStateRepo) Upsert(ctx context.Context, record *domain.StateRecord) error {
	r.records[record.UserID] = record
	return nil
}

func (r *memoryStateRepo) GetLatest(ctx context.Context, userID uuid.UUID) (*domain.StateRecord, error) {
	return r.records[userID], nil
}

func TestRecomputeStateHandler_PersistsRecordAndEvent(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	userID := uuid.New()

	emails := &stubEmailRepo{
		unresolved: map[inboxDomain.Band]int{inboxDomain.BandAction: 7},
	}
	snapshots := &stubSnapshotRepo{
		snapshot: &calendarDomain.DaySnapshot{
			Insights: calendarDomain.CalendarInsights{WorkAbility: 80, MeetingLoadMinutes: 60},
		},
	}
	collector := services.NewSignalCollector(emails, snapshots).
		WithClock(func() time.Time { return now })
	stateRepo := newMemoryStateRepo()
	outboxRepo := outbox.NewInMemoryRepository()

	handler := NewRecomputeStateHandler(collector, stateRepo, outboxRepo, noopUnitOfWork{}).
		WithClock(func() time.Time { return now })

	result, err := handler.Handle(context.Background(), RecomputeStateCommand{UserID: userID})
	require.NoError(t, err)

	// Seven unresolved action items: pressure 42, state defensive.
	assert.InDelta(t, 42.0, result.Pressure.Value, 1e-9)
	assert.Equal(t, []string{"unresolved_backlog"}, result.Pressure.DriverNames())

	record := result.Record
	require.NotNil(t, record)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, domain.StateDefensive, record.State)
	assert.Equal(t, []string{"unresolved_backlog"}, record.Drivers)
	assert.Equal(t, domain.StateConfidence, record.Confidence)
	assert.Equal(t, now, record.ComputedAt)
	assert.Equal(t, domain.StateDefensive.Copy().Instruction, record.Instruction)
	assert.Equal(t, domain.StateDefensive.Copy().Relief, record.Relief)

	stored, err := stateRepo.GetLatest(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, record, stored)

	pending, err := outboxRepo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "cognition.state.recomputed", pending[0].RoutingKey)
}

func TestRecomputeStateHandler_MissingSourcesStillClassify(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	collector := services.NewSignalCollector(&stubEmailRepo{}, &stubSnapshotRepo{}).
		WithClock(func() time.Time { return now })
	stateRepo := newMemoryStateRepo()

	handler := NewRecomputeStateHandler(collector, stateRepo, outbox.NewInMemoryRepository(), noopUnitOfWork{}).
		WithClock(func() time.Time { return now })

	result, err := handler.Handle(context.Background(), RecomputeStateCommand{UserID: uuid.New()})
	require.NoError(t, err)

	// No snapshot reads as zero work ability, so the day classifies as
	// calendar-heavy even with an empty inbox.
	assert.Equal(t, domain.StateDefensive, result.Record.State)
	assert.Zero(t, result.Pressure.Value)
}

func TestRecomputeStateHandler_OverwritesPreviousRecord(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	userID := uuid.New()
	emails := &stubEmailRepo{}
	snapshots := &stubSnapshotRepo{
		snapshot: &calendarDomain.DaySnapshot{
			Insights: calendarDomain.CalendarInsights{WorkAbility: 80},
		},
	}
	collector := services.NewSignalCollector(emails, snapshots).
		WithClock(func() time.Time { return now })
	stateRepo := newMemoryStateRepo()

	handler := NewRecomputeStateHandler(collector, stateRepo, outbox.NewInMemoryRepository(), noopUnitOfWork{}).
		WithClock(func() time.Time { return now })

	first, err := handler.Handle(context.Background(), RecomputeStateCommand{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, domain.StateClear, first.Record.State)

	emails.resolved = 3
	second, err := handler.Handle(context.Background(), RecomputeStateCommand{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, domain.StateContained, second.Record.State)

	stored, err := stateRepo.GetLatest(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateContained, stored.State)
}
