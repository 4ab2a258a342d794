package queries

import (
	"context"
	"testing"
	"time"

	calendarDomain "github.com/echo-labs/echo-core/internal/calendar/domain"
	"github.com/echo-labs/echo-core/internal/cognition/application/services"
	"github.com/echo-labs/echo-core/internal/cognition/domain"
	inboxDomain "github.com/echo-labs/echo-core/internal/inbox/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmailRepo struct {
	unresolved map[inboxDomain.Band]int
	received   int
}

func (s *stubEmailRepo) CountUnresolvedByBand(ctx context.Context, userID uuid.UUID) (map[inboxDomain.Band]int, error) {
	return s.unresolved, nil
}

func (s *stubEmailRepo) CountReceivedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	return s.received, nil
}

func (s *stubEmailRepo) CountResolvedToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	return 0, nil
}

func (s *stubEmailRepo) CountPreparedDraftsToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	return 0, nil
}

type stubSnapshotRepo struct {
	snapshot *calendarDomain.DaySnapshot
}

func (s *stubSnapshotRepo) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*calendarDomain.DaySnapshot, error) {
	return s.snapshot, nil
}

func TestCurrentOpinionHandler_ModeratePressure(t *testing.T) {
	emails := &stubEmailRepo{
		unresolved: map[inboxDomain.Band]int{inboxDomain.BandAction: 7},
	}
	collector := services.NewSignalCollector(emails, &stubSnapshotRepo{})
	handler := NewCurrentOpinionHandler(collector)

	result, err := handler.Handle(context.Background(), CurrentOpinionQuery{UserID: uuid.New()})
	require.NoError(t, err)

	assert.InDelta(t, 42.0, result.Pressure.Value, 1e-9)
	assert.Contains(t, result.Opinion.PrimaryFocus, "Use the calm window")
	assert.Contains(t, result.Opinion.Reason, "unresolved_backlog")
}

func TestCurrentOpinionHandler_QuietMoment(t *testing.T) {
	collector := services.NewSignalCollector(&stubEmailRepo{}, &stubSnapshotRepo{})
	handler := NewCurrentOpinionHandler(collector)

	result, err := handler.Handle(context.Background(), CurrentOpinionQuery{UserID: uuid.New()})
	require.NoError(t, err)

	assert.Zero(t, result.Pressure.Value)
	assert.Empty(t, result.Pressure.Drivers)
	assert.NotEmpty(t, result.Opinion.PrimaryFocus)
	assert.NotEmpty(t, result.Opinion.ExplicitDoNot)
}

func TestLatestStateHandler(t *testing.T) {
	repo := &stubStateRepo{}
	handler := NewLatestStateHandler(repo)

	_, err := handler.Handle(context.Background(), LatestStateQuery{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrStateNotFound)

	userID := uuid.New()
	repo.record = &domain.StateRecord{UserID: userID, State: domain.StateClear}
	record, err := handler.Handle(context.Background(), LatestStateQuery{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, domain.StateClear, record.State)
}

type stubStateRepo struct {
	record *domain.StateRecord
}

func (s *stubStateRepo) Upsert(ctx context.Context, record *domain.StateRecord) error {
	s.record = record
	return nil
}

func (s *stubStateRepo) GetLatest(ctx context.Context, userID uuid.UUID) (*domain.StateRecord, error) {
	return s.record, nil
}
