package services

import (
	"context"
	"testing"
	"time"

	calendarDomain "github.com/echo-labs/echo-core/internal/calendar/domain"
	inboxDomain "github.com/echo-labs/echo-core/internal/inbox/domain"
	schedulingDomain "github.com/echo-labs/echo-core/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailRepo struct {
	unresolved map[inboxDomain.Band]int
	byCutoff   map[time.Time]int
	resolved   int
	drafts     int
}

func (f *fakeEmailRepo) CountUnresolvedByBand(ctx context.Context, userID uuid.UUID) (map[inboxDomain.Band]int, error) {
	return f.unresolved, nil
}

func (f *fakeEmailRepo) CountReceivedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	return f.byCutoff[since], nil
}

func (f *fakeEmailRepo) CountResolvedToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	return f.resolved, nil
}

func (f *fakeEmailRepo) CountPreparedDraftsToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	return f.drafts, nil
}

type fakeSnapshotRepo struct {
	snapshot *calendarDomain.DaySnapshot
}

func (f *fakeSnapshotRepo) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*calendarDomain.DaySnapshot, error) {
	return f.snapshot, nil
}

func TestSignalCollector_Collect(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	userID := uuid.New()

	emails := &fakeEmailRepo{
		unresolved: map[inboxDomain.Band]int{
			inboxDomain.BandAction:   4,
			inboxDomain.BandFollowUp: 2,
			inboxDomain.BandNoise:    9,
		},
		byCutoff: map[time.Time]int{
			now.Add(-60 * time.Minute): 3,
			now.Add(-90 * time.Minute): 5,
		},
		resolved: 2,
		drafts:   1,
	}
	snapshots := &fakeSnapshotRepo{
		snapshot: &calendarDomain.DaySnapshot{
			UserID: userID,
			Date:   now,
			Insights: calendarDomain.CalendarInsights{
				WorkAbility:        65,
				MeetingLoadMinutes: 180,
				ContextSwitches:    4,
				MeetingMinutes:     180,
			},
		},
	}

	collector := NewSignalCollector(emails, snapshots).WithClock(func() time.Time { return now })
	pressure, state, err := collector.Collect(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 4, pressure.UnresolvedAction)
	assert.Equal(t, 2, pressure.UnresolvedFollowUp)
	assert.Equal(t, 3, pressure.EmailRate60)
	assert.Equal(t, 180.0, pressure.MeetingMinutesToday)

	assert.Equal(t, 65, state.WorkAbility)
	assert.Equal(t, 180, state.MeetingLoadMinutes)
	assert.Equal(t, 4, state.ContextSwitches)
	assert.Equal(t, 5, state.EmailsLast90)
	assert.Equal(t, 3, state.EmailsLast60)
	assert.Equal(t, 4, state.UnresolvedAction)
	assert.Equal(t, 2, state.UnresolvedFollowUp)
	assert.Equal(t, 1, state.PreparedDraftsToday)
	assert.Equal(t, 2, state.ResolvedToday)
}

func TestSignalCollector_MissingSnapshotDegradesToZero(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	collector := NewSignalCollector(&fakeEmailRepo{}, &fakeSnapshotRepo{}).
		WithClock(func() time.Time { return now })

	pressure, state, err := collector.Collect(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Zero(t, pressure.MeetingMinutesToday)
	assert.Zero(t, state.WorkAbility)
	assert.Zero(t, state.MeetingLoadMinutes)
	assert.Zero(t, state.ContextSwitches)
}

func TestSignalCollector_MeetingMinutesFallBackToTimeline(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	snapshots := &fakeSnapshotRepo{
		snapshot: &calendarDomain.DaySnapshot{
			Timeline: []schedulingDomain.BusyInterval{
				{Start: now.Add(-3 * time.Hour), End: now.Add(-2 * time.Hour)},
				{Start: now, End: now.Add(30 * time.Minute)},
			},
		},
	}
	collector := NewSignalCollector(&fakeEmailRepo{}, snapshots).
		WithClock(func() time.Time { return now })

	pressure, _, err := collector.Collect(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 90.0, pressure.MeetingMinutesToday)
}
