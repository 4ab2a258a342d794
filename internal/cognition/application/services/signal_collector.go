package services

import (
	"context"
	"fmt"
	"time"

	calendarDomain "github.com/echo-labs/echo-core/internal/calendar/domain"
	"github.com/echo-labs/echo-core/internal/cognition/domain"
	inboxDomain "github.com/echo-labs/echo-core/internal/inbox/domain"
	"github.com/google/uuid"
)

// SignalCollector gathers pressure and state signals for a user from the
// inbox and calendar stores. Missing rows degrade to zero values so a
// recompute always has inputs to work with.
type SignalCollector struct {
	emails    inboxDomain.EmailRepository
	snapshots calendarDomain.SnapshotRepository
	now       func() time.Time
}

func NewSignalCollector(emails inboxDomain.EmailRepository, snapshots calendarDomain.SnapshotRepository) *SignalCollector {
	return &SignalCollector{
		emails:    emails,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// WithClock overrides the collector's clock. Tests use this to pin the
// rate windows to a fixed instant.
func (c *SignalCollector) WithClock(now func() time.Time) *SignalCollector {
	c.now = now
	return c
}

// Collect reads every signal source once and returns both signal sets.
func (c *SignalCollector) Collect(ctx context.Context, userID uuid.UUID) (domain.PressureSignals, domain.StateSignals, error) {
	now := c.now()

	unresolved, err := c.emails.CountUnresolvedByBand(ctx, userID)
	if err != nil {
		return domain.PressureSignals{}, domain.StateSignals{}, fmt.Errorf("count unresolved: %w", err)
	}

	last60, err := c.emails.CountReceivedSince(ctx, userID, now.Add(-60*time.Minute))
	if err != nil {
		return domain.PressureSignals{}, domain.StateSignals{}, fmt.Errorf("count last 60m: %w", err)
	}
	last90, err := c.emails.CountReceivedSince(ctx, userID, now.Add(-90*time.Minute))
	if err != nil {
		return domain.PressureSignals{}, domain.StateSignals{}, fmt.Errorf("count last 90m: %w", err)
	}

	resolved, err := c.emails.CountResolvedToday(ctx, userID, now)
	if err != nil {
		return domain.PressureSignals{}, domain.StateSignals{}, fmt.Errorf("count resolved today: %w", err)
	}
	drafts, err := c.emails.CountPreparedDraftsToday(ctx, userID, now)
	if err != nil {
		return domain.PressureSignals{}, domain.StateSignals{}, fmt.Errorf("count drafts today: %w", err)
	}

	snapshot, err := c.snapshots.FindByUserAndDate(ctx, userID, now)
	if err != nil {
		return domain.PressureSignals{}, domain.StateSignals{}, fmt.Errorf("load day snapshot: %w", err)
	}

	pressure := domain.PressureSignals{
		UnresolvedAction:   unresolved[inboxDomain.BandAction],
		UnresolvedFollowUp: unresolved[inboxDomain.BandFollowUp],
		EmailRate60:        last60,
	}
	state := domain.StateSignals{
		EmailsLast90:        last90,
		EmailsLast60:        last60,
		UnresolvedAction:    unresolved[inboxDomain.BandAction],
		UnresolvedFollowUp:  unresolved[inboxDomain.BandFollowUp],
		PreparedDraftsToday: drafts,
		ResolvedToday:       resolved,
	}
	if snapshot != nil {
		pressure.MeetingMinutesToday = snapshot.MeetingMinutes()
		state.WorkAbility = snapshot.Insights.WorkAbility
		state.MeetingLoadMinutes = snapshot.Insights.MeetingLoadMinutes
		state.ContextSwitches = snapshot.Insights.ContextSwitches
	}
	return pressure, state, nil
}
