// Package domain contains the domain model for the calendar bounded context.
package domain

import (
	"time"

	schedulingDomain "github.com/echo-labs/echo-core/internal/scheduling/domain"
	"github.com/google/uuid"
)

// CalendarInsights are per-day aggregates delivered with a snapshot.
type CalendarInsights struct {
	WorkAbility        int     `json:"work_ability"`
	MeetingLoadMinutes int     `json:"meeting_load_minutes"`
	ContextSwitches    int     `json:"context_switches"`
	MeetingMinutes     float64 `json:"meeting_minutes"`
}

// DaySnapshot is one day of calendar state for a user: the busy timeline,
// any forecasted deep-work windows, and aggregate insights. Snapshots are
// produced by external automations and only read here.
type DaySnapshot struct {
	UserID          uuid.UUID
	Date            time.Time
	Timeline        []schedulingDomain.BusyInterval
	DeepWorkWindows []schedulingDomain.DeepWorkWindow
	Insights        CalendarInsights
	UpdatedAt       time.Time
}

// MeetingMinutes sums the timeline when the insights carry no total.
func (s *DaySnapshot) MeetingMinutes() float64 {
	if s.Insights.MeetingMinutes > 0 {
		return s.Insights.MeetingMinutes
	}
	var total float64
	for _, event := range s.Timeline {
		total += event.Duration().Minutes()
	}
	return total
}
