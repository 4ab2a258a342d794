// Package domain contains the domain model for the scheduling bounded context.
package domain

import "time"

// BusyInterval is a meeting on the user's calendar for a given day.
// Intervals are read-only input; the calendar store owns them.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the busy interval.
func (b BusyInterval) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// DeepWorkWindow is an externally forecasted high-quality focus interval.
type DeepWorkWindow struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes int       `json:"minutes"`
}

// FreeGap is an open interval between busy calendar events.
// Gaps are transient; they exist only within one derivation pass.
type FreeGap struct {
	Start   time.Time
	End     time.Time
	Minutes int
}

// ScoredGap pairs a free gap with its time-of-day desirability score.
type ScoredGap struct {
	FreeGap
	Score int
}

// MinTime returns the earlier of two timestamps.
func MinTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxTime returns the later of two timestamps.
func MaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// ClockTime builds a timestamp at the given clock time on base's date.
func ClockTime(base time.Time, hour, minute int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}

// AddBusinessDays adds n business days to t, skipping Saturdays and Sundays.
func AddBusinessDays(t time.Time, n int) time.Time {
	result := t
	for added := 0; added < n; {
		result = result.AddDate(0, 0, 1)
		if wd := result.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return result
}

// WorkingHours is the daily frame free gaps are derived within.
type WorkingHours struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// DefaultWorkingHours is the 09:00-17:30 local frame.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{StartHour: 9, StartMinute: 0, EndHour: 17, EndMinute: 30}
}

// DayStart returns the frame's opening timestamp on t's date.
func (w WorkingHours) DayStart(t time.Time) time.Time {
	return ClockTime(t, w.StartHour, w.StartMinute)
}

// DayEnd returns the frame's closing timestamp on t's date.
func (w WorkingHours) DayEnd(t time.Time) time.Time {
	return ClockTime(t, w.EndHour, w.EndMinute)
}
