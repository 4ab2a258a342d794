// Package services contains the pure scheduling computations: free-gap
// derivation, gap scoring, and work-block suggestion. Nothing in this
// package performs I/O; callers supply calendar data and persist results.
package services

import (
	"sort"
	"time"

	"github.com/echo-labs/echo-core/internal/scheduling/domain"
)

// GapDeriver computes the ordered free gaps of a day: the open intervals
// before, between, and after busy calendar events, bounded by the working
// hours frame and a deadline.
type GapDeriver struct {
	hours domain.WorkingHours
}

// NewGapDeriver creates a deriver for the given working-hours frame.
func NewGapDeriver(hours domain.WorkingHours) *GapDeriver {
	return &GapDeriver{hours: hours}
}

// Derive sweeps the day's busy intervals and emits every positive-duration
// open interval between now and min(dayEnd, latestAllowedEnd).
//
// An event that started before now but has not ended still occupies the
// cursor through its end time; it is not skipped.
func (d *GapDeriver) Derive(now time.Time, busy []domain.BusyInterval, latestAllowedEnd time.Time) []domain.FreeGap {
	dayEnd := domain.MinTime(d.hours.DayEnd(now), latestAllowedEnd)
	cursor := domain.MaxTime(now, d.hours.DayStart(now))

	if !cursor.Before(dayEnd) {
		return nil
	}

	// Events fully in the past cannot shape any remaining gap.
	relevant := make([]domain.BusyInterval, 0, len(busy))
	for _, event := range busy {
		if event.End.After(now) {
			relevant = append(relevant, event)
		}
	}
	sort.Slice(relevant, func(i, j int) bool {
		return relevant[i].Start.Before(relevant[j].Start)
	})

	var gaps []domain.FreeGap
	for _, event := range relevant {
		if event.Start.After(cursor) {
			gapEnd := domain.MinTime(event.Start, dayEnd)
			if gapEnd.After(cursor) {
				gaps = append(gaps, newFreeGap(cursor, gapEnd))
			}
		}
		cursor = domain.MaxTime(cursor, event.End)
		if !cursor.Before(dayEnd) {
			return gaps
		}
	}

	if dayEnd.After(cursor) {
		gaps = append(gaps, newFreeGap(cursor, dayEnd))
	}

	return gaps
}

func newFreeGap(start, end time.Time) domain.FreeGap {
	return domain.FreeGap{
		Start:   start,
		End:     end,
		Minutes: int(end.Sub(start).Minutes()),
	}
}
