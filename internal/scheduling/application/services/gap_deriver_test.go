package services

import (
	"testing"
	"time"

	"github.com/echo-labs/echo-core/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDay(hour, minute int) time.Time {
	// A Wednesday, away from weekend edge cases.
	return time.Date(2025, time.March, 12, hour, minute, 0, 0, time.UTC)
}

func TestGapDeriver_SingleMeetingSplitsDay(t *testing.T) {
	deriver := NewGapDeriver(domain.DefaultWorkingHours())
	now := testDay(8, 0)

	busy := []domain.BusyInterval{
		{Start: testDay(10, 0), End: testDay(11, 0)},
	}

	gaps := deriver.Derive(now, busy, testDay(23, 59))
	require.Len(t, gaps, 2)

	assert.Equal(t, testDay(9, 0), gaps[0].Start)
	assert.Equal(t, testDay(10, 0), gaps[0].End)
	assert.Equal(t, 60, gaps[0].Minutes)

	assert.Equal(t, testDay(11, 0), gaps[1].Start)
	assert.Equal(t, testDay(17, 30), gaps[1].End)
	assert.Equal(t, 390, gaps[1].Minutes)
}

func TestGapDeriver_EmptyTimelineYieldsWholeFrame(t *testing.T) {
	deriver := NewGapDeriver(domain.DefaultWorkingHours())
	now := testDay(8, 0)

	gaps := deriver.Derive(now, nil, testDay(23, 59))
	require.Len(t, gaps, 1)
	assert.Equal(t, testDay(9, 0), gaps[0].Start)
	assert.Equal(t, testDay(17, 30), gaps[0].End)
}

func TestGapDeriver_FullyBookedDay(t *testing.T) {
	deriver := NewGapDeriver(domain.DefaultWorkingHours())
	now := testDay(8, 0)

	busy := []domain.BusyInterval{
		{Start: testDay(8, 30), End: testDay(18, 0)},
	}

	gaps := deriver.Derive(now, busy, testDay(23, 59))
	assert.Empty(t, gaps)
}

func TestGapDeriver_RunningMeetingOccupiesCursor(t *testing.T) {
	deriver := NewGapDeriver(domain.DefaultWorkingHours())
	now := testDay(10, 30)

	// Started before now, still running. The cursor must advance to its
	// end rather than treating the present moment as free.
	busy := []domain.BusyInterval{
		{Start: testDay(10, 0), End: testDay(11, 0)},
	}

	gaps := deriver.Derive(now, busy, testDay(23, 59))
	require.Len(t, gaps, 1)
	assert.Equal(t, testDay(11, 0), gaps[0].Start)
}

func TestGapDeriver_PastEventsIgnored(t *testing.T) {
	deriver := NewGapDeriver(domain.DefaultWorkingHours())
	now := testDay(12, 0)

	busy := []domain.BusyInterval{
		{Start: testDay(9, 0), End: testDay(10, 0)},
		{Start: testDay(14, 0), End: testDay(15, 0)},
	}

	gaps := deriver.Derive(now, busy, testDay(23, 59))
	require.Len(t, gaps, 2)
	assert.Equal(t, testDay(12, 0), gaps[0].Start)
	assert.Equal(t, testDay(14, 0), gaps[0].End)
	assert.Equal(t, testDay(15, 0), gaps[1].Start)
	assert.Equal(t, testDay(17, 30), gaps[1].End)
}

func TestGapDeriver_DeadlineBoundsTrailingGap(t *testing.T) {
	deriver := NewGapDeriver(domain.DefaultWorkingHours())
	now := testDay(9, 0)

	deadline := testDay(12, 0)
	gaps := deriver.Derive(now, nil, deadline)
	require.Len(t, gaps, 1)
	assert.Equal(t, deadline, gaps[0].End)
}

func TestGapDeriver_UnsortedEventsAreSorted(t *testing.T) {
	deriver := NewGapDeriver(domain.DefaultWorkingHours())
	now := testDay(8, 0)

	busy := []domain.BusyInterval{
		{Start: testDay(14, 0), End: testDay(15, 0)},
		{Start: testDay(10, 0), End: testDay(11, 0)},
	}

	gaps := deriver.Derive(now, busy, testDay(23, 59))
	require.Len(t, gaps, 3)
	assert.Equal(t, testDay(9, 0), gaps[0].Start)
	assert.Equal(t, testDay(11, 0), gaps[1].Start)
	assert.Equal(t, testDay(15, 0), gaps[2].Start)
}

func TestGapDeriver_GapsNeverOverlapInputs(t *testing.T) {
	deriver := NewGapDeriver(domain.DefaultWorkingHours())
	now := testDay(8, 0)

	busy := []domain.BusyInterval{
		{Start: testDay(9, 30), End: testDay(10, 15)},
		{Start: testDay(10, 0), End: testDay(11, 0)}, // overlapping meetings
		{Start: testDay(13, 0), End: testDay(13, 30)},
	}

	gaps := deriver.Derive(now, busy, testDay(23, 59))
	for _, gap := range gaps {
		assert.True(t, gap.End.After(gap.Start))
		for _, event := range busy {
			overlap := gap.Start.Before(event.End) && gap.End.After(event.Start)
			assert.False(t, overlap, "gap %v-%v overlaps event %v-%v", gap.Start, gap.End, event.Start, event.End)
		}
		for _, other := range gaps {
			if other == gap {
				continue
			}
			overlap := gap.Start.Before(other.End) && gap.End.After(other.Start)
			assert.False(t, overlap, "gaps overlap each other")
		}
	}
}
