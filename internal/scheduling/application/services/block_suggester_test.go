package services

import (
	"testing"
	"time"

	"github.com/echo-labs/echo-core/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSuggester(now time.Time) *BlockSuggester {
	return NewBlockSuggester(DefaultSuggesterConfig()).WithClock(func() time.Time { return now })
}

func TestBlockSuggester_PrefersDeepWorkWindow(t *testing.T) {
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	windows := []domain.DeepWorkWindow{
		{Start: testDay(9, 0), End: testDay(11, 0), Minutes: 120},
	}
	// The afternoon gap would score higher, but deep work always wins.
	timeline := []domain.BusyInterval{
		{Start: testDay(11, 0), End: testDay(13, 0)},
	}

	block, err := suggester.Suggest(45, windows, timeline, nil)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, domain.ReasonDeepWork, block.Reason)
	assert.Equal(t, testDay(9, 0), block.Start)
	assert.Equal(t, testDay(9, 45), block.End)
	assert.Equal(t, 45, block.Minutes)
}

func TestBlockSuggester_DeepWorkWindowTooSmallFallsThrough(t *testing.T) {
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	windows := []domain.DeepWorkWindow{
		{Start: testDay(9, 0), End: testDay(9, 30), Minutes: 30},
	}

	block, err := suggester.Suggest(60, windows, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, domain.ReasonQuietGap, block.Reason)
}

func TestBlockSuggester_SkipsStartedAndPastWindows(t *testing.T) {
	now := testDay(10, 0)
	suggester := newTestSuggester(now)

	windows := []domain.DeepWorkWindow{
		{Start: testDay(9, 0), End: testDay(11, 0), Minutes: 120},  // already started
		{Start: testDay(14, 0), End: testDay(16, 0), Minutes: 120}, // usable
	}

	block, err := suggester.Suggest(30, windows, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, domain.ReasonDeepWork, block.Reason)
	assert.Equal(t, testDay(14, 0), block.Start)
}

func TestBlockSuggester_WindowBeyondDeadlineRejected(t *testing.T) {
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	deadline := testDay(12, 0)
	windows := []domain.DeepWorkWindow{
		{Start: testDay(13, 0), End: testDay(15, 0), Minutes: 120},
	}

	block, err := suggester.Suggest(30, windows, nil, &deadline)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, domain.ReasonQuietGap, block.Reason)
	assert.True(t, block.End.Before(deadline) || block.End.Equal(deadline))
}

func TestBlockSuggester_PicksHighestScoringGap(t *testing.T) {
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	// Two gaps: 09:00-10:00 (score 0) and 14:00-16:00 (score 2).
	timeline := []domain.BusyInterval{
		{Start: testDay(10, 0), End: testDay(14, 0)},
		{Start: testDay(16, 0), End: testDay(17, 30)},
	}

	block, err := suggester.Suggest(30, nil, timeline, nil)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, domain.ReasonQuietGap, block.Reason)
	assert.Equal(t, testDay(14, 0), block.Start)
	assert.Equal(t, testDay(14, 30), block.End)
}

func TestBlockSuggester_TieKeepsEarliestGap(t *testing.T) {
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	// Both gaps start before 10:00 and score 0; the earlier one wins.
	timeline := []domain.BusyInterval{
		{Start: testDay(9, 45), End: testDay(9, 50)},
		{Start: testDay(9, 55), End: testDay(17, 30)},
	}

	block, err := suggester.Suggest(5, nil, timeline, nil)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, testDay(9, 0), block.Start)
}

func TestBlockSuggester_SpanningGapPlacedAtGapStart(t *testing.T) {
	// One meeting 10:00-11:00 leaves gaps [09:00,10:00) and [11:00,17:30).
	// The second gap spans into the afternoon but is scored by its start
	// hour (11 -> 1), and the block lands at the gap start, not at 13:00.
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	timeline := []domain.BusyInterval{
		{Start: testDay(10, 0), End: testDay(11, 0)},
	}

	block, err := suggester.Suggest(30, nil, timeline, nil)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, testDay(11, 0), block.Start)
	assert.Equal(t, domain.ReasonQuietGap, block.Reason)
}

func TestBlockSuggester_NoFeasiblePlacement(t *testing.T) {
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	timeline := []domain.BusyInterval{
		{Start: testDay(9, 0), End: testDay(17, 30)},
	}

	block, err := suggester.Suggest(30, nil, timeline, nil)
	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestBlockSuggester_ExactDuration(t *testing.T) {
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	for _, minutes := range []int{15, 30, 90, 240} {
		block, err := suggester.Suggest(minutes, nil, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, block)
		assert.Equal(t, time.Duration(minutes)*time.Minute, block.End.Sub(block.Start))
		assert.Equal(t, minutes, block.Minutes)
	}
}

func TestBlockSuggester_Deterministic(t *testing.T) {
	now := testDay(8, 0)
	suggester := newTestSuggester(now)

	timeline := []domain.BusyInterval{
		{Start: testDay(10, 0), End: testDay(11, 0)},
	}

	first, err := suggester.Suggest(30, nil, timeline, nil)
	require.NoError(t, err)
	second, err := suggester.Suggest(30, nil, timeline, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBlockSuggester_RejectsNonPositiveEstimate(t *testing.T) {
	suggester := newTestSuggester(testDay(8, 0))

	_, err := suggester.Suggest(0, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEstimate)

	_, err = suggester.Suggest(-30, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEstimate)
}

func TestAddBusinessDays_SkipsWeekend(t *testing.T) {
	// 2025-03-14 is a Friday.
	friday := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	got := domain.AddBusinessDays(friday, 3)
	// Mon, Tue, Wed.
	assert.Equal(t, time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC), got)
}
