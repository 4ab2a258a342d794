package services

import "github.com/echo-labs/echo-core/internal/scheduling/domain"

// Gap desirability by start hour. Fixed beliefs about energy levels, not
// learned: early afternoon is the sweet spot, late day is penalized.
const (
	scoreAfternoon  = 2  // 13:00-16:59
	scoreMidMorning = 1  // 10:00-12:59
	scoreLateDay    = -3 // 17:00 onward
)

// ScoreGap assigns a desirability score from the gap's start hour alone.
// A gap spanning multiple bands is scored once, at its start; it is never
// split or re-scored at the band boundary.
func ScoreGap(gap domain.FreeGap) int {
	switch hour := gap.Start.Hour(); {
	case hour >= 17:
		return scoreLateDay
	case hour >= 13:
		return scoreAfternoon
	case hour >= 10:
		return scoreMidMorning
	default:
		return 0
	}
}

// ScoreGaps scores every gap, preserving the input order.
func ScoreGaps(gaps []domain.FreeGap) []domain.ScoredGap {
	scored := make([]domain.ScoredGap, 0, len(gaps))
	for _, gap := range gaps {
		scored = append(scored, domain.ScoredGap{FreeGap: gap, Score: ScoreGap(gap)})
	}
	return scored
}
