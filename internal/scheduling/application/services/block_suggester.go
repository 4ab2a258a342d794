package services

import (
	"time"

	"github.com/echo-labs/echo-core/internal/scheduling/domain"
)

// DefaultDeadlineBusinessDays is the horizon used when no deadline is supplied.
const DefaultDeadlineBusinessDays = 3

// SuggesterConfig contains configuration for the block suggester.
type SuggesterConfig struct {
	WorkingHours         domain.WorkingHours
	DeadlineBusinessDays int
}

// DefaultSuggesterConfig returns the default configuration.
func DefaultSuggesterConfig() SuggesterConfig {
	return SuggesterConfig{
		WorkingHours:         domain.DefaultWorkingHours(),
		DeadlineBusinessDays: DefaultDeadlineBusinessDays,
	}
}

// BlockSuggester places a task of a given duration into the day: preferably
// inside a forecasted deep-work window, otherwise into the best-scoring
// quiet gap. The computation is deterministic in its inputs and the
// injected clock; callers own persistence and idempotency.
type BlockSuggester struct {
	config  SuggesterConfig
	deriver *GapDeriver
	now     func() time.Time
}

// NewBlockSuggester creates a new block suggester.
func NewBlockSuggester(config SuggesterConfig) *BlockSuggester {
	return &BlockSuggester{
		config:  config,
		deriver: NewGapDeriver(config.WorkingHours),
		now:     time.Now,
	}
}

// WithClock overrides the suggester's clock. Tests use this for fixed days.
func (s *BlockSuggester) WithClock(now func() time.Time) *BlockSuggester {
	s.now = now
	return s
}

// Now returns the suggester's current time. Callers use it to resolve
// "today" consistently with the placement computation.
func (s *BlockSuggester) Now() time.Time {
	return s.now()
}

// Suggest computes a placement for estimatedMinutes of work, or nil when no
// feasible placement exists. A nil result is an absence, not an error.
func (s *BlockSuggester) Suggest(
	estimatedMinutes int,
	deepWorkWindows []domain.DeepWorkWindow,
	dayTimeline []domain.BusyInterval,
	deadline *time.Time,
) (*domain.SuggestedBlock, error) {
	if estimatedMinutes <= 0 {
		return nil, domain.ErrInvalidEstimate
	}

	now := s.now()
	latest := s.resolveDeadline(now, deadline)
	duration := time.Duration(estimatedMinutes) * time.Minute

	// Step 1: first deep-work window with enough capacity, in given order.
	for _, window := range deepWorkWindows {
		if !window.Start.After(now) {
			continue
		}
		if window.End.After(latest) {
			continue
		}
		if window.Minutes < estimatedMinutes {
			continue
		}
		return &domain.SuggestedBlock{
			Start:   window.Start,
			End:     window.Start.Add(duration),
			Minutes: estimatedMinutes,
			Reason:  domain.ReasonDeepWork,
		}, nil
	}

	// Step 2: highest-scoring free gap with enough capacity. Ties keep the
	// earliest-occurring gap.
	gaps := s.deriver.Derive(now, dayTimeline, latest)

	var best *domain.ScoredGap
	for _, candidate := range ScoreGaps(gaps) {
		if candidate.Minutes < estimatedMinutes {
			continue
		}
		if best == nil || candidate.Score > best.Score {
			c := candidate
			best = &c
		}
	}

	if best == nil {
		return nil, nil
	}

	return &domain.SuggestedBlock{
		Start:   best.Start,
		End:     best.Start.Add(duration),
		Minutes: estimatedMinutes,
		Reason:  domain.ReasonQuietGap,
	}, nil
}

func (s *BlockSuggester) resolveDeadline(now time.Time, deadline *time.Time) time.Time {
	if deadline != nil {
		return *deadline
	}
	days := s.config.DeadlineBusinessDays
	if days <= 0 {
		days = DefaultDeadlineBusinessDays
	}
	return domain.AddBusinessDays(now, days)
}
