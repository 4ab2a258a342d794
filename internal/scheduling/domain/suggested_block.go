package domain

import "time"

// BlockReason explains how a suggested block was placed.
type BlockReason string

const (
	// ReasonDeepWork means the block landed inside a forecasted deep-work window.
	ReasonDeepWork BlockReason = "deep_work"
	// ReasonQuietGap means the block landed in the best-scoring free calendar gap.
	ReasonQuietGap BlockReason = "quiet_gap"
)

// SuggestedBlock is the scheduler's output: a concrete placement for a task.
// End minus Start always equals the requested minutes exactly.
type SuggestedBlock struct {
	Start   time.Time
	End     time.Time
	Minutes int
	Reason  BlockReason
}
