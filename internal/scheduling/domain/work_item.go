package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/echo-labs/echo-core/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidEstimate     = errors.New("estimated minutes must be positive")
	ErrAlreadyPlaced       = errors.New("work item already has a stored placement")
	ErrPlacementNotMatched = errors.New("placement duration does not match the estimate")
)

// ItemStatus tracks what the user did with a suggested work item.
type ItemStatus string

const (
	StatusSuggested ItemStatus = "suggested"
	StatusDefended  ItemStatus = "defended"
	StatusDismissed ItemStatus = "dismissed"
)

// WorkItem is a task awaiting (or holding) a suggested work-block placement.
type WorkItem struct {
	sharedDomain.BaseEntity
	userID           uuid.UUID
	title            string
	estimatedMinutes int
	deadline         *time.Time
	suggestedStart   *time.Time
	suggestedEnd     *time.Time
	suggestedReason  BlockReason
	status           ItemStatus

	domainEvents []sharedDomain.DomainEvent
}

// NewWorkItem creates a work item waiting for a placement.
func NewWorkItem(userID uuid.UUID, title string, estimatedMinutes int, deadline *time.Time) (*WorkItem, error) {
	if estimatedMinutes <= 0 {
		return nil, ErrInvalidEstimate
	}

	return &WorkItem{
		BaseEntity:       sharedDomain.NewBaseEntity(),
		userID:           userID,
		title:            title,
		estimatedMinutes: estimatedMinutes,
		deadline:         deadline,
		status:           StatusSuggested,
	}, nil
}

// Getters
func (w *WorkItem) UserID() uuid.UUID            { return w.userID }
func (w *WorkItem) Title() string                { return w.title }
func (w *WorkItem) EstimatedMinutes() int        { return w.estimatedMinutes }
func (w *WorkItem) Deadline() *time.Time         { return w.deadline }
func (w *WorkItem) SuggestedStart() *time.Time   { return w.suggestedStart }
func (w *WorkItem) SuggestedEnd() *time.Time     { return w.suggestedEnd }
func (w *WorkItem) SuggestedReason() BlockReason { return w.suggestedReason }
func (w *WorkItem) Status() ItemStatus           { return w.status }

// HasPlacement reports whether a suggested block has already been stored.
// A stored placement is never recomputed.
func (w *WorkItem) HasPlacement() bool {
	return w.suggestedStart != nil && w.suggestedEnd != nil
}

// Placement returns the stored placement, or nil when none exists.
func (w *WorkItem) Placement() *SuggestedBlock {
	if !w.HasPlacement() {
		return nil
	}
	return &SuggestedBlock{
		Start:   *w.suggestedStart,
		End:     *w.suggestedEnd,
		Minutes: w.estimatedMinutes,
		Reason:  w.suggestedReason,
	}
}

// ApplyPlacement stores a freshly computed suggested block on the item.
func (w *WorkItem) ApplyPlacement(block SuggestedBlock) error {
	if w.HasPlacement() {
		return ErrAlreadyPlaced
	}
	if block.Minutes != w.estimatedMinutes {
		return ErrPlacementNotMatched
	}

	start := block.Start
	end := block.End
	w.suggestedStart = &start
	w.suggestedEnd = &end
	w.suggestedReason = block.Reason
	w.Touch()

	w.addDomainEvent(NewWorkBlockSuggested(w.ID(), w.userID, block))
	return nil
}

// Defend marks the placement as defended by the user.
func (w *WorkItem) Defend() {
	w.status = StatusDefended
	w.Touch()
}

// Dismiss marks the placement as dismissed by the user.
func (w *WorkItem) Dismiss() {
	w.status = StatusDismissed
	w.Touch()
}

// DomainEvents returns all uncommitted domain events.
func (w *WorkItem) DomainEvents() []sharedDomain.DomainEvent {
	return w.domainEvents
}

// ClearDomainEvents removes all uncommitted domain events.
func (w *WorkItem) ClearDomainEvents() {
	w.domainEvents = nil
}

func (w *WorkItem) addDomainEvent(event sharedDomain.DomainEvent) {
	w.domainEvents = append(w.domainEvents, event)
}

// RehydrateWorkItem recreates a work item from persisted state.
func RehydrateWorkItem(
	id uuid.UUID,
	userID uuid.UUID,
	title string,
	estimatedMinutes int,
	deadline *time.Time,
	suggestedStart, suggestedEnd *time.Time,
	suggestedReason BlockReason,
	status ItemStatus,
	createdAt, updatedAt time.Time,
) *WorkItem {
	return &WorkItem{
		BaseEntity:       sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:           userID,
		title:            title,
		estimatedMinutes: estimatedMinutes,
		deadline:         deadline,
		suggestedStart:   suggestedStart,
		suggestedEnd:     suggestedEnd,
		suggestedReason:  suggestedReason,
		status:           status,
	}
}
