package domain

import (
	"time"

	sharedDomain "github.com/echo-labs/echo-core/internal/shared/domain"
	"github.com/google/uuid"
)

// WorkBlockSuggested is raised when a placement is stored for a work item.
type WorkBlockSuggested struct {
	sharedDomain.BaseEvent
	ItemID  uuid.UUID   `json:"item_id"`
	UserID  uuid.UUID   `json:"user_id"`
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Minutes int         `json:"minutes"`
	Reason  BlockReason `json:"reason"`
}

// NewWorkBlockSuggested creates a WorkBlockSuggested event.
func NewWorkBlockSuggested(itemID, userID uuid.UUID, block SuggestedBlock) *WorkBlockSuggested {
	return &WorkBlockSuggested{
		BaseEvent: sharedDomain.NewBaseEvent(itemID, "work_item", "scheduling.block.suggested"),
		ItemID:    itemID,
		UserID:    userID,
		Start:     block.Start,
		End:       block.End,
		Minutes:   block.Minutes,
		Reason:    block.Reason,
	}
}
