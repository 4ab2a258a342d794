package domain

import (
	"time"

	sharedDomain "github.com/echo-labs/echo-core/internal/shared/domain"
	"github.com/google/uuid"
)

// StateRecomputed is raised whenever a classification is persisted.
// Narrative consumers subscribe to it instead of polling the table.
type StateRecomputed struct {
	sharedDomain.BaseEvent
	UserID     uuid.UUID `json:"user_id"`
	State      State     `json:"state"`
	Drivers    []string  `json:"drivers"`
	Pressure   float64   `json:"pressure"`
	ComputedAt time.Time `json:"computed_at"`
}

// NewStateRecomputed creates a StateRecomputed event.
func NewStateRecomputed(userID uuid.UUID, state State, index PressureIndex, computedAt time.Time) *StateRecomputed {
	return &StateRecomputed{
		BaseEvent:  sharedDomain.NewBaseEvent(userID, "cognitive_state", "cognition.state.recomputed"),
		UserID:     userID,
		State:      state,
		Drivers:    index.DriverNames(),
		Pressure:   index.Value,
		ComputedAt: computedAt,
	}
}
