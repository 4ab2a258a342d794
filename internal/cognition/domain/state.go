package domain

import (
	"time"

	"github.com/google/uuid"
)

// State is the classified cognitive load of the moment. Despite the
// machine-like naming in the UI, classification is memoryless: every
// computation starts from scratch and only the result is persisted.
type State string

const (
	StateOverloaded State = "overloaded"
	StateDefensive  State = "defensive"
	StateContained  State = "contained"
	StateClear      State = "clear"
)

// StateConfidence is the fixed confidence recorded with every state.
const StateConfidence = 0.85

// StateCopy is the fixed instruction/relief pair carried by a state.
type StateCopy struct {
	Instruction string
	Relief      string
}

// stateCopy is the static lookup table. States carry their copy verbatim;
// there is no blending between states.
var stateCopy = map[State]StateCopy{
	StateOverloaded: {
		Instruction: "Stop triaging. Pick the one thing that is actually due today and ignore the rest until it ships.",
		Relief:      "Your calendar and inbox spiked at the same time. Nobody absorbs that cleanly.",
	},
	StateDefensive: {
		Instruction: "Hold your existing commitments. Say no to anything new until the backlog is below six.",
		Relief:      "The load is real, not a focus problem. Protecting your time is the right move.",
	},
	StateContained: {
		Instruction: "Keep the current pace. Clear one more follow-up before the next meeting.",
		Relief:      "Drafts are out and items are resolving. The system is working.",
	},
	StateClear: {
		Instruction: "Use the open runway for deep work before the inbox refills.",
		Relief:      "Nothing is pressing. This is the window.",
	},
}

// Copy returns the state's fixed instruction/relief pair.
func (s State) Copy() StateCopy {
	if c, ok := stateCopy[s]; ok {
		return c
	}
	return stateCopy[StateClear]
}

// StateRecord is the persisted audit trail of one classification, read
// later by narrative consumers.
type StateRecord struct {
	UserID      uuid.UUID
	State       State
	Drivers     []string
	Instruction string
	Relief      string
	Confidence  float64
	ComputedAt  time.Time
}

// NewStateRecord builds the record for a freshly classified state.
func NewStateRecord(userID uuid.UUID, state State, index PressureIndex, computedAt time.Time) *StateRecord {
	c := state.Copy()
	return &StateRecord{
		UserID:      userID,
		State:       state,
		Drivers:     index.DriverNames(),
		Instruction: c.Instruction,
		Relief:      c.Relief,
		Confidence:  StateConfidence,
		ComputedAt:  computedAt,
	}
}
