// Package domain contains the domain model for the cognition bounded
// context: pressure signals, the pressure index, cognitive states, and
// the opinion bundle derived from them.
package domain

// PressureSignals are the raw inputs to the pressure index. Each field
// has a zero default; missing source data never blocks a computation.
type PressureSignals struct {
	UnresolvedAction    int
	UnresolvedFollowUp  int
	EmailRate60         int
	MeetingMinutesToday float64
}

// StateSignals extend the pressure inputs with everything the state
// classifier reads. All fields degrade to zero/false when a source store
// has no rows.
type StateSignals struct {
	WorkAbility         int
	MeetingLoadMinutes  int
	ContextSwitches     int
	EmailsLast90        int
	EmailsLast60        int
	UnresolvedAction    int
	UnresolvedFollowUp  int
	PreparedDraftsToday int
	ResolvedToday       int
}
