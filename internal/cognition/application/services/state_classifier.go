package services

import "github.com/echo-labs/echo-core/internal/cognition/domain"

// stateRule pairs a predicate with the state it selects. Rules are
// evaluated top-down; the first match wins.
type stateRule struct {
	matches func(f stateFacts) bool
	state   domain.State
}

// stateFacts are the derived booleans the rules read.
type stateFacts struct {
	calendarHeavy bool
	inboxSpike    bool
	actionLoad    bool
	reliefPresent bool
}

var stateRules = []stateRule{
	{func(f stateFacts) bool { return f.calendarHeavy && f.inboxSpike }, domain.StateOverloaded},
	{func(f stateFacts) bool { return f.calendarHeavy || f.actionLoad }, domain.StateDefensive},
	{func(f stateFacts) bool { return f.reliefPresent }, domain.StateContained},
	{func(f stateFacts) bool { return true }, domain.StateClear},
}

// ClassifyState maps the signal set to a cognitive state. Every call
// evaluates fresh; there is no transition history.
func ClassifyState(signals domain.StateSignals) domain.State {
	facts := deriveFacts(signals)
	for _, rule := range stateRules {
		if rule.matches(facts) {
			return rule.state
		}
	}
	return domain.StateClear
}

func deriveFacts(s domain.StateSignals) stateFacts {
	return stateFacts{
		calendarHeavy: s.WorkAbility < 50 || s.MeetingLoadMinutes > 240 || s.ContextSwitches > 10,
		inboxSpike:    s.EmailsLast90 >= 8 || s.EmailsLast60 >= 6,
		actionLoad:    s.UnresolvedAction >= 6 || s.UnresolvedAction+s.UnresolvedFollowUp >= 9,
		reliefPresent: s.PreparedDraftsToday > 0 || s.ResolvedToday >= 2,
	}
}
