package services

import (
	"fmt"
	"strings"

	"github.com/echo-labs/echo-core/internal/cognition/domain"
)

// opinionTier pairs a lower pressure bound with its fixed guidance
// payload. Tiers are evaluated high-to-low; the first bound at or below
// the index wins.
type opinionTier struct {
	minPressure  float64
	primaryFocus string
	reasonFormat string
	doNot        []string
	window       domain.SuggestedWindow
	confidence   int
}

var opinionTiers = []opinionTier{
	{
		minPressure:  80,
		primaryFocus: "Triage only. Close the loop on the single most overdue action item.",
		reasonFormat: "Pressure is at %.0f (%s). Anything beyond damage control will make it worse.",
		doNot: []string{
			"Do not accept new meetings today.",
			"Do not open the noise band.",
			"Do not start anything that takes longer than 25 minutes.",
		},
		window:     domain.SuggestedWindow{MinMinutes: 15, MaxMinutes: 25},
		confidence: 90,
	},
	{
		minPressure:  60,
		primaryFocus: "Work the action backlog down before it compounds.",
		reasonFormat: "Pressure is at %.0f (%s). The backlog is the lever; meetings can wait.",
		doNot: []string{
			"Do not batch-reply to follow-ups yet.",
			"Do not take on new commitments.",
		},
		window:     domain.SuggestedWindow{MinMinutes: 25, MaxMinutes: 45},
		confidence: 80,
	},
	{
		minPressure:  40,
		primaryFocus: "Use the calm window for one substantive piece of work.",
		reasonFormat: "Pressure is moderate at %.0f (%s). There is room for real work if you protect it.",
		doNot: []string{
			"Do not fill the window with inbox grooming.",
		},
		window:     domain.SuggestedWindow{MinMinutes: 45, MaxMinutes: 90},
		confidence: 70,
	},
	{
		minPressure:  0,
		primaryFocus: "Go deep. Pick the hardest thing on your list and start it now.",
		reasonFormat: "Pressure is low at %.0f (%s). Windows like this are rare; spend it on what matters.",
		doNot: []string{
			"Do not spend this window on email.",
		},
		window:     domain.SuggestedWindow{MinMinutes: 90, MaxMinutes: 180},
		confidence: 65,
	},
}

// GenerateOpinion maps the pressure index to its guidance tier.
func GenerateOpinion(index domain.PressureIndex) domain.Opinion {
	for _, tier := range opinionTiers {
		if index.Value >= tier.minPressure {
			return domain.Opinion{
				PrimaryFocus:    tier.primaryFocus,
				Reason:          fmt.Sprintf(tier.reasonFormat, index.Value, driverPhrase(index)),
				ExplicitDoNot:   tier.doNot,
				SuggestedWindow: tier.window,
				Confidence:      tier.confidence,
			}
		}
	}
	// Unreachable: the last tier's bound is zero and the index is clamped.
	return domain.Opinion{}
}

func driverPhrase(index domain.PressureIndex) string {
	names := index.DriverNames()
	if len(names) == 0 {
		return "no dominant driver"
	}
	return "driven by " + strings.Join(names, ", ")
}
