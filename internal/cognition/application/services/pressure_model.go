// Package services contains the cognition computations: the pressure
// model, the state classifier, the opinion generator, and the signal
// collector that feeds them from the inbox and calendar stores.
package services

import "github.com/echo-labs/echo-core/internal/cognition/domain"

// Fixed linear weights and driver thresholds. Chosen for
// interpretability, not fit to data; downstream consumers depend on the
// exact values.
const (
	weightAction   = 6.0
	weightFollowUp = 2.0
	weightEmail    = 4.0
	weightMeetings = 0.12

	backlogDriverThreshold  = 12.0
	spikeDriverThreshold    = 12.0
	calendarDriverThreshold = 10.0

	pressureFloor = 0.0
	pressureCeil  = 100.0
)

// ComputePressure aggregates backlog, email velocity, and meeting load
// into the bounded pressure index with named drivers.
func ComputePressure(signals domain.PressureSignals) domain.PressureIndex {
	backlog := weightAction*float64(signals.UnresolvedAction) +
		weightFollowUp*float64(signals.UnresolvedFollowUp)
	emailSpike := weightEmail * float64(signals.EmailRate60)
	meetingPressure := weightMeetings * signals.MeetingMinutesToday

	var drivers []domain.Driver
	if backlog > backlogDriverThreshold {
		drivers = append(drivers, domain.DriverUnresolvedBacklog)
	}
	if emailSpike > spikeDriverThreshold {
		drivers = append(drivers, domain.DriverEmailSpike)
	}
	if meetingPressure > calendarDriverThreshold {
		drivers = append(drivers, domain.DriverCalendarDensity)
	}

	return domain.PressureIndex{
		Value:   clamp(backlog+emailSpike+meetingPressure, pressureFloor, pressureCeil),
		Drivers: drivers,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
