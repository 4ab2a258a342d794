package domain

// Driver names a factor that pushed the pressure index past its
// individual threshold.
type Driver string

const (
	DriverUnresolvedBacklog Driver = "unresolved_backlog"
	DriverEmailSpike        Driver = "email_spike"
	DriverCalendarDensity   Driver = "calendar_density"
)

// PressureIndex is the bounded cognitive pressure score with its named
// drivers. Value is always within [0,100].
type PressureIndex struct {
	Value   float64
	Drivers []Driver
}

// HasDriver reports whether the named driver contributed.
func (p PressureIndex) HasDriver(d Driver) bool {
	for _, driver := range p.Drivers {
		if driver == d {
			return true
		}
	}
	return false
}

// DriverNames returns the drivers as plain strings for persistence and
// opinion copy.
func (p PressureIndex) DriverNames() []string {
	names := make([]string, 0, len(p.Drivers))
	for _, d := range p.Drivers {
		names = append(names, string(d))
	}
	return names
}
