package target

// DefaultIntervalMinutes is used when a target does not configure a cadence.
const DefaultIntervalMinutes = 10

// PingTarget describes one endpoint that is pinged every round.
type PingTarget struct {
	name            string
	address         string
	intervalMinutes int
}

// Name returns the label used in logs. It is not required to be unique.
func (t PingTarget) Name() string {
	return t.name
}

// Address returns the URL requested with GET.
func (t PingTarget) Address() string {
	return t.address
}

// IntervalMinutes returns the configured cadence.
// The scheduler pings every target each round, so this value is informational.
func (t PingTarget) IntervalMinutes() int {
	return t.intervalMinutes
}

// New creates a PingTarget. A non-positive interval is replaced by
// DefaultIntervalMinutes.
func New(name, address string, intervalMinutes int) PingTarget {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultIntervalMinutes
	}

	return PingTarget{
		name:            name,
		address:         address,
		intervalMinutes: intervalMinutes,
	}
}
