package sensor

import "time"

// Defaults for Policy: a sensor may miss two intervals plus five minutes.
const (
	DefaultMultiplier = 2
	DefaultGrace      = 300 * time.Second
)

// Policy decides how long a sensor may stay silent before it is offline.
// The threshold is Interval*Multiplier + Grace.
type Policy struct {
	Multiplier int
	Grace      time.Duration
}

// DefaultPolicy returns the 2×interval + 5 minute policy.
func DefaultPolicy() Policy {
	return Policy{Multiplier: DefaultMultiplier, Grace: DefaultGrace}
}

// Threshold returns the silence allowed for s before it counts as offline.
func (p Policy) Threshold(s Sensor) time.Duration {
	return s.Interval*time.Duration(p.Multiplier) + p.Grace
}

// Offline reports whether s has been silent for longer than its threshold
// at now. Silence exactly equal to the threshold is still online.
func (p Policy) Offline(s Sensor, now time.Time) bool {
	return s.Elapsed(now) > p.Threshold(s)
}
