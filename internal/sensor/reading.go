// Package sensor defines the sensor and reading types tracked by the
// registry, along with the policy that decides when a sensor is offline.
package sensor

import "time"

// Sensor is a registered device that is expected to transmit every Interval.
type Sensor struct {
	ID               string        // e.g. "sensor1"
	Name             string        // e.g. "Temperature Sensor"
	LastTransmission time.Time     // timestamp of the latest reading seen
	Interval         time.Duration // expected transmission period, > 0
}

// Reading is a single value transmitted by a sensor. SensorID may reference
// a sensor that was never registered.
type Reading struct {
	SensorID  string
	Timestamp time.Time
	Value     float64
	IsOnline  bool // as reported by the caller, never derived
}

// Elapsed returns the time since the sensor's last transmission.
func (s Sensor) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.LastTransmission)
}
