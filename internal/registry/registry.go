// Package registry tracks registered sensors and the readings they send,
// and classifies each sensor as online or offline from the time elapsed
// since its last transmission.
package registry

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/luki/sensorwatch/internal/clock"
	"github.com/luki/sensorwatch/internal/history"
	"github.com/luki/sensorwatch/internal/sensor"
)

// Summary counts registered sensors by liveness.
type Summary struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
}

// Status is one sensor's liveness evaluated at a single instant.
type Status struct {
	Sensor    sensor.Sensor
	Elapsed   time.Duration
	Threshold time.Duration
	Offline   bool
}

// Registry holds sensors and their reading history. A single lock guards
// both so that a recorded reading and the matching LastTransmission update
// are observed together.
//
// Sensor IDs are not deduplicated: registering the same ID twice keeps both
// entries and every lookup resolves to the first one.
type Registry struct {
	mu      sync.RWMutex
	sensors []sensor.Sensor
	index   map[string]int // id -> position of first match in sensors
	log     *history.Log

	clock  clock.Clock
	policy sensor.Policy
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the clock used to evaluate "now".
func WithClock(c clock.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithPolicy sets the offline policy.
func WithPolicy(p sensor.Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New creates an empty registry using the wall clock and the default policy.
func New(opts ...Option) *Registry {
	r := &Registry{
		index:  make(map[string]int),
		log:    history.NewLog(),
		clock:  clock.Wall{},
		policy: sensor.DefaultPolicy(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RegisterSensor adds s to the registry.
func (r *Registry) RegisterSensor(s sensor.Sensor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.index[s.ID]; dup {
		r.logger.Warn("duplicate sensor id registered; lookups use the first entry", "sensor", s.ID)
	} else {
		r.index[s.ID] = len(r.sensors)
	}
	r.sensors = append(r.sensors, s)
	r.logger.Debug("sensor registered", "sensor", s.ID, "name", s.Name, "interval", s.Interval)
}

// IsOffline reports whether the sensor has been silent for longer than its
// threshold. Unknown sensors are offline.
func (r *Registry) IsOffline(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.lookup(id)
	if !ok {
		return true
	}
	return r.policy.Offline(s, r.clock.Now())
}

// RecordReading appends rd to the history and, if its sensor is registered,
// sets the sensor's LastTransmission to rd.Timestamp. The update is applied
// even when rd is older than the current value.
func (r *Registry) RecordReading(rd sensor.Reading) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Append(rd)

	i, ok := r.index[rd.SensorID]
	if !ok {
		r.logger.Debug("orphan reading stored", "sensor", rd.SensorID, "timestamp", rd.Timestamp)
		return
	}
	r.sensors[i].LastTransmission = rd.Timestamp
}

// RecentReadings returns the readings of the given sensor with a timestamp
// in [now-window, now], in arrival order.
func (r *Registry) RecentReadings(id string, window time.Duration) []sensor.Reading {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.clock.Now()
	return r.log.Window(id, now.Add(-window), now)
}

// OfflineSensors returns every registered sensor that is offline, in
// registration order.
func (r *Registry) OfflineSensors() []sensor.Sensor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.offline(r.clock.Now())
}

// Summary counts sensors by liveness. Total always equals Online+Offline.
func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.sensors)
	offline := len(r.offline(r.clock.Now()))
	return Summary{Total: total, Online: total - offline, Offline: offline}
}

// Summarize counts statuses by liveness, so a summary and the rows it
// describes come from the same instant.
func Summarize(statuses []Status) Summary {
	s := Summary{Total: len(statuses)}
	for _, st := range statuses {
		if st.Offline {
			s.Offline++
		}
	}
	s.Online = s.Total - s.Offline
	return s
}

// Statuses evaluates every registered sensor at the same instant.
func (r *Registry) Statuses() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.clock.Now()
	out := make([]Status, 0, len(r.sensors))
	for _, s := range r.sensors {
		// Duplicates report the state of the first entry, as IsOffline does.
		first, _ := r.lookup(s.ID)
		out = append(out, Status{
			Sensor:    s,
			Elapsed:   first.Elapsed(now),
			Threshold: r.policy.Threshold(first),
			Offline:   r.policy.Offline(first, now),
		})
	}
	return out
}

// Sensor returns the first registered sensor with the given id.
func (r *Registry) Sensor(id string) (sensor.Sensor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id)
}

// Sensors returns a copy of all registered sensors in registration order.
func (r *Registry) Sensors() []sensor.Sensor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sensor.Sensor, len(r.sensors))
	copy(out, r.sensors)
	return out
}

// Stats returns value statistics for every reading recorded under id,
// including orphan readings.
func (r *Registry) Stats(id string) (history.Stats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.Stats(id)
}

// Values returns the last n readings recorded under id as chart points.
func (r *Registry) Values(id string, n int) []history.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.LastN(id, n)
}

// Orphans returns the number of readings whose sensor is not registered.
func (r *Registry) Orphans() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.Count(func(rd sensor.Reading) bool {
		_, ok := r.index[rd.SensorID]
		return !ok
	})
}

// Len returns the total number of recorded readings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.Len()
}

// Now returns the registry clock's current time.
func (r *Registry) Now() time.Time {
	return r.clock.Now()
}

func (r *Registry) lookup(id string) (sensor.Sensor, bool) {
	i, ok := r.index[id]
	if !ok {
		return sensor.Sensor{}, false
	}
	return r.sensors[i], true
}

func (r *Registry) offline(now time.Time) []sensor.Sensor {
	var out []sensor.Sensor
	for _, s := range r.sensors {
		first, _ := r.lookup(s.ID)
		if r.policy.Offline(first, now) {
			out = append(out, s)
		}
	}
	return out
}
