// Package history keeps the ordered log of every recorded reading together
// with per-sensor min/peak/avg statistics.
package history

import (
	"math"
	"time"

	"github.com/luki/sensorwatch/internal/sensor"
)

// Point is a single value in a sensor's series.
type Point struct {
	Value float64
	Time  time.Time
}

// Stats accumulates the values recorded for one sensor ID.
type Stats struct {
	Count  int
	Min    float64
	Peak   float64
	Last   float64
	LastAt time.Time // timestamp of the most recently appended reading
	sum    float64
}

func newStats() *Stats {
	return &Stats{
		Min:  math.MaxFloat64,
		Peak: -math.MaxFloat64,
	}
}

func (s *Stats) push(v float64, t time.Time) {
	s.Count++
	s.sum += v
	s.Last = v
	s.LastAt = t
	if v < s.Min {
		s.Min = v
	}
	if v > s.Peak {
		s.Peak = v
	}
}

// Avg returns the mean of all values, or 0 if none were recorded.
func (s Stats) Avg() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.sum / float64(s.Count)
}

// Log is an append-only history of readings in arrival order.
// It is not safe for concurrent use; the registry serializes access.
type Log struct {
	readings []sensor.Reading
	stats    map[string]*Stats
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{stats: make(map[string]*Stats)}
}

// Append records r at the end of the log.
func (l *Log) Append(r sensor.Reading) {
	l.readings = append(l.readings, r)
	st, ok := l.stats[r.SensorID]
	if !ok {
		st = newStats()
		l.stats[r.SensorID] = st
	}
	st.push(r.Value, r.Timestamp)
}

// Len returns the number of readings recorded.
func (l *Log) Len() int {
	return len(l.readings)
}

// Window returns the readings for id whose timestamp lies in [from, to],
// in arrival order.
func (l *Log) Window(id string, from, to time.Time) []sensor.Reading {
	var out []sensor.Reading
	for _, r := range l.readings {
		if r.SensorID != id {
			continue
		}
		if r.Timestamp.Before(from) || r.Timestamp.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Count returns how many readings satisfy keep.
func (l *Log) Count(keep func(sensor.Reading) bool) int {
	n := 0
	for _, r := range l.readings {
		if keep(r) {
			n++
		}
	}
	return n
}

// Stats returns a copy of the statistics for id.
func (l *Log) Stats(id string) (Stats, bool) {
	st, ok := l.stats[id]
	if !ok {
		return Stats{}, false
	}
	return *st, true
}

// LastN returns the last n values recorded for id, oldest first.
func (l *Log) LastN(id string, n int) []Point {
	if n <= 0 {
		return nil
	}
	var pts []Point
	for i := len(l.readings) - 1; i >= 0 && len(pts) < n; i-- {
		r := l.readings[i]
		if r.SensorID == id {
			pts = append(pts, Point{Value: r.Value, Time: r.Timestamp})
		}
	}
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
	return pts
}
