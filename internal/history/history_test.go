package history

import (
	"testing"
	"time"

	"github.com/luki/sensorwatch/internal/sensor"
)

func TestStats(t *testing.T) {
	l := NewLog()

	now := time.Now()
	for i := 0; i < 7; i++ {
		l.Append(sensor.Reading{SensorID: "s1", Value: float64(30 + i), Timestamp: now.Add(time.Duration(i) * time.Second)})
	}
	l.Append(sensor.Reading{SensorID: "s2", Value: 99, Timestamp: now})

	st, ok := l.Stats("s1")
	if !ok {
		t.Fatal("expected stats for s1")
	}
	if st.Count != 7 {
		t.Errorf("Count: got %d, want 7", st.Count)
	}
	if st.Last != 36.0 {
		t.Errorf("Last: got %f, want 36.0", st.Last)
	}
	if st.Min != 30.0 {
		t.Errorf("Min: got %f, want 30.0", st.Min)
	}
	if st.Peak != 36.0 {
		t.Errorf("Peak: got %f, want 36.0", st.Peak)
	}
	if st.Avg() != 33.0 {
		t.Errorf("Avg: got %f, want 33.0", st.Avg())
	}

	if _, ok := l.Stats("missing"); ok {
		t.Error("expected no stats for unknown id")
	}
	if l.Len() != 8 {
		t.Errorf("Len: got %d, want 8", l.Len())
	}
}

func TestWindow(t *testing.T) {
	l := NewLog()
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)

	l.Append(sensor.Reading{SensorID: "sensor1", Timestamp: base})
	l.Append(sensor.Reading{SensorID: "sensor2", Timestamp: base.Add(-5 * time.Minute)})
	l.Append(sensor.Reading{SensorID: "sensor1", Timestamp: base.Add(-5 * time.Minute)})
	l.Append(sensor.Reading{SensorID: "sensor1", Timestamp: base.Add(-6 * time.Minute)})
	l.Append(sensor.Reading{SensorID: "sensor1", Timestamp: base.Add(time.Second)})

	tests := []struct {
		id   string
		want int
	}{
		{"sensor1", 2},
		{"sensor2", 1},
		{"sensor3", 0},
	}
	for _, tt := range tests {
		got := l.Window(tt.id, base.Add(-5*time.Minute), base)
		if len(got) != tt.want {
			t.Errorf("Window(%q): got %d readings, want %d", tt.id, len(got), tt.want)
		}
		for _, r := range got {
			if r.SensorID != tt.id {
				t.Errorf("Window(%q) leaked reading for %q", tt.id, r.SensorID)
			}
		}
	}

	got := l.Window("sensor1", base.Add(-5*time.Minute), base)
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("expected arrival order, first reading at %v", got[0].Timestamp)
	}
}

func TestLastN(t *testing.T) {
	l := NewLog()
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)

	for i := 0; i < 120; i++ {
		id := "a"
		if i%2 == 1 {
			id = "b"
		}
		l.Append(sensor.Reading{SensorID: id, Value: float64(i), Timestamp: base.Add(time.Duration(i) * time.Second)})
	}

	pts := l.LastN("a", 5)
	if len(pts) != 5 {
		t.Fatalf("LastN(5): got %d, want 5", len(pts))
	}
	if pts[0].Value != 110 || pts[4].Value != 118 {
		t.Errorf("LastN order: got first=%v last=%v, want 110 and 118", pts[0].Value, pts[4].Value)
	}
	if last := pts[len(pts)-1]; last.Time != base.Add(118*time.Second) {
		t.Errorf("last point time: got %v, want %v", last.Time, base.Add(118*time.Second))
	}

	if pts := l.LastN("a", 0); pts != nil {
		t.Errorf("LastN(0): got %v, want nil", pts)
	}
}
