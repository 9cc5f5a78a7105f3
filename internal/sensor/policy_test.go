package sensor

import (
	"testing"
	"time"
)

func TestPolicyThreshold(t *testing.T) {
	p := DefaultPolicy()
	s := Sensor{ID: "sensor1", Interval: 60 * time.Second}
	if got := p.Threshold(s); got != 420*time.Second {
		t.Errorf("Threshold: got %v, want 7m0s", got)
	}
}

func TestPolicyOffline(t *testing.T) {
	now := time.Date(2026, 2, 21, 14, 30, 0, 0, time.UTC)
	p := DefaultPolicy()

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"just transmitted", 0, false},
		{"five minutes", 5 * time.Minute, false},
		{"exactly threshold", 420 * time.Second, false},
		{"one second past", 421 * time.Second, true},
		{"ten minutes", 10 * time.Minute, true},
		{"future timestamp", -time.Minute, false},
	}
	for _, tt := range tests {
		s := Sensor{ID: "s", Interval: time.Minute, LastTransmission: now.Add(-tt.age)}
		if got := p.Offline(s, now); got != tt.want {
			t.Errorf("%s: Offline = %v, want %v", tt.name, got, tt.want)
		}
	}
}
