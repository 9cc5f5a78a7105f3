package monitor

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/sensorwatch/internal/clock"
	"github.com/luki/sensorwatch/internal/registry"
	"github.com/luki/sensorwatch/internal/sensor"
)

func newTestModel(t *testing.T) (Model, *clock.Fixed) {
	t.Helper()
	now := time.Date(2026, 2, 21, 14, 30, 0, 0, time.UTC)
	c := clock.NewFixed(now)
	reg := registry.New(registry.WithClock(c))
	reg.RegisterSensor(sensor.Sensor{ID: "sensor1", Name: "Temperature", LastTransmission: now, Interval: time.Minute})
	reg.RegisterSensor(sensor.Sensor{ID: "sensor2", Name: "Noise", LastTransmission: now.Add(-10 * time.Minute), Interval: time.Minute})
	reg.RecordReading(sensor.Reading{SensorID: "sensor1", Timestamp: now.Add(-time.Minute), Value: 22.9})
	reg.RecordReading(sensor.Reading{SensorID: "sensor1", Timestamp: now.Add(-30 * time.Second), Value: 23.1})
	reg.RecordReading(sensor.Reading{SensorID: "sensor1", Timestamp: now, Value: 23.5})
	reg.RecordReading(sensor.Reading{SensorID: "ghost", Timestamp: now, Value: 1})
	return New(reg, 5*time.Minute), c
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestViewBeforeResize(t *testing.T) {
	m, _ := newTestModel(t)
	if got := m.View(); !strings.Contains(got, "Initializing") {
		t.Errorf("expected initializing placeholder, got %q", got)
	}
}

func TestSnapshotAndView(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	m = update(t, m, m.snapshot())

	if m.summary != (registry.Summary{Total: 2, Online: 1, Offline: 1}) {
		t.Fatalf("summary: got %+v", m.summary)
	}

	view := m.View()
	for _, want := range []string{"SENSOR LIVENESS", "1 offline", "OFFLINE", "ONLINE", "Temperature", "1 orphan readings", "14:29"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSnapshotFollowsClock(t *testing.T) {
	m, c := newTestModel(t)
	m = update(t, m, m.snapshot())
	if m.summary.Offline != 1 {
		t.Fatalf("offline: got %d, want 1", m.summary.Offline)
	}

	c.Advance(8 * time.Minute)
	m = update(t, m, m.snapshot())
	if m.summary.Offline != 2 {
		t.Errorf("offline after 8m: got %d, want 2", m.summary.Offline)
	}
}

func TestSnapshotSummaryMatchesRows(t *testing.T) {
	m, c := newTestModel(t)
	c.Advance(7 * time.Minute)

	msg := m.snapshot().(snapshotMsg)
	offline := 0
	for _, st := range msg.statuses {
		if st.Offline {
			offline++
		}
	}
	if msg.summary.Offline != offline || msg.summary.Total != len(msg.statuses) {
		t.Errorf("summary %+v disagrees with %d rows (%d offline)", msg.summary, len(msg.statuses), offline)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"Boiler", 22, "Boiler"},
		{"Sonde thermique éééééééé", 22, "Sonde thermique ééééé…"},
		{"ééééé", 3, "ééé"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.w)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.w)
		}
	}
}

func TestKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if !m.paused {
		t.Error("expected paused after p")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if m.scroll != 1 {
		t.Errorf("scroll: got %d, want 1", m.scroll)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg from q")
	}
}

func TestPausedTickSkipsSnapshot(t *testing.T) {
	m, _ := newTestModel(t)
	m.paused = true

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected tick to be rescheduled while paused")
	}
}
