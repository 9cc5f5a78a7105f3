// Package fixture loads sets of sensors and readings from YAML and applies
// them to a registry. Times are expressed as ages relative to "now" so the
// same file stays meaningful whenever it is loaded.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/luki/sensorwatch/internal/registry"
	"github.com/luki/sensorwatch/internal/sensor"
)

// DefaultWindow is the recent-readings window used when a fixture sets none.
const DefaultWindow = 300 * time.Second

// ErrInvalid is returned for a fixture that decodes but fails validation.
var ErrInvalid = errors.New("invalid fixture")

// Fixture is a set of sensors and readings plus the settings to evaluate
// them with.
type Fixture struct {
	Policy   *Policy       `yaml:"policy,omitempty"`
	Window   time.Duration `yaml:"window,omitempty"`
	Sensors  []SensorSpec  `yaml:"sensors"`
	Readings []ReadingSpec `yaml:"readings"`
}

// Policy overrides the offline policy.
type Policy struct {
	Multiplier int           `yaml:"multiplier"`
	Grace      time.Duration `yaml:"grace"`
}

// SensorSpec describes a sensor whose last transmission was LastSeen ago.
type SensorSpec struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Interval time.Duration `yaml:"interval"`
	LastSeen time.Duration `yaml:"last_seen"`
}

// ReadingSpec describes a reading taken Age ago.
type ReadingSpec struct {
	Sensor string        `yaml:"sensor"`
	Age    time.Duration `yaml:"age"`
	Value  float64       `yaml:"value"`
	Online bool          `yaml:"online"`
}

// Default returns the built-in diagnostic fixture: a temperature sensor that
// just transmitted, a noise sensor silent for ten minutes, and three readings.
func Default() *Fixture {
	return &Fixture{
		Window: DefaultWindow,
		Sensors: []SensorSpec{
			{ID: "sensor1", Name: "Temperature Sensor", Interval: 60 * time.Second},
			{ID: "sensor2", Name: "Noise Sensor", Interval: 60 * time.Second, LastSeen: 10 * time.Minute},
		},
		Readings: []ReadingSpec{
			{Sensor: "sensor1", Value: 23.5, Online: true},
			{Sensor: "sensor2", Age: 5 * time.Minute, Value: 45.2, Online: true},
			{Sensor: "sensor1", Age: 5 * time.Minute, Value: 24.1, Online: true},
		},
	}
}

// Load reads and validates the fixture at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a YAML fixture. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if f.Window == 0 {
		f.Window = DefaultWindow
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the fixture for values the registry cannot evaluate.
func (f *Fixture) Validate() error {
	if f.Window < 0 {
		return fmt.Errorf("%w: negative window %s", ErrInvalid, f.Window)
	}
	if f.Policy != nil {
		if f.Policy.Multiplier < 1 {
			return fmt.Errorf("%w: policy multiplier must be >= 1, got %d", ErrInvalid, f.Policy.Multiplier)
		}
		if f.Policy.Grace < 0 {
			return fmt.Errorf("%w: negative policy grace %s", ErrInvalid, f.Policy.Grace)
		}
	}
	for i, s := range f.Sensors {
		switch {
		case s.ID == "":
			return fmt.Errorf("%w: sensors[%d]: missing id", ErrInvalid, i)
		case s.Interval <= 0:
			return fmt.Errorf("%w: sensor %q: interval must be > 0", ErrInvalid, s.ID)
		case s.LastSeen < 0:
			return fmt.Errorf("%w: sensor %q: negative last_seen", ErrInvalid, s.ID)
		}
	}
	for i, r := range f.Readings {
		switch {
		case r.Sensor == "":
			return fmt.Errorf("%w: readings[%d]: missing sensor", ErrInvalid, i)
		case r.Age < 0:
			return fmt.Errorf("%w: readings[%d]: negative age", ErrInvalid, i)
		}
	}
	return nil
}

// RegistryPolicy returns the fixture's offline policy, or the default.
func (f *Fixture) RegistryPolicy() sensor.Policy {
	if f.Policy == nil {
		return sensor.DefaultPolicy()
	}
	return sensor.Policy{Multiplier: f.Policy.Multiplier, Grace: f.Policy.Grace}
}

// Apply registers every sensor and then records every reading, in file
// order, with times resolved against now.
func (f *Fixture) Apply(reg *registry.Registry, now time.Time) {
	for _, s := range f.Sensors {
		reg.RegisterSensor(sensor.Sensor{
			ID:               s.ID,
			Name:             s.Name,
			LastTransmission: now.Add(-s.LastSeen),
			Interval:         s.Interval,
		})
	}
	for _, r := range f.Readings {
		reg.RecordReading(sensor.Reading{
			SensorID:  r.Sensor,
			Timestamp: now.Add(-r.Age),
			Value:     r.Value,
			IsOnline:  r.Online,
		})
	}
}
