package clock

import (
	"testing"
	"time"
)

func TestFixed(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.UTC)
	c := NewFixed(base)

	if !c.Now().Equal(base) {
		t.Fatalf("Now: got %v, want %v", c.Now(), base)
	}
	c.Advance(90 * time.Second)
	if want := base.Add(90 * time.Second); !c.Now().Equal(want) {
		t.Errorf("after Advance: got %v, want %v", c.Now(), want)
	}
}
