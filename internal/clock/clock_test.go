package clock

import (
	"testing"
	"time"
)

func TestManualAdvance(t *testing.T) {
	c := NewManual(10 * time.Millisecond)

	c.Advance(5 * time.Millisecond)
	if got := c.Now(); got != 15*time.Millisecond {
		t.Errorf("Now() = %v, expected 15ms", got)
	}

	// Negative advances are ignored
	c.Advance(-time.Second)
	if got := c.Now(); got != 15*time.Millisecond {
		t.Errorf("negative Advance moved clock to %v", got)
	}
}

func TestManualSetIsMonotonic(t *testing.T) {
	c := NewManual(time.Second)

	c.Set(2 * time.Second)
	if c.Now() != 2*time.Second {
		t.Errorf("Set forward failed, got %v", c.Now())
	}

	c.Set(time.Second)
	if c.Now() != 2*time.Second {
		t.Errorf("Set backwards should be ignored, got %v", c.Now())
	}
}

func TestSystemIsMonotonic(t *testing.T) {
	c := NewSystem()
	a := c.Now()
	b := c.Now()
	if b < a {
		t.Errorf("System clock went backwards: %v then %v", a, b)
	}
}
