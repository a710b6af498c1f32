// Package clock provides the monotonic time source shared by the frame loop and
// the scheduler loop. Times are offsets from the clock's own origin, so the
// rhythm engine never touches wall-clock dates.
package clock

import (
	"sync"
	"time"
)

// Clock reports monotonic time since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// System reads the process monotonic clock.
type System struct {
	origin time.Time
}

// NewSystem creates a clock whose origin is the moment of the call.
func NewSystem() *System {
	return &System{origin: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (s *System) Now() time.Duration {
	return time.Since(s.origin)
}

// Manual is a controllable clock for tests and replays.
type Manual struct {
	mu  sync.RWMutex
	now time.Duration
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set jumps the clock to t. Moving backwards is ignored to keep the clock monotonic.
func (m *Manual) Set(t time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t > m.now {
		m.now = t
	}
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
}
