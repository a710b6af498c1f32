package rhythm

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/vovakirdan/tapbeat/internal/core"
)

// SoundEngine triggers sounds at absolute times on the audio clock.
// Times are seconds in the engine's own time base and are always in the
// future relative to CurrentAudioTime when scheduled.
type SoundEngine interface {
	ScheduleKick(t float64)
	ScheduleHat(t, tone, amp float64)
	ScheduleClap(t, amp float64)
	ScheduleBass(t, freq, amp float64)
	ScheduleLead(t, freq, amp float64)
	ScheduleChord(t float64, freqs []float64)
	CurrentAudioTime() float64
	Resume() error
}

// Haptics delivers best-effort vibration feedback.
type Haptics interface {
	Vibrate(d time.Duration)
}

// Persistence stores aggregate values between runs.
// Get returns an empty string for a missing key.
type Persistence interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Viewport reports the playable surface in playfield units.
type Viewport interface {
	Bounds() core.Area
}

// RunRecorder receives a summary of every finished run.
type RunRecorder interface {
	RecordRun(rec RunRecord) error
}

// RunRecord summarises a finished run.
type RunRecord struct {
	ID       string
	Score    int
	MaxCombo int
	Level    int
	Coins    int
	Duration time.Duration
}

// NopSound is a SoundEngine with no output. Resume always fails, which
// turns the scheduler off.
type NopSound struct{}

func (NopSound) ScheduleKick(float64)                   {}
func (NopSound) ScheduleHat(float64, float64, float64)  {}
func (NopSound) ScheduleClap(float64, float64)          {}
func (NopSound) ScheduleBass(float64, float64, float64) {}
func (NopSound) ScheduleLead(float64, float64, float64) {}
func (NopSound) ScheduleChord(float64, []float64)       {}
func (NopSound) CurrentAudioTime() float64              { return 0 }
func (NopSound) Resume() error                          { return ErrAudioUnavailable }

// NopHaptics ignores vibration requests.
type NopHaptics struct{}

func (NopHaptics) Vibrate(time.Duration) {}

// FixedViewport is a Viewport with constant bounds.
type FixedViewport core.Area

// Bounds returns the fixed area.
func (v FixedViewport) Bounds() core.Area { return core.Area(v) }

// MemoryPersistence keeps values in a map. The zero value is ready to use.
type MemoryPersistence struct {
	mu     sync.Mutex
	values map[string]string
}

// Get returns the stored value or an empty string.
func (m *MemoryPersistence) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

// Set stores a value.
func (m *MemoryPersistence) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// LoadJSON decodes the value under key into a T. Missing, unreadable or
// malformed data yields fallback.
func LoadJSON[T any](p Persistence, key string, fallback T) T {
	raw, err := p.Get(key)
	if err != nil || raw == "" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback
	}
	return v
}

// SaveJSON encodes v and stores it under key. The error is informational;
// callers log it and carry on.
func SaveJSON(p Persistence, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.Set(key, string(data))
}
