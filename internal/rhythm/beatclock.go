package rhythm

import (
	"math"
	"time"
)

// Tempo limits. SetBpm clamps into this range.
const (
	MinBpm = 40.0
	MaxBpm = 220.0
)

// BeatClock tracks tempo and beat boundaries on a monotonic timeline.
//
// Boundaries are laid out in tempo segments. A segment starts at a boundary
// and spaces the following boundaries by its interval; SetBpm closes the
// current segment at the most recent boundary, so the phase never jumps.
// While the tempo is constant, boundary k is exactly anchor + k*interval.
type BeatClock struct {
	bpm       float64
	interval  time.Duration
	anchor    time.Duration // Beat zero
	segStart  time.Duration // First boundary of the current tempo segment
	segBeat   int           // Beat index of segStart
	beatIndex int           // Most recent boundary reached by Tick
}

// NewBeatClock creates a clock at the given tempo, anchored at zero.
func NewBeatClock(bpm float64) *BeatClock {
	c := &BeatClock{}
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		bpm = MinBpm
	}
	c.setTempo(bpm)
	return c
}

// Start anchors beat zero at now and resets the beat index.
func (c *BeatClock) Start(now time.Duration) {
	c.anchor = now
	c.segStart = now
	c.segBeat = 0
	c.beatIndex = 0
}

// Tick advances the beat index past every boundary at or before now,
// calling onBeat for each one. It returns the number of beats advanced.
// Calling it again with the same now is a no-op.
func (c *BeatClock) Tick(now time.Duration, onBeat func(beat int)) int {
	advanced := 0
	for now >= c.BeatAt(c.beatIndex+1) {
		c.beatIndex++
		advanced++
		if onBeat != nil {
			onBeat(c.beatIndex)
		}
	}
	return advanced
}

// NearestBeatDelta returns the signed offset from now to the closest beat
// boundary: negative when now is after the previous beat, positive when it
// is before the next one. An exact tie resolves to the next beat.
// Instants before the anchor measure to beat zero.
func (c *BeatClock) NearestBeatDelta(now time.Duration) time.Duration {
	if now < c.anchor {
		return c.anchor - now
	}
	prev := c.sinceBoundary(now)
	if prev == 0 {
		return 0
	}
	next := c.interval - prev
	if prev < next {
		return -prev
	}
	return next
}

// SetBpm changes the tempo and returns the value actually applied.
// Values outside [MinBpm, MaxBpm] are clamped; NaN and infinities are ignored.
// The anchor and beat index are untouched; only boundaries after the most
// recent one use the new interval.
func (c *BeatClock) SetBpm(bpm float64) float64 {
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return c.bpm
	}
	bpm = clampBpm(bpm)
	if bpm == c.bpm {
		return bpm
	}
	c.segStart = c.BeatAt(c.beatIndex)
	c.segBeat = c.beatIndex
	c.setTempo(bpm)
	return bpm
}

// Reanchor shifts the timeline forward by a pause so no backlog of beats
// fires on resume and the phase at the pause is preserved.
func (c *BeatClock) Reanchor(pausedFor time.Duration) {
	if pausedFor <= 0 {
		return
	}
	c.anchor += pausedFor
	c.segStart += pausedFor
}

// BeatAt returns the instant of boundary k. Boundaries before the current
// tempo segment are extrapolated with the current interval.
func (c *BeatClock) BeatAt(k int) time.Duration {
	return c.segStart + time.Duration(k-c.segBeat)*c.interval
}

// FirstBeatAtOrAfter returns the index of the first boundary at or after t.
func (c *BeatClock) FirstBeatAtOrAfter(t time.Duration) int {
	if t <= c.segStart {
		return c.segBeat
	}
	dt := t - c.segStart
	n := int(dt / c.interval)
	if dt%c.interval != 0 {
		n++
	}
	return c.segBeat + n
}

// Phase returns the position of now inside the current beat, in [0, 1).
func (c *BeatClock) Phase(now time.Duration) float64 {
	if now < c.anchor {
		return 0
	}
	return float64(c.sinceBoundary(now)) / float64(c.interval)
}

// Bpm returns the current tempo.
func (c *BeatClock) Bpm() float64 { return c.bpm }

// Interval returns the current beat interval.
func (c *BeatClock) Interval() time.Duration { return c.interval }

// BeatIndex returns the most recent boundary reached by Tick.
func (c *BeatClock) BeatIndex() int { return c.beatIndex }

// Anchor returns the instant of beat zero.
func (c *BeatClock) Anchor() time.Duration { return c.anchor }

// LastBeatAt returns the instant of the most recent boundary reached by Tick.
func (c *BeatClock) LastBeatAt() time.Duration { return c.BeatAt(c.beatIndex) }

// NextBeatAt returns the instant of the upcoming boundary.
func (c *BeatClock) NextBeatAt() time.Duration { return c.BeatAt(c.beatIndex + 1) }

// sinceBoundary returns the time elapsed since the boundary at or before now,
// always in [0, interval).
func (c *BeatClock) sinceBoundary(now time.Duration) time.Duration {
	dt := (now - c.segStart) % c.interval
	if dt < 0 {
		dt += c.interval
	}
	return dt
}

func (c *BeatClock) setTempo(bpm float64) {
	c.bpm = clampBpm(bpm)
	c.interval = time.Duration(float64(time.Minute) / c.bpm)
}

func clampBpm(bpm float64) float64 {
	if bpm < MinBpm {
		return MinBpm
	}
	if bpm > MaxBpm {
		return MaxBpm
	}
	return bpm
}
