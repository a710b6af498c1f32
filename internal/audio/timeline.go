package audio

import (
	"sort"
	"sync"

	"github.com/gopxl/beep"
)

// pendingVoice is a streamer waiting for its start sample.
type pendingVoice struct {
	start    int
	streamer beep.Streamer
}

// Timeline is a beep.Streamer that counts rendered samples and starts
// scheduled voices on the exact sample they were scheduled for. The sample
// count is the audio clock.
type Timeline struct {
	mu      sync.Mutex
	pos     int
	pending []pendingVoice // Sorted by start
	mixer   *beep.Mixer
}

// NewTimeline creates an empty timeline at sample zero.
func NewTimeline() *Timeline {
	return &Timeline{mixer: &beep.Mixer{}}
}

// Position returns the number of samples rendered so far.
func (t *Timeline) Position() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

// Schedule starts s at sample start. Starts in the past play immediately.
func (t *Timeline) Schedule(start int, s beep.Streamer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := sort.Search(len(t.pending), func(i int) bool { return t.pending[i].start > start })
	t.pending = append(t.pending, pendingVoice{})
	copy(t.pending[i+1:], t.pending[i:])
	t.pending[i] = pendingVoice{start: start, streamer: s}
}

// Pending returns the number of voices not yet started.
func (t *Timeline) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Clear drops every pending and playing voice. The clock keeps running.
func (t *Timeline) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
	t.mixer.Clear()
}

// Stream renders the next samples. It never drains.
func (t *Timeline) Stream(samples [][2]float64) (n int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	filled := 0
	for filled < len(samples) {
		chunk := len(samples) - filled
		if len(t.pending) > 0 {
			next := t.pending[0].start - t.pos
			if next <= 0 {
				t.mixer.Add(t.pending[0].streamer)
				t.pending = t.pending[1:]
				continue
			}
			if next < chunk {
				chunk = next
			}
		}
		t.mixer.Stream(samples[filled : filled+chunk])
		t.pos += chunk
		filled += chunk
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (t *Timeline) Err() error { return nil }
