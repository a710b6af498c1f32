package rhythm

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// fakeSound records triggers against a hand-driven audio clock.
type fakeSound struct {
	now       float64
	resumeErr error
	resumes   int

	kicks  []float64
	hats   []float64
	claps  []float64
	bass   []float64
	leads  []float64
	chords [][]float64

	late int // Triggers scheduled before the audio clock
}

func (f *fakeSound) check(t float64) {
	if t < f.now {
		f.late++
	}
}

func (f *fakeSound) ScheduleKick(t float64)       { f.check(t); f.kicks = append(f.kicks, t) }
func (f *fakeSound) ScheduleHat(t, _, _ float64)  { f.check(t); f.hats = append(f.hats, t) }
func (f *fakeSound) ScheduleClap(t, _ float64)    { f.check(t); f.claps = append(f.claps, t) }
func (f *fakeSound) ScheduleBass(t, _, _ float64) { f.check(t); f.bass = append(f.bass, t) }
func (f *fakeSound) ScheduleLead(t, _, _ float64) { f.check(t); f.leads = append(f.leads, t) }
func (f *fakeSound) ScheduleChord(t float64, fr []float64) {
	f.check(t)
	f.chords = append(f.chords, append([]float64(nil), fr...))
}
func (f *fakeSound) CurrentAudioTime() float64 { return f.now }
func (f *fakeSound) Resume() error {
	f.resumes++
	return f.resumeErr
}

func newScheduler(beats *BeatClock, sound SoundEngine, lookahead time.Duration, maxPerPoll int) *LookaheadScheduler {
	return NewLookaheadScheduler(beats, sound, rand.New(rand.NewSource(1)), lookahead, maxPerPoll, log.New(io.Discard))
}

func approxEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestSchedulerCommitsAheadOfAudioClock(t *testing.T) {
	beats := NewBeatClock(60)
	beats.Start(0)
	sound := &fakeSound{now: 0.5}
	s := newScheduler(beats, sound, 140*time.Millisecond, 8)

	if err := s.Start(0); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if n := s.Poll(Mood{}); n != 1 {
		t.Fatalf("first Poll committed %d beats, want 1", n)
	}
	if n := s.Poll(Mood{}); n != 0 {
		t.Errorf("repeated Poll committed %d beats, want 0", n)
	}

	sound.now = 1.2
	if n := s.Poll(Mood{}); n != 0 {
		t.Errorf("Poll outside horizon committed %d beats, want 0", n)
	}
	sound.now = 1.4
	if n := s.Poll(Mood{}); n != 1 {
		t.Errorf("Poll inside horizon committed %d beats, want 1", n)
	}

	if !approxEqual(sound.kicks, []float64{0.5}) {
		t.Errorf("kicks = %v, want [0.5]", sound.kicks)
	}
	if !approxEqual(sound.hats, []float64{1.0, 2.0}) {
		t.Errorf("hats = %v, want [1 2]", sound.hats)
	}
	if sound.late != 0 {
		t.Errorf("%d triggers scheduled in the past", sound.late)
	}
}

func TestSchedulerDisabledWithoutAudio(t *testing.T) {
	beats := NewBeatClock(60)
	beats.Start(0)

	failing := &fakeSound{resumeErr: errors.New("no device")}
	s := newScheduler(beats, failing, 140*time.Millisecond, 8)
	if err := s.Start(0); err == nil {
		t.Error("Start() should report the audio failure")
	}
	if s.Active() || s.Poll(Mood{}) != 0 {
		t.Error("scheduler should be a no-op when audio fails")
	}
	if err := s.Resume(time.Second); !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("Resume() after failure = %v, want ErrAudioUnavailable", err)
	}
	if failing.resumes != 1 {
		t.Errorf("sound resumed %d times, want 1", failing.resumes)
	}

	none := newScheduler(beats, nil, 140*time.Millisecond, 8)
	if err := none.Start(0); !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("Start() with nil sound = %v, want ErrAudioUnavailable", err)
	}

	nop := newScheduler(beats, NopSound{}, 140*time.Millisecond, 8)
	if err := nop.Start(0); !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("Start() with NopSound = %v, want ErrAudioUnavailable", err)
	}
}

func TestSchedulerResyncsInsteadOfBursting(t *testing.T) {
	beats := NewBeatClock(60)
	beats.Start(0)
	sound := &fakeSound{now: 0.5}
	s := newScheduler(beats, sound, 140*time.Millisecond, 8)
	s.Start(0)
	s.Poll(Mood{})

	// Audio device stalls, then jumps ahead by many beats.
	sound.now = 10.0
	if n := s.Poll(Mood{}); n != 0 {
		t.Errorf("Poll after stall committed %d beats, want 0", n)
	}
	sound.now = 10.4
	if n := s.Poll(Mood{}); n != 1 {
		t.Fatalf("Poll after resync committed %d beats, want 1", n)
	}
	last := sound.hats[len(sound.hats)-1]
	if math.Abs(last-11.0) > 1e-9 {
		t.Errorf("resynced hat at %v, want 11.0", last)
	}
	if len(sound.hats) != 2 {
		t.Errorf("hats = %v, want exactly two", sound.hats)
	}
}

func TestSchedulerLimitsBeatsPerPoll(t *testing.T) {
	beats := NewBeatClock(120)
	beats.Start(0)
	sound := &fakeSound{}
	s := newScheduler(beats, sound, 10*time.Second, 3)
	s.Start(0)

	if n := s.Poll(Mood{}); n != 3 {
		t.Errorf("Poll committed %d beats, want 3", n)
	}
	if n := s.Poll(Mood{}); n != 3 {
		t.Errorf("second Poll committed %d beats, want 3", n)
	}
	if !approxEqual(sound.kicks, []float64{0, 1, 2}) {
		t.Errorf("kicks = %v, want [0 1 2]", sound.kicks)
	}
}

func TestSchedulerResumeRecomputesOffset(t *testing.T) {
	beats := NewBeatClock(60)
	beats.Start(0)
	sound := &fakeSound{now: 0.5}
	s := newScheduler(beats, sound, 140*time.Millisecond, 8)
	s.Start(0)
	s.Poll(Mood{})

	// Paused at wall 0.2s; the audio clock stays suspended while 5s pass.
	sound.now = 0.7
	s.Pause()
	if n := s.Poll(Mood{}); n != 0 {
		t.Errorf("paused Poll committed %d beats", n)
	}
	beats.Reanchor(5 * time.Second)
	if err := s.Resume(5200 * time.Millisecond); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}

	if n := s.Poll(Mood{}); n != 0 {
		t.Errorf("Poll right after resume committed %d beats, want 0", n)
	}
	sound.now = 1.4
	if n := s.Poll(Mood{}); n != 1 {
		t.Fatalf("Poll committed %d beats, want 1", n)
	}
	if !approxEqual(sound.hats, []float64{1.0, 2.0}) {
		t.Errorf("hats = %v, want [1 2]", sound.hats)
	}
}

func TestSchedulerShortPauseDoesNotRepeatCommittedBeat(t *testing.T) {
	tests := []struct {
		name  string
		pause time.Duration
	}{
		{"20ms", 20 * time.Millisecond},
		{"50ms", 50 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beats := NewBeatClock(60)
			beats.Start(0)
			sound := &fakeSound{now: 0.9}
			s := newScheduler(beats, sound, 140*time.Millisecond, 8)
			s.Start(900 * time.Millisecond)

			// Beat 1 sits inside the horizon and is committed before the pause.
			if n := s.Poll(Mood{}); n != 1 {
				t.Fatalf("first Poll committed %d beats, want 1", n)
			}

			s.Pause()
			beats.Reanchor(tt.pause)
			if err := s.Resume(900*time.Millisecond + tt.pause); err != nil {
				t.Fatalf("Resume() failed: %v", err)
			}
			if n := s.Poll(Mood{}); n != 0 {
				t.Errorf("Poll after resume committed %d beats, want 0", n)
			}
			if !approxEqual(sound.hats, []float64{1.5}) {
				t.Errorf("hats = %v, want [1.5]", sound.hats)
			}
		})
	}
}

func TestSchedulerStartResetsStep(t *testing.T) {
	beats := NewBeatClock(60)
	beats.Start(0)
	sound := &fakeSound{now: 0}
	s := newScheduler(beats, sound, 140*time.Millisecond, 8)
	s.Start(0)
	for _, now := range []float64{0, 0.9, 1.9, 2.9} {
		sound.now = now
		s.Poll(Mood{})
	}

	// A new run restarts the beat clock at a later wall time.
	beats.Start(10 * time.Second)
	sound.now = 10
	s.Start(10 * time.Second)
	if n := s.Poll(Mood{}); n != 1 {
		t.Fatalf("Poll after restart committed %d beats, want 1", n)
	}
	if got := sound.kicks[len(sound.kicks)-1]; math.Abs(got-10) > 1e-9 {
		t.Errorf("first kick of new run at %v, want 10", got)
	}
}

func TestSchedulerFollowsTempoChanges(t *testing.T) {
	beats := NewBeatClock(60)
	beats.Start(0)
	sound := &fakeSound{}
	s := newScheduler(beats, sound, 140*time.Millisecond, 8)
	s.Start(0)
	s.Poll(Mood{})

	beats.Tick(time.Second, nil)
	beats.SetBpm(120)

	sound.now = 0.9
	s.Poll(Mood{})
	sound.now = 1.4
	s.Poll(Mood{})

	if !approxEqual(sound.kicks, []float64{0, 1.5}) {
		t.Errorf("kicks = %v, want [0 1.5]", sound.kicks)
	}
}

func TestSchedulerPatternByStage(t *testing.T) {
	tests := []struct {
		name       string
		mood       Mood
		kicks      int
		claps      int
		bass       int
		chordNotes int
		leads      int
	}{
		{"verse", Mood{Stage: Verse, Energy: 10}, 2, 0, 0, 0, 0},
		{"build", Mood{Stage: Build, Energy: 30}, 2, 2, 4, 3, 0},
		{"chorus", Mood{Stage: Chorus, Energy: 100}, 2, 2, 4, 4, 4},
		{"drop", Mood{Stage: Drop, Energy: 100}, 4, 2, 4, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beats := NewBeatClock(60)
			beats.Start(0)
			sound := &fakeSound{}
			s := newScheduler(beats, sound, 3900*time.Millisecond, 8)
			s.Start(0)

			if n := s.Poll(tt.mood); n != 4 {
				t.Fatalf("Poll committed %d beats, want one bar", n)
			}
			if len(sound.hats) != 4 {
				t.Errorf("hats = %d, want 4", len(sound.hats))
			}
			if len(sound.kicks) != tt.kicks {
				t.Errorf("kicks = %d, want %d", len(sound.kicks), tt.kicks)
			}
			if len(sound.claps) != tt.claps {
				t.Errorf("claps = %d, want %d", len(sound.claps), tt.claps)
			}
			if len(sound.bass) != tt.bass {
				t.Errorf("bass = %d, want %d", len(sound.bass), tt.bass)
			}
			if tt.chordNotes == 0 {
				if len(sound.chords) != 0 {
					t.Errorf("chords = %v, want none", sound.chords)
				}
			} else if len(sound.chords) != 1 || len(sound.chords[0]) != tt.chordNotes {
				t.Errorf("chords = %v, want one with %d notes", sound.chords, tt.chordNotes)
			}
			if len(sound.leads) != tt.leads {
				t.Errorf("leads = %d, want %d", len(sound.leads), tt.leads)
			}
		})
	}
}
