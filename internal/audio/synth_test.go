package audio

import (
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/tapbeat/internal/config"
	"github.com/vovakirdan/tapbeat/internal/rhythm"
)

func testConfig() config.AudioConfig {
	return config.AudioConfig{Enabled: true, SampleRate: 1000, BufferMs: 50, MasterVolume: 1}
}

func render(s beep.Streamer, n int) [][2]float64 {
	buf := make([][2]float64, n)
	s.Stream(buf)
	return buf
}

func silent(buf [][2]float64) bool {
	for _, s := range buf {
		if s[0] != 0 || s[1] != 0 {
			return false
		}
	}
	return true
}

func TestTimelineStartsVoicesOnTheirSample(t *testing.T) {
	synth := NewSynth(testConfig(), log.New(io.Discard))
	synth.ScheduleKick(0.25) // sample 250

	before := render(synth.Streamer(), 250)
	if !silent(before) {
		t.Error("output before the scheduled sample should be silent")
	}
	if got := synth.CurrentAudioTime(); got != 0.25 {
		t.Errorf("CurrentAudioTime() = %v, want 0.25", got)
	}

	after := render(synth.Streamer(), 50)
	if silent(after) {
		t.Error("kick should sound once its sample is reached")
	}
	if synth.timeline.Pending() != 0 {
		t.Errorf("pending voices = %d, want 0", synth.timeline.Pending())
	}
}

func TestTimelineSplitsBuffersAtStarts(t *testing.T) {
	tl := NewTimeline()
	tl.Schedule(30, newVoice(1000, WaveSquare, 100, time.Hour, 1, 1000))
	tl.Schedule(10, newVoice(1000, WaveSquare, 100, time.Hour, 0, 1000))

	buf := render(tl, 64)
	if !silent(buf[:30]) {
		t.Error("samples before 30 should be silent")
	}
	if silent(buf[31:]) {
		t.Error("samples after 30 should carry the voice")
	}
	if tl.Position() != 64 {
		t.Errorf("Position() = %d, want 64", tl.Position())
	}
}

func TestTimelineLateVoicesPlayImmediately(t *testing.T) {
	tl := NewTimeline()
	render(tl, 100)
	tl.Schedule(10, newVoice(1000, WaveSquare, 100, time.Hour, 1, 1000))

	buf := render(tl, 10)
	if silent(buf[1:]) {
		t.Error("late voice should start on the next buffer")
	}
}

func TestTimelineClear(t *testing.T) {
	tl := NewTimeline()
	tl.Schedule(5, newVoice(1000, WaveSquare, 100, time.Hour, 1, 1000))
	tl.Clear()
	if !silent(render(tl, 20)) {
		t.Error("cleared timeline should be silent")
	}
	if tl.Position() != 20 {
		t.Errorf("clock should keep running after Clear, at %d", tl.Position())
	}
}

func TestSynthResumeFailureReportsUnavailable(t *testing.T) {
	synth := NewSynth(testConfig(), log.New(io.Discard))
	synth.initSpeaker = func(beep.SampleRate, int) error { return errors.New("no device") }

	err := synth.Resume()
	if !errors.Is(err, rhythm.ErrAudioUnavailable) {
		t.Errorf("Resume() = %v, want ErrAudioUnavailable", err)
	}
}

func TestSynthResumeOpensSpeakerOnce(t *testing.T) {
	synth := NewSynth(testConfig(), log.New(io.Discard))
	inits, plays := 0, 0
	synth.initSpeaker = func(sr beep.SampleRate, n int) error {
		inits++
		if sr != 1000 || n != 50 {
			t.Errorf("speaker.Init(%d, %d), want (1000, 50)", sr, n)
		}
		return nil
	}
	synth.play = func(...beep.Streamer) { plays++ }

	for i := 0; i < 3; i++ {
		if err := synth.Resume(); err != nil {
			t.Fatalf("Resume() failed: %v", err)
		}
	}
	if inits != 1 || plays != 1 {
		t.Errorf("speaker opened %d times and played %d times, want 1 and 1", inits, plays)
	}
}

func TestSynthDrivesScheduler(t *testing.T) {
	synth := NewSynth(testConfig(), log.New(io.Discard))
	synth.initSpeaker = func(beep.SampleRate, int) error { return nil }
	synth.play = func(...beep.Streamer) {}

	beats := rhythm.NewBeatClock(120)
	beats.Start(0)
	sched := rhythm.NewLookaheadScheduler(beats, synth, rand.New(rand.NewSource(1)), 140*time.Millisecond, 8, log.New(io.Discard))
	if err := sched.Start(0); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if n := sched.Poll(rhythm.Mood{}); n != 1 {
		t.Fatalf("Poll committed %d beats, want 1", n)
	}
	if synth.timeline.Pending() == 0 {
		t.Error("scheduler should have queued voices on the timeline")
	}
}
