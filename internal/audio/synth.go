// Package audio renders the rhythm engine's sound triggers with beep.
// Triggers are placed on a sample-counting Timeline so they start on the
// scheduled sample no matter when the speaker pulls the next buffer.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tapbeat/internal/config"
	"github.com/vovakirdan/tapbeat/internal/rhythm"
)

// Synth implements rhythm.SoundEngine on top of the beep speaker.
type Synth struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	buffer      time.Duration
	timeline    *Timeline
	master      *effects.Volume
	initialized bool
	logger      *log.Logger

	initSpeaker func(beep.SampleRate, int) error
	play        func(...beep.Streamer)
}

// NewSynth creates a synth. The speaker is opened on the first Resume.
func NewSynth(cfg config.AudioConfig, logger *log.Logger) *Synth {
	rate := beep.SampleRate(cfg.SampleRate)
	if rate <= 0 {
		rate = 44100
	}
	tl := NewTimeline()
	return &Synth{
		rate:        rate,
		buffer:      time.Duration(cfg.BufferMs) * time.Millisecond,
		timeline:    tl,
		master:      newVolume(tl, cfg.MasterVolume),
		logger:      logger.With("component", "audio"),
		initSpeaker: speaker.Init,
		play:        speaker.Play,
	}
}

// Resume opens the speaker if needed. Failure means no audio device.
func (s *Synth) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := s.initSpeaker(s.rate, s.rate.N(s.buffer)); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w: %w", rhythm.ErrAudioUnavailable, err)
	}
	s.play(s.master)
	s.initialized = true
	s.logger.Debug("speaker ready", "rate", int(s.rate), "buffer", s.buffer)
	return nil
}

// Close silences everything scheduled. beep has no speaker close, so the
// timeline keeps streaming silence.
func (s *Synth) Close() {
	s.timeline.Clear()
}

// CurrentAudioTime returns the audio clock in seconds.
func (s *Synth) CurrentAudioTime() float64 {
	return float64(s.timeline.Position()) / float64(s.rate)
}

// Streamer returns the master output, for rendering without a speaker.
func (s *Synth) Streamer() beep.Streamer {
	return s.master
}

func (s *Synth) at(t float64) int {
	return int(t*float64(s.rate) + 0.5)
}

func (s *Synth) ScheduleKick(t float64) {
	s.timeline.Schedule(s.at(t), kick(s.rate))
}

func (s *Synth) ScheduleHat(t, tone, amp float64) {
	s.timeline.Schedule(s.at(t), hat(s.rate, tone, amp))
}

func (s *Synth) ScheduleClap(t, amp float64) {
	s.timeline.Schedule(s.at(t), clap(s.rate, amp))
}

func (s *Synth) ScheduleBass(t, freq, amp float64) {
	s.timeline.Schedule(s.at(t), bass(s.rate, freq, amp))
}

func (s *Synth) ScheduleLead(t, freq, amp float64) {
	s.timeline.Schedule(s.at(t), lead(s.rate, freq, amp))
}

func (s *Synth) ScheduleChord(t float64, freqs []float64) {
	s.timeline.Schedule(s.at(t), chord(s.rate, freqs))
}

var _ rhythm.SoundEngine = (*Synth)(nil)
