package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

// voice is a one-shot oscillator with an optional pitch sweep and an
// exponential decay envelope.
type voice struct {
	rate     beep.SampleRate
	wave     WaveType
	freq     float64 // Start frequency
	sweepTo  float64 // End frequency, 0 for none
	amp      float64
	decay    float64 // Envelope time constant in seconds
	attack   int     // Samples
	duration int     // Samples
	position int
	phase    float64
	noise    *rand.Rand
}

func newVoice(rate beep.SampleRate, wave WaveType, freq float64, duration time.Duration, amp, decay float64) *voice {
	v := &voice{
		rate:     rate,
		wave:     wave,
		freq:     freq,
		amp:      amp,
		decay:    decay,
		attack:   rate.N(2 * time.Millisecond),
		duration: rate.N(duration),
	}
	if wave == WaveNoise {
		v.noise = rand.New(rand.NewSource(int64(freq*1000) + int64(duration)))
	}
	return v
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if v.position >= v.duration {
			return i, i > 0
		}
		t := float64(v.position) / float64(v.rate)
		progress := float64(v.position) / float64(v.duration)

		freq := v.freq
		if v.sweepTo > 0 {
			freq = v.freq * math.Pow(v.sweepTo/v.freq, progress)
		}

		var val float64
		switch v.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * v.phase)
		case WaveSquare:
			if v.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveTriangle:
			val = 4*math.Abs(v.phase-0.5) - 1
		case WaveNoise:
			val = v.noise.Float64()*2 - 1
		}

		env := math.Exp(-t / v.decay)
		if v.position < v.attack {
			env *= float64(v.position) / float64(v.attack)
		}
		val *= v.amp * env

		samples[i][0] = val
		samples[i][1] = val

		v.phase += freq / float64(v.rate)
		v.phase -= math.Floor(v.phase)
		v.position++
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

// newVolume wraps s in a linear volume control. Zero or less is silent.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func kick(rate beep.SampleRate) beep.Streamer {
	v := newVoice(rate, WaveSine, 150, 180*time.Millisecond, 0.9, 0.06)
	v.sweepTo = 45
	return v
}

func hat(rate beep.SampleRate, tone, amp float64) beep.Streamer {
	// Brighter tones ring shorter.
	decay := 0.012 + 0.02*(1-clamp01(tone))
	return newVoice(rate, WaveNoise, 8000*tone, 60*time.Millisecond, amp, decay)
}

func clap(rate beep.SampleRate, amp float64) beep.Streamer {
	return newVoice(rate, WaveNoise, 1500, 120*time.Millisecond, amp, 0.03)
}

func bass(rate beep.SampleRate, freq, amp float64) beep.Streamer {
	return newVoice(rate, WaveTriangle, freq, 320*time.Millisecond, amp, 0.18)
}

func lead(rate beep.SampleRate, freq, amp float64) beep.Streamer {
	return newVoice(rate, WaveSquare, freq, 200*time.Millisecond, amp*0.5, 0.08)
}

func chord(rate beep.SampleRate, freqs []float64) beep.Streamer {
	if len(freqs) == 0 {
		return newVoice(rate, WaveSine, 1, 0, 0, 1)
	}
	notes := make([]beep.Streamer, len(freqs))
	amp := 0.25 / float64(len(freqs))
	for i, f := range freqs {
		notes[i] = newVoice(rate, WaveSine, f, 700*time.Millisecond, amp, 0.35)
	}
	return beep.Mix(notes...)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
