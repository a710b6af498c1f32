package rhythm

import (
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Mood is the run intensity the pattern reacts to.
type Mood struct {
	Stage  VibeStage
	Energy float64
}

// Pitches used by the pattern, in Hz.
var (
	bassRoots  = [4]float64{55.00, 43.65, 65.41, 49.00} // A1 F1 C2 G1
	chordRatio = [4]float64{1, 1.189, 1.498, 2}         // root, minor third, fifth, octave
	pentatonic = [5]float64{440.00, 523.25, 587.33, 659.25, 783.99}
)

// LookaheadScheduler commits sound triggers slightly ahead of the audio
// clock on its own timer, so rendering hitches never delay the music.
// Beat times come from the BeatClock, translated into the audio time base
// through an offset recorded on every start and resume.
type LookaheadScheduler struct {
	beats      *BeatClock
	sound      SoundEngine
	rng        *rand.Rand
	logger     *log.Logger
	lookahead  float64 // seconds
	maxPerPoll int

	running   bool
	disabled  bool
	offset    float64 // wall seconds minus audio seconds
	step      int     // Beat index of the next trigger
	lastSched float64 // Audio time of the last committed beat
}

// NewLookaheadScheduler creates a scheduler. A nil sound engine leaves it
// permanently disabled.
func NewLookaheadScheduler(beats *BeatClock, sound SoundEngine, rng *rand.Rand, lookahead time.Duration, maxPerPoll int, logger *log.Logger) *LookaheadScheduler {
	if maxPerPoll < 1 {
		maxPerPoll = 1
	}
	return &LookaheadScheduler{
		beats:      beats,
		sound:      sound,
		rng:        rng,
		logger:     logger,
		lookahead:  lookahead.Seconds(),
		maxPerPoll: maxPerPoll,
		disabled:   sound == nil,
	}
}

// Start begins scheduling a fresh run at wall time wallNow.
func (s *LookaheadScheduler) Start(wallNow time.Duration) error {
	s.step = 0
	return s.Resume(wallNow)
}

// Resume wakes the sound engine, records the wall-to-audio offset and aligns
// the next trigger with the beat clock's next boundary. Beats committed before
// the pause are never issued again. If the sound engine cannot be resumed the
// scheduler turns itself off.
func (s *LookaheadScheduler) Resume(wallNow time.Duration) error {
	if s.disabled {
		return ErrAudioUnavailable
	}
	if err := s.sound.Resume(); err != nil {
		s.disabled = true
		s.running = false
		s.logger.Warn("audio unavailable, music disabled", "err", err)
		return err
	}
	s.offset = wallNow.Seconds() - s.sound.CurrentAudioTime()
	s.step = max(s.step, s.beats.FirstBeatAtOrAfter(wallNow))
	s.lastSched = math.Inf(-1)
	s.running = true
	return nil
}

// Pause stops committing triggers until Resume.
func (s *LookaheadScheduler) Pause() {
	s.running = false
}

// Stop ends scheduling for the run.
func (s *LookaheadScheduler) Stop() {
	s.running = false
}

// Active reports whether the scheduler is committing triggers.
func (s *LookaheadScheduler) Active() bool {
	return s.running && !s.disabled
}

// Poll commits every beat whose audio time falls inside the look-ahead
// horizon, at most maxPerPoll of them. It returns the number of beats
// committed.
func (s *LookaheadScheduler) Poll(mood Mood) int {
	if !s.Active() {
		return 0
	}
	audioNow := s.sound.CurrentAudioTime()
	interval := s.beats.Interval().Seconds()

	// Fallen behind, e.g. after the audio device stalled: skip to the
	// first boundary still ahead instead of bursting a backlog.
	if s.audioTimeOf(s.step) < audioNow-interval {
		prev := s.step
		s.step = s.beats.FirstBeatAtOrAfter(s.wallTimeOf(audioNow))
		s.logger.Debug("scheduler resynced", "skipped", s.step-prev)
	}

	committed := 0
	for committed < s.maxPerPoll {
		t := s.audioTimeOf(s.step)
		if t <= s.lastSched {
			t = s.lastSched + interval
		}
		if t >= audioNow+s.lookahead {
			break
		}
		s.trigger(s.step, t, interval, mood)
		s.lastSched = t
		s.step++
		committed++
	}
	return committed
}

func (s *LookaheadScheduler) audioTimeOf(beat int) float64 {
	return s.beats.BeatAt(beat).Seconds() - s.offset
}

func (s *LookaheadScheduler) wallTimeOf(audio float64) time.Duration {
	return time.Duration((audio + s.offset) * float64(time.Second))
}

// trigger issues the layers for one beat. step 0 of every four is a bar start.
func (s *LookaheadScheduler) trigger(step int, t, interval float64, mood Mood) {
	pos := step % 4
	intensity := 0.4 + 0.6*math.Min(math.Max(mood.Energy, 0), 100)/100

	if pos == 0 || pos == 2 || mood.Stage >= Drop {
		s.sound.ScheduleKick(t)
	}
	s.sound.ScheduleHat(t+interval/2, 0.7+0.3*s.rng.Float64(), 0.12*intensity)

	if mood.Stage < Build {
		return
	}
	root := bassRoots[(step/4)%len(bassRoots)]
	if pos == 1 || pos == 3 {
		s.sound.ScheduleClap(t, 0.25*intensity)
	}
	s.sound.ScheduleBass(t, root, 0.35*intensity)
	if pos == 0 {
		notes := 3
		if mood.Stage >= Chorus {
			notes = 4
		}
		freqs := make([]float64, notes)
		for i := range freqs {
			freqs[i] = root * 4 * chordRatio[i]
		}
		s.sound.ScheduleChord(t, freqs)
	}

	if mood.Stage >= Chorus && s.rng.Float64() < 0.5+mood.Energy/200 {
		note := pentatonic[s.rng.Intn(len(pentatonic))]
		s.sound.ScheduleLead(t+interval/2, note, 0.2*intensity)
	}
}
