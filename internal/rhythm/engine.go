// Package rhythm implements the tap-to-the-beat engine: a beat clock, a
// look-ahead audio scheduler, target motion, tap judgement and the run
// progression state machine, owned together by one Engine per run.
package rhythm

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tapbeat/internal/clock"
	"github.com/vovakirdan/tapbeat/internal/config"
	"github.com/vovakirdan/tapbeat/internal/core"
)

// Haptic pulse lengths.
const (
	HitVibration  = 14 * time.Millisecond
	MissVibration = 25 * time.Millisecond
)

// Phase is the lifecycle position of a run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseEnded
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Deps are the collaborators an Engine talks to. Nil fields are replaced
// with no-op implementations.
type Deps struct {
	Clock       clock.Clock
	Sound       SoundEngine
	Haptics     Haptics
	Persistence Persistence
	Viewport    Viewport
	Logger      *log.Logger
	Seed        int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunRecorder delivers a RunRecord to r whenever a run ends.
func WithRunRecorder(r RunRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// defaultBounds is used when no viewport is supplied.
var defaultBounds = core.NewArea(0, 0, 100, 100)

// Snapshot is a read-only view of the engine for rendering.
type Snapshot struct {
	Phase     Phase
	RunID     string
	State     RunState
	Target    Target
	Window    Window
	Bpm       float64
	BeatIndex int
	BeatPhase float64 // Position inside the current beat, [0, 1)
	Last      *Judgement
	Unlocked  []Achievement // Unlocked during this run, newest last
	Music     bool          // Whether the scheduler is producing sound
}

// Engine owns one run at a time. It is not safe for concurrent use; the
// frame loop, the scheduler loop and input handling must be serialised by
// the caller.
type Engine struct {
	cfg      config.TapbeatConfig
	clock    clock.Clock
	sound    SoundEngine
	haptics  Haptics
	store    Persistence
	viewport Viewport
	logger   *log.Logger
	rng      *rand.Rand
	recorder RunRecorder

	beats    *BeatClock
	sched    *LookaheadScheduler
	motion   *TargetMotion
	judge    JudgementEngine
	progress *Progression
	window   Window

	phase     Phase
	runID     string
	lastFrame time.Duration
	pausedAt  time.Duration
	last      *Judgement
	unlocked  []Achievement

	lifetime     Stats // Persisted counters, excluding the current run
	achievements *Achievements
}

// New creates an engine. Lifetime stats and achievements are loaded from
// the persistence collaborator; malformed data starts from zero.
func New(cfg config.TapbeatConfig, deps Deps, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		clock:    deps.Clock,
		sound:    deps.Sound,
		haptics:  deps.Haptics,
		store:    deps.Persistence,
		viewport: deps.Viewport,
		logger:   deps.Logger,
		rng:      rand.New(rand.NewSource(deps.Seed)),
	}
	if e.clock == nil {
		e.clock = clock.NewSystem()
	}
	if e.sound == nil {
		e.sound = NopSound{}
	}
	if e.haptics == nil {
		e.haptics = NopHaptics{}
	}
	if e.store == nil {
		e.store = &MemoryPersistence{}
	}
	if e.viewport == nil {
		e.viewport = FixedViewport(defaultBounds)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.logger = e.logger.With("component", "engine")
	for _, opt := range opts {
		opt(e)
	}

	e.lifetime = LoadJSON(e.store, KeyStats, Stats{})
	e.achievements = NewAchievements(LoadJSON(e.store, KeyAchievements, map[string]bool{}))

	e.beats = NewBeatClock(cfg.Tempo.StartBPM)
	e.judge = NewJudgementEngine(e.beats)
	e.motion = NewTargetMotion(cfg.Motion, e.rng)
	e.motion.Resize(e.viewport.Bounds())
	e.progress = NewProgression(cfg)
	e.sched = NewLookaheadScheduler(e.beats, e.sound, e.rng, cfg.Scheduler.Lookahead(), cfg.Scheduler.MaxBeatsPerPoll, e.logger)
	e.window = e.progress.Window(1, e.beats.Interval())
	return e
}

// Start begins a new run, discarding any run in progress.
func (e *Engine) Start() {
	if e.phase == PhaseRunning || e.phase == PhasePaused {
		e.finish()
	}
	now := e.clock.Now()

	e.progress.Reset()
	e.beats.SetBpm(e.cfg.Tempo.StartBPM)
	e.beats.Start(now)
	e.motion.Reset()
	e.motion.Resize(e.viewport.Bounds())
	e.window = e.progress.Window(1, e.beats.Interval())

	e.runID = uuid.NewString()
	e.lastFrame = now
	e.last = nil
	e.unlocked = nil
	e.phase = PhaseRunning

	if err := e.sched.Start(now); err != nil {
		e.logger.Debug("scheduler inactive", "err", err)
	}
	e.logger.Info("run started", "run", e.runID, "bpm", e.beats.Bpm())
}

// Pause freezes the run. Beats, decay and taps stop until Resume.
func (e *Engine) Pause() {
	if e.phase != PhaseRunning {
		return
	}
	e.pausedAt = e.clock.Now()
	e.sched.Pause()
	e.phase = PhasePaused
}

// Resume continues a paused run. The beat clock is shifted by the pause
// length and the scheduler re-measures the audio clock.
func (e *Engine) Resume() {
	if e.phase != PhasePaused {
		return
	}
	now := e.clock.Now()
	e.beats.Reanchor(now - e.pausedAt)
	e.lastFrame = now
	e.phase = PhaseRunning
	if err := e.sched.Resume(now); err != nil {
		e.logger.Debug("scheduler inactive", "err", err)
	}
}

// End finishes the run early. It is a no-op when no run is in progress.
func (e *Engine) End() {
	if e.phase != PhaseRunning && e.phase != PhasePaused {
		return
	}
	e.finish()
}

// Frame runs one iteration of the frame loop: beats, motion and decay.
func (e *Engine) Frame() {
	if e.phase != PhaseRunning {
		return
	}
	now := e.clock.Now()
	dt := now - e.lastFrame
	if dt < 0 {
		dt = 0
	}
	e.lastFrame = now

	e.beats.Tick(now, e.onBeat)
	state := e.progress.State()
	e.motion.Step(dt, state.Energy)
	e.progress.Advance(dt)
	e.checkAchievements()
}

// SchedulerTick runs one iteration of the scheduler loop and returns the
// number of beats committed to the sound engine.
func (e *Engine) SchedulerTick() int {
	if e.phase != PhaseRunning {
		return 0
	}
	state := e.progress.State()
	return e.sched.Poll(Mood{Stage: state.Stage, Energy: state.Energy})
}

// Tap judges a tap at (x, y) in playfield units, timestamped now.
func (e *Engine) Tap(x, y float64) (Judgement, error) {
	return e.Judge(TapEvent{X: x, Y: y, At: e.clock.Now()})
}

// Judge judges a tap and applies the outcome to the run.
func (e *Engine) Judge(tap TapEvent) (Judgement, error) {
	switch e.phase {
	case PhaseEnded:
		return Judgement{}, ErrRunEnded
	case PhaseIdle, PhasePaused:
		return Judgement{}, ErrNotRunning
	}

	// Bring the beat index up to the tap so a tempo change starts its
	// segment at the right boundary.
	e.beats.Tick(tap.At, e.onBeat)

	j := e.judge.Judge(tap, e.motion.Target(), e.window)
	upd, err := e.progress.Apply(j.Outcome, e.beats.Bpm())
	if err != nil {
		return j, err
	}
	e.beats.SetBpm(upd.Bpm)
	state := e.progress.State()
	e.window = e.progress.Window(state.Level, e.beats.Interval())
	e.last = &j

	if j.Outcome.IsHit() {
		e.haptics.Vibrate(HitVibration)
	} else {
		e.haptics.Vibrate(MissVibration)
	}
	if upd.LevelUp {
		e.logger.Debug("level up", "level", state.Level, "window", e.window)
	}
	if upd.StageUp {
		e.logger.Debug("stage up", "stage", state.Stage)
	}

	e.checkAchievements()
	if upd.Ended {
		e.finish()
	}
	return j, nil
}

// Resize updates the playable bounds.
func (e *Engine) Resize(bounds core.Area) {
	e.motion.Resize(bounds)
}

// Snapshot returns the current state for rendering.
func (e *Engine) Snapshot() Snapshot {
	now := e.clock.Now()
	if e.phase == PhasePaused {
		now = e.pausedAt
	}
	s := Snapshot{
		Phase:     e.phase,
		RunID:     e.runID,
		State:     e.progress.State(),
		Target:    e.motion.Target(),
		Window:    e.window,
		Bpm:       e.beats.Bpm(),
		BeatIndex: e.beats.BeatIndex(),
		BeatPhase: e.beats.Phase(now),
		Unlocked:  append([]Achievement(nil), e.unlocked...),
		Music:     e.sched.Active(),
	}
	if e.last != nil {
		last := *e.last
		s.Last = &last
	}
	return s
}

// Stats returns lifetime stats including the run in progress.
func (e *Engine) Stats() Stats {
	if e.phase == PhaseRunning || e.phase == PhasePaused {
		return e.lifetime.Merge(e.progress.State())
	}
	return e.lifetime
}

// Achievements returns every achievement with its unlock state.
func (e *Engine) Achievements() []AchievementStatus {
	return e.achievements.List()
}

func (e *Engine) onBeat(beat int) {
	e.motion.OnBeat(beat, e.progress.State().Level)
}

func (e *Engine) checkAchievements() {
	fresh := e.achievements.Check(e.progress.State(), e.Stats())
	if len(fresh) == 0 {
		return
	}
	for _, a := range fresh {
		e.progress.AddCoins(e.cfg.Progression.AchievementReward)
		e.logger.Info("achievement unlocked", "id", a.ID)
	}
	e.unlocked = append(e.unlocked, fresh...)
	if err := SaveJSON(e.store, KeyAchievements, e.achievements.Unlocked()); err != nil {
		e.logger.Warn("failed to save achievements", "err", err)
	}
}

// finish ends the run and persists its results.
func (e *Engine) finish() {
	state := e.progress.State()
	e.sched.Stop()
	e.phase = PhaseEnded

	e.lifetime = e.lifetime.Merge(state)
	if err := SaveJSON(e.store, KeyStats, e.lifetime); err != nil {
		e.logger.Warn("failed to save stats", "err", err)
	}

	rec := RunRecord{
		ID:       e.runID,
		Score:    state.Score,
		MaxCombo: state.MaxCombo,
		Level:    state.Level,
		Coins:    state.Coins,
		Duration: state.Elapsed,
	}
	if e.recorder != nil {
		if err := e.recorder.RecordRun(rec); err != nil {
			e.logger.Warn("failed to record run", "run", rec.ID, "err", err)
		}
	}
	e.logger.Info("run ended", "run", rec.ID, "score", rec.Score, "maxCombo", rec.MaxCombo, "duration", rec.Duration)
}
