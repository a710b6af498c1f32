package rhythm

import (
	"math"
	"time"

	"github.com/vovakirdan/tapbeat/internal/config"
	"github.com/vovakirdan/tapbeat/internal/core"
)

// VibeStage is the coarse intensity tier of a run.
type VibeStage int

const (
	Verse VibeStage = iota
	Build
	Chorus
	Drop
)

// String returns the stage name.
func (s VibeStage) String() string {
	switch s {
	case Verse:
		return "Verse"
	case Build:
		return "Build"
	case Chorus:
		return "Chorus"
	case Drop:
		return "Drop"
	default:
		return "?"
	}
}

// MaxLives is the upper bound on lives.
const MaxLives = 3

// RunState is the mutable state of one run.
type RunState struct {
	Score    int
	Combo    int
	Streak   int
	Energy   float64 // [0, 100]
	Lives    int     // [0, MaxLives]
	Level    int     // >= 1
	Stage    VibeStage
	Coins    int
	MaxCombo int
	Elapsed  time.Duration

	Perfects int
	Greats   int
	Oks      int
	Misses   int

	Ended bool
}

// Update describes the effect of one Apply call.
type Update struct {
	Bpm         float64 // Tempo the beat clock should adopt
	ScoreGained int
	LevelUp     bool
	StageUp     bool
	Ended       bool
}

// Progression is the run state machine fed by judgement outcomes.
type Progression struct {
	tempo     config.TempoConfig
	judgement config.JudgementConfig
	cfg       config.ProgressionConfig
	state     RunState
}

// NewProgression creates a controller with a fresh run state.
func NewProgression(cfg config.TapbeatConfig) *Progression {
	p := &Progression{
		tempo:     cfg.Tempo,
		judgement: cfg.Judgement,
		cfg:       cfg.Progression,
	}
	p.Reset()
	return p
}

// Reset starts a new run.
func (p *Progression) Reset() {
	lives := p.cfg.Lives
	if lives < 1 || lives > MaxLives {
		lives = MaxLives
	}
	p.state = RunState{Lives: lives, Level: 1, Stage: Verse}
}

// State returns a copy of the run state.
func (p *Progression) State() RunState {
	return p.state
}

// Apply feeds one outcome into the run. currentBpm is the beat clock's
// tempo; the returned Update carries the tempo to apply next.
func (p *Progression) Apply(o Outcome, currentBpm float64) (Update, error) {
	if p.state.Ended {
		return Update{Bpm: currentBpm, Ended: true}, ErrRunEnded
	}
	if o.IsHit() {
		return p.applyHit(o, currentBpm), nil
	}
	return p.applyMiss(), nil
}

func (p *Progression) applyHit(o Outcome, currentBpm float64) Update {
	s := &p.state
	s.Combo++
	s.Streak++
	if s.Combo > s.MaxCombo {
		s.MaxCombo = s.Combo
	}
	switch o {
	case Perfect:
		s.Perfects++
	case Great:
		s.Greats++
	case Ok:
		s.Oks++
	}

	idx := int(o)
	gained := int(math.Round(float64(p.cfg.BaseReward[idx]) * p.comboMultiplier(s.Combo)))
	s.Score = max(0, s.Score+gained)
	s.Energy = core.ClampF(s.Energy+p.cfg.EnergyGain[idx], 0, 100)
	s.Coins = max(0, s.Coins+p.cfg.CoinReward[idx])

	upd := Update{ScoreGained: gained}

	if lvl := p.levelFor(s.Score, s.Combo); lvl > s.Level {
		s.Level = lvl
		upd.LevelUp = true
	}
	if st := p.stageFor(s.Energy, s.Combo); st > s.Stage {
		s.Stage = st
		upd.StageUp = true
	}

	upd.Bpm = math.Max(currentBpm, p.Ramp(s.Elapsed, s.Combo, s.Stage))
	return upd
}

func (p *Progression) applyMiss() Update {
	s := &p.state
	s.Combo = 0
	s.Streak = max(0, s.Streak-p.cfg.MissStreakPenalty)
	s.Energy = core.ClampF(s.Energy-p.cfg.MissEnergyLoss, 0, 100)
	s.Misses++
	if s.Lives > 0 {
		s.Lives--
	}
	upd := Update{Bpm: p.Ramp(s.Elapsed, 0, s.Stage)}
	if s.Lives <= 0 {
		s.Ended = true
		upd.Ended = true
	}
	return upd
}

// Advance accounts for dt of play time: elapsed time grows and energy
// decays toward zero.
func (p *Progression) Advance(dt time.Duration) {
	if dt <= 0 || p.state.Ended {
		return
	}
	p.state.Elapsed += dt
	p.state.Energy = core.ClampF(p.state.Energy-p.cfg.EnergyDecayPerSecond*dt.Seconds(), 0, 100)
}

// AddCoins credits a bonus such as an achievement reward.
func (p *Progression) AddCoins(n int) {
	if n > 0 {
		p.state.Coins += n
	}
}

// Ramp returns the target tempo for the given run position, capped at the
// configured maximum.
func (p *Progression) Ramp(elapsed time.Duration, combo int, stage VibeStage) float64 {
	t := p.tempo
	progress := 1.0
	if t.RampSeconds > 0 {
		progress = math.Min(1, elapsed.Seconds()/t.RampSeconds)
	}
	bpm := t.StartBPM +
		t.TimeBoost*progress +
		float64(stage)*t.StageBoost +
		math.Min(float64(combo)*t.ComboBoost, t.ComboBoostCap)
	return math.Min(bpm, t.MaxBPM)
}

// Window derives the judgement window for level at the given beat interval.
// Windows shrink per level down to their floors; Ok never exceeds half a
// beat, and Perfect < Great < Ok always holds.
func (p *Progression) Window(level int, interval time.Duration) Window {
	j := p.judgement
	steps := max(0, level-1)
	w := Window{
		Perfect: ms(max(j.PerfectMs-steps*j.PerfectShrinkMs, j.PerfectFloorMs)),
		Great:   ms(max(j.GreatMs-steps*j.GreatShrinkMs, j.GreatFloorMs)),
		Ok:      ms(max(j.OkMs-steps*j.OkShrinkMs, j.OkFloorMs)),
	}
	if half := interval / 2; half > 0 && w.Ok > half {
		w.Ok = half
	}
	if w.Ok < 3*time.Millisecond {
		w.Ok = 3 * time.Millisecond
	}
	if w.Great >= w.Ok {
		w.Great = w.Ok * 3 / 4
	}
	if w.Perfect >= w.Great {
		w.Perfect = w.Great / 2
	}
	return w
}

func (p *Progression) comboMultiplier(combo int) float64 {
	return 1 + float64(min(combo, p.cfg.ComboMultiplierCap))*p.cfg.ComboMultiplierStep
}

func (p *Progression) levelFor(score, combo int) int {
	lvl := 1
	if p.cfg.LevelScoreStep > 0 {
		lvl += score / p.cfg.LevelScoreStep
	}
	if p.cfg.LevelComboStep > 0 {
		lvl += combo / p.cfg.LevelComboStep
	}
	if p.cfg.MaxLevel > 0 && lvl > p.cfg.MaxLevel {
		lvl = p.cfg.MaxLevel
	}
	return lvl
}

func (p *Progression) stageFor(energy float64, combo int) VibeStage {
	stage := Verse
	for i := range p.cfg.StageEnergyThresholds {
		if energy >= p.cfg.StageEnergyThresholds[i] || combo >= p.cfg.StageComboThresholds[i] {
			stage = VibeStage(i + 1)
		}
	}
	return stage
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
