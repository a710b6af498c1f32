// Package config provides YAML-based tuning for the rhythm engine and its
// collaborators, plus difficulty presets.
package config

import "time"

// TapbeatConfig contains all tunable parameters for a TapBeat run.
type TapbeatConfig struct {
	Tempo       TempoConfig       `yaml:"tempo"`
	Judgement   JudgementConfig   `yaml:"judgement"`
	Motion      MotionConfig      `yaml:"motion"`
	Progression ProgressionConfig `yaml:"progression"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Audio       AudioConfig       `yaml:"audio"`
}

// TempoConfig defines the starting tempo and the difficulty ramp.
type TempoConfig struct {
	StartBPM      float64 `yaml:"start_bpm"`
	TimeBoost     float64 `yaml:"time_boost"`      // BPM added once ramp_seconds have elapsed
	RampSeconds   float64 `yaml:"ramp_seconds"`    // Seconds until the full time boost applies
	StageBoost    float64 `yaml:"stage_boost"`     // BPM added per vibe stage above Verse
	ComboBoost    float64 `yaml:"combo_boost"`     // BPM added per combo hit
	ComboBoostCap float64 `yaml:"combo_boost_cap"` // Upper bound of the combo contribution
	MaxBPM        float64 `yaml:"max_bpm"`         // Ramp ceiling
}

// JudgementConfig defines timing windows in milliseconds.
type JudgementConfig struct {
	PerfectMs       int `yaml:"perfect_ms"`
	GreatMs         int `yaml:"great_ms"`
	OkMs            int `yaml:"ok_ms"`
	PerfectShrinkMs int `yaml:"perfect_shrink_ms"` // Per level above 1
	GreatShrinkMs   int `yaml:"great_shrink_ms"`
	OkShrinkMs      int `yaml:"ok_shrink_ms"`
	PerfectFloorMs  int `yaml:"perfect_floor_ms"`
	GreatFloorMs    int `yaml:"great_floor_ms"`
	OkFloorMs       int `yaml:"ok_floor_ms"`
}

// MotionConfig defines target size and movement.
type MotionConfig struct {
	RadiusFraction       float64 `yaml:"radius_fraction"` // Of the shorter playfield side
	MinRadius            float64 `yaml:"min_radius"`
	MoveEveryBeats       int     `yaml:"move_every_beats"`
	LevelsPerCadenceStep int     `yaml:"levels_per_cadence_step"`
	SmoothingBase        float64 `yaml:"smoothing_base"`        // k at zero energy, per second
	SmoothingEnergyGain  float64 `yaml:"smoothing_energy_gain"` // Added to k at full energy
	InsetX               float64 `yaml:"inset_x"`
	InsetTop             float64 `yaml:"inset_top"`
	InsetBottom          float64 `yaml:"inset_bottom"`
	WarmupBeats          int     `yaml:"warmup_beats"` // Beats of centre-biased targets at level 1
}

// ProgressionConfig defines scoring, energy, lives and level thresholds.
type ProgressionConfig struct {
	Lives                 int        `yaml:"lives"`
	BaseReward            [3]int     `yaml:"base_reward"` // Perfect, Great, Ok
	CoinReward            [3]int     `yaml:"coin_reward"`
	EnergyGain            [3]float64 `yaml:"energy_gain"`
	ComboMultiplierStep   float64    `yaml:"combo_multiplier_step"`
	ComboMultiplierCap    int        `yaml:"combo_multiplier_cap"`
	MissStreakPenalty     int        `yaml:"miss_streak_penalty"`
	MissEnergyLoss        float64    `yaml:"miss_energy_loss"`
	EnergyDecayPerSecond  float64    `yaml:"energy_decay_per_second"`
	LevelScoreStep        int        `yaml:"level_score_step"`
	LevelComboStep        int        `yaml:"level_combo_step"`
	MaxLevel              int        `yaml:"max_level"`
	StageEnergyThresholds [3]float64 `yaml:"stage_energy_thresholds"` // Build, Chorus, Drop
	StageComboThresholds  [3]int     `yaml:"stage_combo_thresholds"`
	AchievementReward     int        `yaml:"achievement_reward"`
}

// SchedulerConfig defines the look-ahead audio scheduler timing.
type SchedulerConfig struct {
	PeriodMs        int `yaml:"period_ms"`
	LookaheadMs     int `yaml:"lookahead_ms"`
	MaxBeatsPerPoll int `yaml:"max_beats_per_poll"`
}

// AudioConfig defines the synth backend.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	SampleRate   int     `yaml:"sample_rate"`
	BufferMs     int     `yaml:"buffer_ms"`
	MasterVolume float64 `yaml:"master_volume"`
}

// Period returns the scheduler period as a duration.
func (s SchedulerConfig) Period() time.Duration {
	return time.Duration(s.PeriodMs) * time.Millisecond
}

// Lookahead returns the scheduler horizon as a duration.
func (s SchedulerConfig) Lookahead() time.Duration {
	return time.Duration(s.LookaheadMs) * time.Millisecond
}
