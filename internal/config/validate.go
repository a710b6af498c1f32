package config

import (
	"fmt"
	"math"
)

// Tempo bounds enforced by the beat clock.
const (
	MinBPM = 40.0
	MaxBPM = 220.0
)

// Validate clamps out-of-range values in place and returns a description of
// every adjustment. It never fails: a bad value is a tuning mistake, not a
// reason to refuse to play.
func (c *TapbeatConfig) Validate() []string {
	var notes []string
	fix := func(field string, from, to any) {
		notes = append(notes, fmt.Sprintf("%s: %v adjusted to %v", field, from, to))
	}

	clampFloat := func(field string, v *float64, lo, hi float64) {
		if math.IsNaN(*v) || *v < lo || *v > hi {
			old := *v
			if math.IsNaN(*v) || *v < lo {
				*v = lo
			} else {
				*v = hi
			}
			fix(field, old, *v)
		}
	}
	atLeast := func(field string, v *int, lo int) {
		if *v < lo {
			fix(field, *v, lo)
			*v = lo
		}
	}

	clampFloat("tempo.start_bpm", &c.Tempo.StartBPM, MinBPM, MaxBPM)
	clampFloat("tempo.max_bpm", &c.Tempo.MaxBPM, c.Tempo.StartBPM, MaxBPM)
	clampFloat("tempo.ramp_seconds", &c.Tempo.RampSeconds, 1, math.MaxFloat64)

	atLeast("judgement.perfect_ms", &c.Judgement.PerfectMs, 1)
	atLeast("judgement.great_ms", &c.Judgement.GreatMs, c.Judgement.PerfectMs+1)
	atLeast("judgement.ok_ms", &c.Judgement.OkMs, c.Judgement.GreatMs+1)
	atLeast("judgement.perfect_floor_ms", &c.Judgement.PerfectFloorMs, 1)
	atLeast("judgement.great_floor_ms", &c.Judgement.GreatFloorMs, c.Judgement.PerfectFloorMs+1)
	atLeast("judgement.ok_floor_ms", &c.Judgement.OkFloorMs, c.Judgement.GreatFloorMs+1)

	clampFloat("motion.radius_fraction", &c.Motion.RadiusFraction, 0.01, 0.5)
	clampFloat("motion.min_radius", &c.Motion.MinRadius, 0.5, math.MaxFloat64)
	atLeast("motion.move_every_beats", &c.Motion.MoveEveryBeats, 1)
	atLeast("motion.levels_per_cadence_step", &c.Motion.LevelsPerCadenceStep, 1)
	clampFloat("motion.smoothing_base", &c.Motion.SmoothingBase, 0.1, 100)
	clampFloat("motion.inset_x", &c.Motion.InsetX, 0, 0.45)
	clampFloat("motion.inset_top", &c.Motion.InsetTop, 0, 0.45)
	clampFloat("motion.inset_bottom", &c.Motion.InsetBottom, 0, 0.45)

	if c.Progression.Lives < 1 || c.Progression.Lives > 3 {
		old := c.Progression.Lives
		if c.Progression.Lives < 1 {
			c.Progression.Lives = 1
		} else {
			c.Progression.Lives = 3
		}
		fix("progression.lives", old, c.Progression.Lives)
	}
	atLeast("progression.level_score_step", &c.Progression.LevelScoreStep, 1)
	atLeast("progression.level_combo_step", &c.Progression.LevelComboStep, 1)
	atLeast("progression.max_level", &c.Progression.MaxLevel, 1)
	clampFloat("progression.energy_decay_per_second", &c.Progression.EnergyDecayPerSecond, 0, 100)
	for i := range c.Progression.BaseReward {
		atLeast(fmt.Sprintf("progression.base_reward[%d]", i), &c.Progression.BaseReward[i], 0)
		atLeast(fmt.Sprintf("progression.coin_reward[%d]", i), &c.Progression.CoinReward[i], 0)
		clampFloat(fmt.Sprintf("progression.energy_gain[%d]", i), &c.Progression.EnergyGain[i], 0, 100)
	}
	clampFloat("progression.combo_multiplier_step", &c.Progression.ComboMultiplierStep, 0, 10)
	atLeast("progression.combo_multiplier_cap", &c.Progression.ComboMultiplierCap, 0)
	atLeast("progression.miss_streak_penalty", &c.Progression.MissStreakPenalty, 0)
	clampFloat("progression.miss_energy_loss", &c.Progression.MissEnergyLoss, 0, 100)
	atLeast("progression.achievement_reward", &c.Progression.AchievementReward, 0)

	atLeast("scheduler.period_ms", &c.Scheduler.PeriodMs, 5)
	atLeast("scheduler.lookahead_ms", &c.Scheduler.LookaheadMs, c.Scheduler.PeriodMs)
	atLeast("scheduler.max_beats_per_poll", &c.Scheduler.MaxBeatsPerPoll, 1)

	atLeast("audio.sample_rate", &c.Audio.SampleRate, 8000)
	atLeast("audio.buffer_ms", &c.Audio.BufferMs, 5)
	clampFloat("audio.master_volume", &c.Audio.MasterVolume, 0, 1)

	return notes
}
