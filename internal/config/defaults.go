package config

import (
	_ "embed"
)

//go:embed defaults/tapbeat.yaml
var defaultTapbeatYAML []byte

// DefaultConfig returns the built-in TapBeat configuration.
// It mirrors defaults/tapbeat.yaml and is used when the embedded file cannot be parsed.
func DefaultConfig() TapbeatConfig {
	return TapbeatConfig{
		Tempo: TempoConfig{
			StartBPM:      72,
			TimeBoost:     38,
			RampSeconds:   70,
			StageBoost:    6,
			ComboBoost:    0.35,
			ComboBoostCap: 10,
			MaxBPM:        180,
		},
		Judgement: JudgementConfig{
			PerfectMs:       95,
			GreatMs:         175,
			OkMs:            240,
			PerfectShrinkMs: 5,
			GreatShrinkMs:   8,
			OkShrinkMs:      10,
			PerfectFloorMs:  45,
			GreatFloorMs:    90,
			OkFloorMs:       130,
		},
		Motion: MotionConfig{
			RadiusFraction:       0.12,
			MinRadius:            2,
			MoveEveryBeats:       2,
			LevelsPerCadenceStep: 3,
			SmoothingBase:        5.0,
			SmoothingEnergyGain:  4.75,
			InsetX:               0.16,
			InsetTop:             0.18,
			InsetBottom:          0.18,
			WarmupBeats:          12,
		},
		Progression: ProgressionConfig{
			Lives:                 3,
			BaseReward:            [3]int{120, 80, 40},
			CoinReward:            [3]int{2, 1, 0},
			EnergyGain:            [3]float64{6, 4, 2},
			ComboMultiplierStep:   0.03,
			ComboMultiplierCap:    40,
			MissStreakPenalty:     2,
			MissEnergyLoss:        12,
			EnergyDecayPerSecond:  1.08,
			LevelScoreStep:        1500,
			LevelComboStep:        20,
			MaxLevel:              9,
			StageEnergyThresholds: [3]float64{20, 45, 75},
			StageComboThresholds:  [3]int{8, 16, 32},
			AchievementReward:     25,
		},
		Scheduler: SchedulerConfig{
			PeriodMs:        25,
			LookaheadMs:     140,
			MaxBeatsPerPoll: 8,
		},
		Audio: AudioConfig{
			Enabled:      true,
			SampleRate:   44100,
			BufferMs:     50,
			MasterVolume: 0.55,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTapbeatYAML
}
