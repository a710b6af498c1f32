package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// windowScaleForPreset returns the multiplier applied to every timing window.
func windowScaleForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 1.25
	case DifficultyHard:
		return 0.8
	default:
		return 1.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *TapbeatConfig, preset DifficultyPreset) {
	scale := windowScaleForPreset(preset)
	j := &cfg.Judgement
	j.PerfectMs = scaleMs(j.PerfectMs, scale)
	j.GreatMs = scaleMs(j.GreatMs, scale)
	j.OkMs = scaleMs(j.OkMs, scale)
	j.PerfectFloorMs = scaleMs(j.PerfectFloorMs, scale)
	j.GreatFloorMs = scaleMs(j.GreatFloorMs, scale)
	j.OkFloorMs = scaleMs(j.OkFloorMs, scale)

	switch preset {
	case DifficultyEasy:
		cfg.Tempo.StartBPM = 64
		cfg.Tempo.MaxBPM = 150
		cfg.Motion.RadiusFraction *= 1.2
	case DifficultyHard:
		cfg.Tempo.StartBPM = 84
		cfg.Tempo.MaxBPM = 210
		cfg.Motion.MoveEveryBeats = 1
		cfg.Progression.Lives = 2
	}
}

func scaleMs(ms int, scale float64) int {
	return int(float64(ms)*scale + 0.5)
}
