package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesDefaultConfig(t *testing.T) {
	var fromYAML TapbeatConfig
	if err := yaml.Unmarshal(DefaultYAML(), &fromYAML); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	if fromYAML != DefaultConfig() {
		t.Errorf("embedded yaml and DefaultConfig() disagree:\nyaml: %+v\ncode: %+v", fromYAML, DefaultConfig())
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("tempo:\n  start_bpm: 90\njudgement:\n  perfect_ms: 60\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Tempo.StartBPM != 90 {
		t.Errorf("StartBPM = %v, want 90", cfg.Tempo.StartBPM)
	}
	if cfg.Judgement.PerfectMs != 60 {
		t.Errorf("PerfectMs = %d, want 60", cfg.Judgement.PerfectMs)
	}
	// Untouched fields keep their defaults.
	if cfg.Judgement.GreatMs != DefaultConfig().Judgement.GreatMs {
		t.Errorf("GreatMs = %d, want default %d", cfg.Judgement.GreatMs, DefaultConfig().Judgement.GreatMs)
	}
	if cfg.Progression.Lives != 3 {
		t.Errorf("Lives = %d, want 3", cfg.Progression.Lives)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tempo: [not, a, map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tempo.StartBPM = 500
	cfg.Judgement.GreatMs = cfg.Judgement.PerfectMs
	cfg.Progression.Lives = 7
	cfg.Audio.MasterVolume = -1
	cfg.Scheduler.MaxBeatsPerPoll = 0

	notes := cfg.Validate()
	if len(notes) == 0 {
		t.Fatal("expected adjustments to be reported")
	}
	if cfg.Tempo.StartBPM != MaxBPM {
		t.Errorf("StartBPM = %v, want %v", cfg.Tempo.StartBPM, MaxBPM)
	}
	if cfg.Judgement.GreatMs <= cfg.Judgement.PerfectMs || cfg.Judgement.OkMs <= cfg.Judgement.GreatMs {
		t.Errorf("windows not strictly increasing: %+v", cfg.Judgement)
	}
	if cfg.Progression.Lives != 3 {
		t.Errorf("Lives = %d, want 3", cfg.Progression.Lives)
	}
	if cfg.Audio.MasterVolume != 0 {
		t.Errorf("MasterVolume = %v, want 0", cfg.Audio.MasterVolume)
	}
	if cfg.Scheduler.MaxBeatsPerPoll != 1 {
		t.Errorf("MaxBeatsPerPoll = %d, want 1", cfg.Scheduler.MaxBeatsPerPoll)
	}
}

func TestValidateRejectsNegativeRewards(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*TapbeatConfig)
		field string
		check func(TapbeatConfig) bool
	}{
		{"base reward", func(c *TapbeatConfig) { c.Progression.BaseReward[0] = -50 },
			"progression.base_reward[0]", func(c TapbeatConfig) bool { return c.Progression.BaseReward[0] == 0 }},
		{"coin reward", func(c *TapbeatConfig) { c.Progression.CoinReward[2] = -3 },
			"progression.coin_reward[2]", func(c TapbeatConfig) bool { return c.Progression.CoinReward[2] == 0 }},
		{"energy gain", func(c *TapbeatConfig) { c.Progression.EnergyGain[1] = -20 },
			"progression.energy_gain[1]", func(c TapbeatConfig) bool { return c.Progression.EnergyGain[1] == 0 }},
		{"miss energy loss", func(c *TapbeatConfig) { c.Progression.MissEnergyLoss = -12 },
			"progression.miss_energy_loss", func(c TapbeatConfig) bool { return c.Progression.MissEnergyLoss == 0 }},
		{"miss streak penalty", func(c *TapbeatConfig) { c.Progression.MissStreakPenalty = -2 },
			"progression.miss_streak_penalty", func(c TapbeatConfig) bool { return c.Progression.MissStreakPenalty == 0 }},
		{"combo multiplier step", func(c *TapbeatConfig) { c.Progression.ComboMultiplierStep = -0.5 },
			"progression.combo_multiplier_step", func(c TapbeatConfig) bool { return c.Progression.ComboMultiplierStep == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			notes := cfg.Validate()
			if len(notes) != 1 || !strings.HasPrefix(notes[0], tt.field+":") {
				t.Errorf("notes = %v, want one note for %s", notes, tt.field)
			}
			if !tt.check(cfg) {
				t.Errorf("%s not clamped: %+v", tt.field, cfg.Progression)
			}
		})
	}
}

func TestValidateDefaultsUntouched(t *testing.T) {
	cfg := DefaultConfig()
	if notes := cfg.Validate(); len(notes) != 0 {
		t.Errorf("defaults should validate cleanly, got %v", notes)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		name     string
		preset   DifficultyPreset
		wantPerf int
		wantMax  float64
	}{
		{"easy", DifficultyEasy, 119, 150},
		{"normal", DifficultyNormal, 95, 180},
		{"hard", DifficultyHard, 76, 210},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			ApplyPreset(&cfg, tt.preset)
			if cfg.Judgement.PerfectMs != tt.wantPerf {
				t.Errorf("PerfectMs = %d, want %d", cfg.Judgement.PerfectMs, tt.wantPerf)
			}
			if cfg.Tempo.MaxBPM != tt.wantMax {
				t.Errorf("MaxBPM = %v, want %v", cfg.Tempo.MaxBPM, tt.wantMax)
			}
			if notes := cfg.Validate(); len(notes) != 0 {
				t.Errorf("preset produced invalid config: %v", notes)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{"hard", DifficultyHard, false},
		{"nightmare", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePreset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePreset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePreset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
