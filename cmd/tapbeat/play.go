package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tapbeat/internal/audio"
	"github.com/vovakirdan/tapbeat/internal/config"
	"github.com/vovakirdan/tapbeat/internal/platform/tui"
	"github.com/vovakirdan/tapbeat/internal/rhythm"
	"github.com/vovakirdan/tapbeat/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a TapBeat run in this terminal.

Controls:
  Click        - Tap at the mouse position
  Space/Enter  - Tap at the last mouse position
  P/Esc        - Pause / resume
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot to ~/.tapbeat/screenshots
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Slower start, wider timing windows, bigger target
  normal - Default tuning
  hard   - Faster start, tighter windows, two lives

Examples:
  tapbeat play
  tapbeat play --difficulty easy
  tapbeat play --mute --log-file tapbeat.log --log-level debug
  tapbeat play --config ./my-tapbeat.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable the generated soundtrack")
}

// loadGameConfig loads, tunes and validates the engine configuration.
func loadGameConfig(path, difficulty string) (config.TapbeatConfig, config.DifficultyPreset, []string, error) {
	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		return config.TapbeatConfig{}, "", nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.TapbeatConfig{}, "", nil, err
	}
	config.ApplyPreset(&cfg, preset)
	notes := cfg.Validate()
	return cfg, preset, notes, nil
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(io.Discard, "tapbeat")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, preset, notes, err := loadGameConfig(flagConfig, flagDifficulty)
	if err != nil {
		return err
	}
	for _, note := range notes {
		logger.Warn("config adjusted", "change", note)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.Options{
		Config:     cfg,
		Difficulty: string(preset),
		FPS:        flagFPS,
		Seed:       flagSeed,
		Width:      width,
		Height:     height,
		Logger:     logger,
	}

	if cfg.Audio.Enabled && !flagMute {
		synth := audio.NewSynth(cfg.Audio, logger)
		defer synth.Close()
		opts.Sound = synth
	} else {
		opts.Sound = rhythm.NopSound{}
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - stats live for this session only
		store = nil
	}
	if store != nil {
		defer store.Close()
		opts.Persistence = store
		opts.Recorder = store.Runs(string(preset))
		if best, err := store.HighScore(string(preset)); err == nil {
			opts.HighScore = best
		}
	}

	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
