// tapbeat is a terminal rhythm game: tap the moving circle on the beat.
//
// Usage:
//
//	tapbeat play            - Play a run in this terminal
//	tapbeat serve           - Start SSH server for remote play
//	tapbeat scores          - Browse recorded runs
//	tapbeat stats           - Show lifetime stats and achievements
//	tapbeat config          - Print the default configuration
//
// Global flags:
//
//	--fps <rate>         - Set frame rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible target motion
//	--db <path>          - Set database path (default: ~/.tapbeat/tapbeat.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tapbeat",
	Short: "TapBeat - a rhythm game for your terminal",
	Long: `TapBeat is a one-button rhythm game. A circle drifts around the
playfield; click it (or press space with the pointer over it) on the beat.
Hits raise the tempo, misses cost lives.

Available commands:
  play     - Play a run in this terminal
  serve    - Start SSH server for remote play
  scores   - Browse recorded runs
  stats    - Show lifetime stats and achievements
  config   - Print the default configuration

Examples:
  tapbeat play
  tapbeat play --difficulty hard --mute
  tapbeat serve --ssh :2222
  tapbeat scores`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tapbeat/tapbeat.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger. fallback receives logs when no
// --log-file is given; the full-screen UI passes io.Discard so log lines
// do not tear the display.
func newLogger(fallback io.Writer, prefix string) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}
