package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tapbeat/internal/platform/tui"
	"github.com/vovakirdan/tapbeat/internal/storage"
)

var (
	flagLimit int
	flagPlain bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show recorded runs",
	Long: `Browse the best recorded runs. Without arguments an interactive
table opens with one tab per difficulty. With --plain (or when stdout is
not a terminal) the top runs are printed as text.

Examples:
  tapbeat scores
  tapbeat scores hard --plain
  tapbeat scores --limit 5 --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print runs as text instead of the interactive table")
}

func runScores(_ *cobra.Command, args []string) error {
	difficulty := ""
	if len(args) == 1 {
		difficulty = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening runs database: %w", err)
	}
	defer store.Close()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if !flagPlain && interactive && difficulty == "" {
		width, height, sizeErr := term.GetSize(int(os.Stdout.Fd()))
		if sizeErr != nil {
			width, height = 80, 24
		}
		return tui.RunScores(store, flagLimit, width, height)
	}

	runs, err := store.TopRuns(difficulty, flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving runs: %w", err)
	}

	title := "all difficulties"
	if difficulty != "" {
		title = difficulty
	}
	fmt.Printf("Top runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tapbeat play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-3s  %-7s  %-7s  %s\n", "Rank", "Score", "Combo", "Lv", "Time", "Diff", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-3s  %-7s  %-7s  %s\n", "----", "-----", "-----", "--", "----", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-6d  %-3d  %-7s  %-7s  %s\n",
			i+1, r.Score, r.MaxCombo, r.Level, r.Duration.Round(time.Second), r.Difficulty,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(difficulty); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}
