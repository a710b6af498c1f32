package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tapbeat/internal/rhythm"
	"github.com/vovakirdan/tapbeat/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime stats and achievements",
	Long:  `Shows judgement totals, per-difficulty run summaries and achievement progress.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening runs database: %w", err)
	}
	defer store.Close()

	life := rhythm.LoadJSON(store, rhythm.KeyStats, rhythm.Stats{})
	fmt.Println("Lifetime")
	fmt.Println()
	fmt.Printf("  Runs played   %d\n", life.RunsPlayed)
	fmt.Printf("  Perfect       %d\n", life.Perfects)
	fmt.Printf("  Great         %d\n", life.Greats)
	fmt.Printf("  Ok            %d\n", life.Oks)
	fmt.Printf("  Miss          %d\n", life.Misses)
	fmt.Printf("  Best combo    %d\n", life.MaxCombo)
	fmt.Printf("  Longest run   %s\n", time.Duration(life.BestTimeSecs*float64(time.Second)).Round(time.Second))
	fmt.Printf("  Coins         %d\n", life.TotalCoins)

	byDifficulty, err := store.AllRunStats()
	if err != nil {
		return fmt.Errorf("error retrieving run stats: %w", err)
	}
	if len(byDifficulty) > 0 {
		fmt.Println()
		fmt.Println("Runs by difficulty")
		fmt.Println()
		fmt.Printf("  %-7s  %-5s  %-6s  %-8s  %-6s  %s\n", "Diff", "Runs", "Best", "Average", "Combo", "Last played")
		for _, name := range []string{"easy", "normal", "hard"} {
			s, ok := byDifficulty[name]
			if !ok {
				continue
			}
			fmt.Printf("  %-7s  %-5d  %-6d  %-8.1f  %-6d  %s\n",
				s.Difficulty, s.RunsCount, s.HighScore, s.AvgScore, s.BestCombo,
				s.LastPlayed.Local().Format("2006-01-02 15:04"))
		}
	}

	achievements := rhythm.NewAchievements(rhythm.LoadJSON(store, rhythm.KeyAchievements, map[string]bool{}))
	fmt.Println()
	fmt.Println("Achievements")
	fmt.Println()
	for _, a := range achievements.List() {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Printf("  %s %-16s %s\n", mark, a.Title, a.Description)
	}
	return nil
}
