package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tapbeat/internal/config"
)

var flagResolved bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration",
	Long: `Prints the built-in default configuration as YAML. Save it to
~/.tapbeat/configs/tapbeat.yaml or ./configs/tapbeat.yaml to customise.

With --resolved, prints the configuration a run would use after the
config search path, --difficulty and validation have been applied.

Examples:
  tapbeat config > ~/.tapbeat/configs/tapbeat.yaml
  tapbeat config --resolved --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagResolved, "resolved", false, "Print the effective configuration")
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	configCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if !flagResolved {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	cfg, _, notes, err := loadGameConfig(flagConfig, flagDifficulty)
	if err != nil {
		return err
	}
	for _, note := range notes {
		fmt.Fprintf(os.Stderr, "adjusted: %s\n", note)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
