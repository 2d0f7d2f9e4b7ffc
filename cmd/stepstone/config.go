package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stepstone/internal/config"
)

var (
	flagWriteConfig bool
	flagForce       bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or install the default game config",
	Long: `Print the default stepstone YAML config, or write it to the user
config directory where play, menu and serve pick it up automatically.

Examples:
  stepstone config > my-stepstone.yaml
  stepstone config --write
  stepstone config --write --force`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagWriteConfig, "write", false, "Write the default config to the user config directory")
	configCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing user config")
}

func runConfig(_ *cobra.Command, _ []string) {
	if !flagWriteConfig {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	path, err := config.WriteUserConfig(flagForce)
	if errors.Is(err, os.ErrExist) {
		fmt.Fprintf(os.Stderr, "Config already exists at %s (use --force to overwrite)\n", path)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", path)
}
