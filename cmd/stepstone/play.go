package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/stepstone/internal/config"
	"github.com/vovakirdan/stepstone/internal/core"
	"github.com/vovakirdan/stepstone/internal/games/stepstone"
	"github.com/vovakirdan/stepstone/internal/platform/tui"
	"github.com/vovakirdan/stepstone/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start playing the specified variant (default: stepstone).

Controls:
  1/J, left click     - Hop one tile
  2/K, middle click   - Hop two tiles
  3/L, right click    - Hop three tiles
  Enter/Space         - Start (or replay after a win)
  R                   - Retry with a new lane
  B/Esc               - Back to the start panel
  Ctrl+S              - Save a text screenshot (also copied to clipboard)
  Q/Ctrl+C            - Quit

Difficulty options:
  easy   - 12 tiles
  normal - 20 tiles
  hard   - 40 tiles and a quicker hop

Examples:
  stepstone play
  stepstone play stepstone_marathon
  stepstone play --difficulty hard
  stepstone play --config ./my-stepstone.yaml --seed 7`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

// terminalConfig builds the runtime config from the current terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := "stepstone"
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'stepstone list' to see available variants.")
		os.Exit(1)
	}
	if flagDifficulty != "" {
		if _, ok := config.ParsePreset(flagDifficulty); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q (want easy, normal or hard)\n", flagDifficulty)
			os.Exit(1)
		}
	}

	logger, closeLog := fileLogger("stepstone")
	defer closeLog()

	stepstone.SetConfigPath(flagConfig)
	stepstone.SetDifficultyPreset(flagDifficulty)
	stepstone.SetLogger(logger)

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, terminalConfig(), tui.WithLogger(logger), tui.WithClipboard())

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
