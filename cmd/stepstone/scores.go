package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stepstone/internal/registry"
	"github.com/vovakirdan/stepstone/internal/storage"
)

var (
	flagRecent int
	flagAll    bool
	flagClear  bool
	flagRunID  string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show fastest runs for a variant",
	Long: `Display the 10 fastest winning runs for the specified variant
(default: stepstone), followed by the most recent runs.

Examples:
  stepstone scores
  stepstone scores stepstone_marathon
  stepstone scores --recent 0
  stepstone scores --all
  stepstone scores --run 1b4e28ba-2fa1-11d2-883f-0016d3cca427
  stepstone scores stepstone_marathon --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 5, "Number of recent runs to show (0 to hide)")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "Show statistics for every variant that has been played")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all stored runs for the variant")
	scoresCmd.Flags().StringVar(&flagRunID, "run", "", "Show a single run by its ID")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := "stepstone"
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'stepstone list' to see available variants.")
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagAll:
		err = printAllStats(store)
	case flagRunID != "":
		err = printRun(store, flagRunID)
	case flagClear:
		if err = store.ClearRuns(gameID); err == nil {
			fmt.Printf("Cleared all runs for %s.\n", gameID)
		}
	default:
		err = printScores(store, gameID)
	}

	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printScores(store *storage.Store, gameID string) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	runs, err := store.FastestRuns(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("Fastest Runs - %s\n", game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No finished runs yet.")
		fmt.Println()
		fmt.Printf("Play 'stepstone play %s' and reach the flag to set a time!\n", gameID)
	} else {
		fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "Rank", "Time", "Steps", "Date")
		fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "----", "----", "-----", "----")
		for i, r := range runs {
			fmt.Printf("  %-4d  %-10s  %-5d  %s\n", i+1, formatSeconds(r), r.Steps, r.CreatedAt.Format("2006-01-02 15:04"))
		}

		fmt.Println()
		if best, ok, err := store.BestTime(gameID); err == nil && ok {
			fmt.Printf("Best: %.2f s\n", best.Seconds())
		}
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats.Runs > 0 {
		fmt.Printf("Runs: %d  Wins: %d (%.0f%%)  Furthest: %d steps\n",
			stats.Runs, stats.Wins, stats.WinRate()*100, stats.MaxSteps)
	}

	if flagRecent <= 0 {
		return nil
	}
	recent, err := store.RecentRuns(gameID, flagRecent)
	if err != nil || len(recent) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent runs:")
	for _, r := range recent {
		fmt.Printf("  %s  %-4s  %-10s  %-3d steps  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), outcome(r), formatSeconds(r), r.Steps, r.RunID)
	}
	return nil
}

// printAllStats prints one line per variant that has stored runs.
func printAllStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs stored yet.")
		return nil
	}

	fmt.Printf("  %-20s  %-5s  %-5s  %-5s  %-10s  %s\n", "Variant", "Runs", "Wins", "Win%", "Best", "Last played")
	fmt.Printf("  %-20s  %-5s  %-5s  %-5s  %-10s  %s\n", "-------", "----", "----", "----", "----", "-----------")
	for _, info := range registry.List() {
		gs, ok := all[info.ID]
		if !ok {
			continue
		}
		best := "-"
		if gs.BestTime > 0 {
			best = fmt.Sprintf("%.2f s", gs.BestTime.Seconds())
		}
		fmt.Printf("  %-20s  %-5d  %-5d  %-5.0f  %-10s  %s\n",
			info.ID, gs.Runs, gs.Wins, gs.WinRate()*100, best, gs.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printRun(store *storage.Store, runID string) error {
	r, err := store.RunByID(runID)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("no run with ID %q", runID)
	}

	fmt.Printf("Run %s\n", r.RunID)
	fmt.Printf("  Variant: %s\n", r.GameID)
	fmt.Printf("  Outcome: %s\n", outcome(*r))
	fmt.Printf("  Steps:   %d\n", r.Steps)
	fmt.Printf("  Time:    %s\n", formatSeconds(*r))
	fmt.Printf("  Date:    %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func outcome(r storage.Run) string {
	if r.Won {
		return "goal"
	}
	return "fell"
}

func formatSeconds(r storage.Run) string {
	return fmt.Sprintf("%.2f s", r.Duration.Seconds())
}
