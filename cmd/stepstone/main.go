// stepstone is a terminal stepping-stone game: hop one, two or three tiles
// at a time across a lane of stones and pits, and race the clock to the flag.
//
// Usage:
//
//	stepstone                  - Pick a variant and difficulty from a menu
//	stepstone list             - List available variants
//	stepstone play [variant]   - Play a variant directly
//	stepstone scores [variant] - Show fastest runs
//	stepstone serve            - Start SSH server for remote play
//	stepstone config           - Print or install the default config
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible lanes
//	--db <path>          - Set database path (default: XDG data dir)
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/stepstone/internal/games/stepstone"
	"github.com/vovakirdan/stepstone/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stepstone",
	Short: "Stepstone - hop across the stones in your terminal",
	Long: `Stepstone is a terminal game about crossing a lane of stones.
Each hop covers one, two or three tiles; land on water and the run is over.
Reach the flag as fast as you can.

Available commands:
  list     - Show all variants
  play     - Play a variant directly
  menu     - Interactive variant picker (also the default)
  scores   - View fastest runs
  config   - Print or install the default config
  serve    - Start SSH server for remote play

Examples:
  stepstone
  stepstone play
  stepstone play stepstone_marathon --difficulty hard
  stepstone serve --ssh :2222
  stepstone scores`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run database (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds a logger at the level chosen by --log-level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to the XDG state directory so the alternate screen stays
// clean. The returned closer must be called on exit.
func fileLogger(prefix string) (*log.Logger, func()) {
	path, err := xdg.StateFile("stepstone/stepstone.log")
	if err != nil {
		return newLogger(io.Discard, prefix), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return newLogger(io.Discard, prefix), func() {}
	}
	return newLogger(f, prefix), func() { f.Close() }
}

// openStore opens the run database from --db or the XDG default.
func openStore() (*storage.Store, error) {
	path := flagDBPath
	if path == "" {
		p, err := storage.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return storage.Open(path)
}
