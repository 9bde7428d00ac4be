// ABOUTME: Root Cobra command for woodshed CLI.
// ABOUTME: Opens the configured storage backend via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"strconv"

	"github.com/harperreed/woodshed/internal/config"
	"github.com/harperreed/woodshed/internal/storage"
	"github.com/spf13/cobra"
)

var (
	repo storage.Repository
	cfg  *config.Config

	flagBackend string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "woodshed",
	Short: "Timed practice tracker with a metronome and tempo suggestions",
	Long: `Woodshed tracks repetition practice on bar ranges of songs.

Each practice session runs against a metronome at a locked tempo; you count
reps and successful reps, and finished sessions land in an append-only log.
From that log woodshed suggests what tempo to practice a passage at next:
the slowest tempo that every bar in the range has been nailed at (90%+
success), or failing that, your most recent attempt.

QUICK START:

  $ woodshed song add "Donna Lee" --meter 4/4   # Register a song
  $ woodshed suggest 1 1 8                      # Tempo suggestion for bars 1-8
  $ woodshed practice 1 1 8 100                 # Timed session with metronome
  $ woodshed history 1                          # Past sessions for song 1

METRONOME:

  $ woodshed metronome 120 --meter 3/4          # Preview a tempo (Ctrl-C stops)

DATA STORAGE:

  Songs and sessions live in CSV files under the data directory
  (~/.local/share/woodshed by default); 'woodshed migrate --to sqlite'
  switches to an SQLite database instead. Both files are append-only:
  finished sessions are recorded, cancelled ones never are.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that don't touch storage
		switch cmd.Name() {
		case "help", "completion", "version":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// parsePositiveInt parses a 1-based CLI argument like a song index or bar
// number.
func parsePositiveInt(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", what, s)
	}
	return n, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: csv or sqlite (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (overrides config)")
}
