// ABOUTME: CLI command listing past practice sessions for a song.
// ABOUTME: Renders the log newest first in a fixed-width table.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history <song-index>",
	Aliases: []string{"h", "log"},
	Short:   "Show past practice sessions for a song",
	Long: `Show the practice log for a song, newest session first.

Each line shows when the session happened, the bar range, the tempo, and
the success count. Use -n to limit how many sessions are shown.

Examples:
  woodshed history 1
  woodshed history 3 -n 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		songIndex, err := parsePositiveInt(args[0], "song index")
		if err != nil {
			return err
		}

		song, err := repo.GetSong(songIndex)
		if err != nil {
			return fmt.Errorf("failed to look up song %d: %w", songIndex, err)
		}
		records, err := repo.ListRecords(songIndex)
		if err != nil {
			return fmt.Errorf("failed to read practice log: %w", err)
		}
		if len(records) == 0 {
			fmt.Printf("No sessions recorded for [%d] %s yet.\n", song.Index, song.Name)
			return nil
		}

		fmt.Printf("[%d] %s (%s), %d session(s)\n\n", song.Index, song.Name, song.Meter(), len(records))

		shown := 0
		faint := color.New(color.Faint)
		for i := len(records) - 1; i >= 0 && shown < historyLimit; i-- {
			r := records[i]
			when := "unknown time"
			if !r.Start.IsZero() {
				when = r.Start.Format("2006-01-02 15:04")
			}
			line := fmt.Sprintf("%s  bars %s  %s  %d/%d",
				padRight(when, 16),
				padRight(fmt.Sprintf("%d-%d", r.BarStart, r.BarEnd), 7),
				padRight(fmt.Sprintf("%d bpm", r.Tempo), 7),
				r.Success, r.Reps)
			if r.SuccessRatio() >= 0.90 && r.Reps > 0 {
				color.Green(line)
			} else {
				fmt.Println(line)
			}
			if r.Note != "" {
				faint.Printf("    %s\n", truncate(r.Note, 70))
			}
			shown++
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum sessions to show")
	rootCmd.AddCommand(historyCmd)
}
