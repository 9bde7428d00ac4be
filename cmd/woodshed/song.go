// ABOUTME: CLI commands for the song index.
// ABOUTME: Supports add and list subcommands with meter parsing.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/woodshed/internal/models"
	"github.com/spf13/cobra"
)

var (
	songMeter  string
	songSearch string
)

var songCmd = &cobra.Command{
	Use:     "song",
	Aliases: []string{"s"},
	Short:   "Manage the song index",
	Long: `Register and browse songs.

Each song gets the next free index number and a meter. The index number is
how every other command refers to the song. Songs are never edited or
deleted; the practice log references them by index.

COMMANDS:

  add      Register a new song
  list     List songs, optionally filtered`,
}

var songAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a song",
	Long: `Add a song to the index.

The meter denominator must be 2, 4 or 8; the numerator 1 to 32.

Examples:
  woodshed song add "Donna Lee"
  woodshed song add "Take Five" --meter 5/4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("song name must not be empty")
		}

		beatsPerBar, beatUnit, err := parseMeter(songMeter)
		if err != nil {
			return err
		}

		song, err := repo.AddSong(name, beatsPerBar, beatUnit)
		if err != nil {
			return fmt.Errorf("failed to add song: %w", err)
		}

		color.Green("✓ Added [%d] %s (%s)", song.Index, song.Name, song.Meter())
		return nil
	},
}

var songListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List songs",
	Long: `List all songs in the index.

Use --search to filter on the index number or a name substring
(case-insensitive).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		songs, err := repo.ListSongs()
		if err != nil {
			return fmt.Errorf("failed to list songs: %w", err)
		}

		q := strings.ToLower(strings.TrimSpace(songSearch))
		faint := color.New(color.Faint)
		shown := 0
		for _, song := range songs {
			if q != "" &&
				!strings.Contains(strconv.Itoa(song.Index), q) &&
				!strings.Contains(strings.ToLower(song.Name), q) {
				continue
			}
			fmt.Printf("[%d] %s %s\n", song.Index, song.Name, faint.Sprintf("(%s)", song.Meter()))
			shown++
		}
		if shown == 0 {
			fmt.Println("No songs found.")
		}
		return nil
	},
}

// parseMeter parses "N/D" meter text like "4/4" or "7/8".
func parseMeter(s string) (beatsPerBar, beatUnit int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("meter must look like 4/4, got %q", s)
	}
	beatsPerBar, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("meter must look like 4/4, got %q", s)
	}
	beatUnit, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("meter must look like 4/4, got %q", s)
	}
	if err := models.ValidateMeter(beatsPerBar, beatUnit); err != nil {
		return 0, 0, err
	}
	return beatsPerBar, beatUnit, nil
}

func init() {
	songAddCmd.Flags().StringVarP(&songMeter, "meter", "m", "4/4", "song meter, numerator/denominator")
	songListCmd.Flags().StringVarP(&songSearch, "search", "s", "", "filter by index or name substring")
	songCmd.AddCommand(songAddCmd)
	songCmd.AddCommand(songListCmd)
	rootCmd.AddCommand(songCmd)
}
