// ABOUTME: CLI command that recommends a practice tempo for a bar range.
// ABOUTME: Renders achieved, latest-fallback and no-history suggestions.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/woodshed/internal/suggest"
	"github.com/spf13/cobra"
)

const maxBarsShown = 10

var suggestCmd = &cobra.Command{
	Use:   "suggest <song-index> <bar-from> <bar-to>",
	Short: "Suggest a practice tempo for a bar range",
	Long: `Suggest a tempo for the given song and bar range.

The suggestion is the slowest per-bar minimum among sessions that hit the
success threshold, so every bar in the range has been achieved at the
suggested tempo or above. Bars holding the range back are listed as
bottlenecks; bars with no achieving session yet are listed as gaps.

When no session in the range has been achieved, the most recent attempt is
shown instead so you know where you left off.

Examples:
  woodshed suggest 1 1 8
  woodshed suggest 3 17 24`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		songIndex, err := parsePositiveInt(args[0], "song index")
		if err != nil {
			return err
		}
		barStart, err := parsePositiveInt(args[1], "bar-from")
		if err != nil {
			return err
		}
		barEnd, err := parsePositiveInt(args[2], "bar-to")
		if err != nil {
			return err
		}

		song, err := repo.GetSong(songIndex)
		if err != nil {
			return fmt.Errorf("failed to look up song %d: %w", songIndex, err)
		}

		engine := suggest.New(repo)
		sug, err := engine.Suggest(songIndex, barStart, barEnd)
		if err != nil {
			return err
		}

		fmt.Printf("[%d] %s, bars %d-%d\n", song.Index, song.Name, barStart, barEnd)
		printSuggestion(sug)
		return nil
	},
}

func printSuggestion(sug *suggest.Suggestion) {
	switch sug.Kind {
	case suggest.KindAchieved:
		color.Green("Suggested tempo: %d bpm", *sug.Tempo)
		if len(sug.BottleneckBars) > 0 {
			fmt.Printf("Bottleneck bars: %s\n", barList(sug.BottleneckBars))
		}
		if len(sug.GapBars) > 0 {
			color.Yellow("Unpracticed bars: %s", barList(sug.GapBars))
		}
	case suggest.KindLatest:
		fmt.Println("No achieved sessions cover this range yet.")
		if sug.Latest != nil {
			l := sug.Latest
			fmt.Printf("Last attempt: %d bpm, %d/%d reps (%.0f%%) on bars %d-%d at %s\n",
				l.Tempo, l.Success, l.Reps, l.Ratio*100, l.BarStart, l.BarEnd,
				l.Start.Format("2006-01-02 15:04"))
		} else {
			fmt.Println("Last attempt has no usable tempo or rep count.")
		}
	default:
		fmt.Println("No practice history for this range. Pick a comfortable starting tempo.")
	}
}

// barList renders bar numbers, eliding after maxBarsShown.
func barList(bars []int) string {
	var b strings.Builder
	for i, bar := range bars {
		if i == maxBarsShown {
			b.WriteString(", …")
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(bar))
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
