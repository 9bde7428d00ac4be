// ABOUTME: Interactive timed practice session with a running metronome.
// ABOUTME: Single-key commands drive rep and success counters until finish or cancel.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/woodshed/internal/metronome"
	"github.com/harperreed/woodshed/internal/session"
	"github.com/harperreed/woodshed/internal/suggest"
	"github.com/spf13/cobra"
)

var practiceNote string

var practiceCmd = &cobra.Command{
	Use:     "practice <song-index> <bar-from> <bar-to> <tempo>",
	Aliases: []string{"p"},
	Short:   "Run a timed practice session",
	Long: `Practice a bar range of a song at a fixed tempo.

The metronome starts immediately and keeps the cadence until the session
ends. Tempo and bar range are locked in when the session starts; only the
tempo can be retuned mid-session. Counters track how many repetitions you
played and how many were clean.

Commands during the session (press Enter after each):

  r        count one rep
  R        uncount one rep
  s        count one successful rep
  S        uncount one successful rep
  t <bpm>  retune the metronome
  z        reset both counters
  f        finish and save the session
  c, q     cancel without saving

A session with zero reps cannot be finished, only cancelled.

Examples:
  woodshed practice 1 1 8 96
  woodshed practice 3 17 24 120 --note "left hand only"`,
	Args: cobra.ExactArgs(4),
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
		tempo, err := parsePositiveInt(args[3], "tempo")
		if err != nil {
			return err
		}

		song, err := repo.GetSong(songIndex)
		if err != nil {
			return fmt.Errorf("failed to look up song %d: %w", songIndex, err)
		}

		engine := suggest.New(repo)
		if sug, err := engine.Suggest(songIndex, barStart, barEnd); err == nil {
			printSuggestion(sug)
		}

		sched := metronome.New(metronome.NewTerminalSink(os.Stderr))
		ctrl := session.New(repo, sched, engine.Invalidate)
		defer ctrl.Cancel()

		if err := ctrl.Start(song, barStart, barEnd, tempo, practiceNote); err != nil {
			return err
		}
		fmt.Printf("Practicing [%d] %s, bars %d-%d at %d bpm (%s)\n",
			song.Index, song.Name, barStart, barEnd, tempo, song.Meter())

		return practiceLoop(cmd, ctrl)
	},
}

func practiceLoop(cmd *cobra.Command, ctrl *session.Controller) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var err error
		switch fields := strings.Fields(line); fields[0] {
		case "r":
			err = ctrl.AddRep(1)
		case "R":
			err = ctrl.AddRep(-1)
		case "s":
			err = ctrl.AddSuccess(1)
		case "S":
			err = ctrl.AddSuccess(-1)
		case "z":
			err = ctrl.ResetCounts()
		case "t":
			if len(fields) < 2 {
				err = fmt.Errorf("usage: t <bpm>")
				break
			}
			var bpm int
			bpm, err = strconv.Atoi(fields[1])
			if err != nil {
				err = fmt.Errorf("tempo must be a number, got %q", fields[1])
				break
			}
			if err = ctrl.UpdateTempo(bpm); err == nil {
				fmt.Printf("\nTempo: %d bpm\n", bpm)
			}
		case "f":
			rec, ferr := ctrl.Finish()
			if ferr != nil {
				err = ferr
				break
			}
			color.Green("\n✓ Saved: %d/%d reps at %d bpm over %.0fs",
				rec.Success, rec.Reps, rec.Tempo, rec.DurationSec)
			return nil
		case "c", "q":
			ctrl.Cancel()
			fmt.Println("\nSession cancelled, nothing saved.")
			return nil
		default:
			err = fmt.Errorf("unknown command %q (r/R/s/S/t/z/f/c)", fields[0])
		}

		if err != nil {
			color.Red("\n%v", err)
			continue
		}
		reps, success := ctrl.Counters()
		fmt.Printf("\nReps: %d  Success: %d\n", reps, success)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Input closed without finish; treat like a cancel.
	ctrl.Cancel()
	fmt.Println("\nInput closed, session cancelled.")
	return nil
}

func init() {
	practiceCmd.Flags().StringVar(&practiceNote, "note", "", "note stored with the session record")
	rootCmd.AddCommand(practiceCmd)
}
