// ABOUTME: Standalone metronome preview command.
// ABOUTME: Runs the beat cadence until interrupted, no session recorded.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/woodshed/internal/metronome"
	"github.com/spf13/cobra"
)

var metronomeMeter string

var metronomeCmd = &cobra.Command{
	Use:     "metronome <tempo>",
	Aliases: []string{"m", "click"},
	Short:   "Run the metronome without recording a session",
	Long: `Click at the given tempo until interrupted.

Tempo is in beats per minute, 1 to 400. The first beat of every bar is
accented. Nothing is written to the practice log; use this to find a
comfortable tempo before starting a session.

Examples:
  woodshed metronome 96
  woodshed metronome 120 --meter 7/8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tempo, err := parsePositiveInt(args[0], "tempo")
		if err != nil {
			return err
		}
		beatsPerBar, _, err := parseMeter(metronomeMeter)
		if err != nil {
			return err
		}

		sched := metronome.New(metronome.NewTerminalSink(os.Stdout))
		sched.Start(tempo, beatsPerBar)
		defer sched.Stop()

		fmt.Fprintf(os.Stderr, "Metronome at %d bpm, %s. Ctrl-C to stop.\n", tempo, metronomeMeter)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		fmt.Println()
		return nil
	},
}

func init() {
	metronomeCmd.Flags().StringVarP(&metronomeMeter, "meter", "m", "4/4", "meter, numerator/denominator")
	rootCmd.AddCommand(metronomeCmd)
}
