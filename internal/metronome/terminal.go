// ABOUTME: Terminal cue sink for audible and visible beats.
// ABOUTME: Rings the terminal bell; accented beats get a distinct mark.
package metronome

import (
	"fmt"
	"io"
)

// TerminalSink cues beats on a terminal: a bell character for sound plus a
// mark per beat, with bar starts set off visually. Audio quality is
// whatever the terminal gives; the cue just has to land on the beat.
type TerminalSink struct {
	w io.Writer
}

// NewTerminalSink creates a sink writing to w.
func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w}
}

// Beat implements Sink.
func (t *TerminalSink) Beat(b Beat) error {
	mark := " ."
	if b.Accent {
		mark = "\n*"
	}
	_, err := fmt.Fprintf(t.w, "%s\a", mark)
	return err
}
