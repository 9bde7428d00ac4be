// ABOUTME: Song model for the practice song index.
// ABOUTME: Songs are immutable once created; the index assigns meter defaults.
package models

import (
	"fmt"
	"time"
)

// Meter bounds. The numerator is the beats-per-bar count; the denominator
// (beat unit) is restricted to the note values the metronome understands.
const (
	MinBeatsPerBar = 1
	MaxBeatsPerBar = 32
)

// ValidBeatUnits lists the accepted meter denominators.
var ValidBeatUnits = []int{2, 4, 8}

// Song is one entry in the song index. Index is a positive integer assigned
// at creation time (next unused); songs are never updated or deleted.
type Song struct {
	Index       int
	Name        string
	BeatsPerBar int
	BeatUnit    int
	CreatedAt   time.Time
}

// NewSong creates a Song with the given index and meter.
func NewSong(index int, name string, beatsPerBar, beatUnit int) *Song {
	return &Song{
		Index:       index,
		Name:        name,
		BeatsPerBar: beatsPerBar,
		BeatUnit:    beatUnit,
		CreatedAt:   time.Now(),
	}
}

// Meter returns the meter as display text, e.g. "4/4".
func (s *Song) Meter() string {
	return fmt.Sprintf("%d/%d", s.BeatsPerBar, s.BeatUnit)
}

// ValidateMeter checks a meter pair against the accepted ranges.
func ValidateMeter(beatsPerBar, beatUnit int) error {
	if beatsPerBar < MinBeatsPerBar || beatsPerBar > MaxBeatsPerBar {
		return fmt.Errorf("beats per bar must be in [%d,%d], got %d", MinBeatsPerBar, MaxBeatsPerBar, beatsPerBar)
	}
	for _, u := range ValidBeatUnits {
		if beatUnit == u {
			return nil
		}
	}
	return fmt.Errorf("beat unit must be one of 2, 4 or 8, got %d", beatUnit)
}
