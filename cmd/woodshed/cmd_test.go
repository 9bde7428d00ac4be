// ABOUTME: Tests for CLI argument parsing and rendering helpers.
// ABOUTME: Covers meter parsing, positive-int args, and table formatting.
package main

import (
	"strings"
	"testing"
)

func TestParseMeter(t *testing.T) {
	tests := []struct {
		in          string
		beatsPerBar int
		beatUnit    int
		wantErr     bool
	}{
		{"4/4", 4, 4, false},
		{"3/4", 3, 4, false},
		{"7/8", 7, 8, false},
		{"2/2", 2, 2, false},
		{" 6/8 ", 6, 8, false},
		{"32/8", 32, 8, false},
		{"4", 0, 0, true},
		{"", 0, 0, true},
		{"four/4", 0, 0, true},
		{"4/four", 0, 0, true},
		{"0/4", 0, 0, true},
		{"33/4", 0, 0, true},
		{"4/3", 0, 0, true},
		{"4/16", 0, 0, true},
		{"-3/4", 0, 0, true},
	}

	for _, tt := range tests {
		beatsPerBar, beatUnit, err := parseMeter(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseMeter(%q): expected error, got %d/%d", tt.in, beatsPerBar, beatUnit)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMeter(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if beatsPerBar != tt.beatsPerBar || beatUnit != tt.beatUnit {
			t.Errorf("parseMeter(%q) = %d/%d, want %d/%d",
				tt.in, beatsPerBar, beatUnit, tt.beatsPerBar, tt.beatUnit)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	if n, err := parsePositiveInt("42", "tempo"); err != nil || n != 42 {
		t.Errorf("parsePositiveInt(42) = %d, %v", n, err)
	}
	for _, bad := range []string{"0", "-1", "abc", "", "1.5"} {
		if _, err := parsePositiveInt(bad, "tempo"); err == nil {
			t.Errorf("parsePositiveInt(%q): expected error", bad)
		}
	}
	if _, err := parsePositiveInt("x", "bar-from"); err == nil || !strings.Contains(err.Error(), "bar-from") {
		t.Errorf("expected error naming the argument, got %v", err)
	}
}

func TestBarList(t *testing.T) {
	if got := barList([]int{3}); got != "3" {
		t.Errorf("barList single = %q", got)
	}
	if got := barList([]int{1, 2, 5}); got != "1, 2, 5" {
		t.Errorf("barList = %q", got)
	}

	long := make([]int, maxBarsShown+4)
	for i := range long {
		long[i] = i + 1
	}
	got := barList(long)
	if !strings.HasSuffix(got, ", …") {
		t.Errorf("long barList should elide, got %q", got)
	}
	if strings.Contains(got, "11") {
		t.Errorf("elided barList should stop at %d entries, got %q", maxBarsShown, got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("left hand only, slow", 10); got != "left ha..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Errorf("truncate tiny = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not shrink, got %q", got)
	}
}
