// ABOUTME: PracticeRecord model for completed practice sessions.
// ABOUTME: Records are write-once; only successfully finished sessions produce one.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Tempo bounds in beats per minute.
const (
	MinTempo = 1
	MaxTempo = 400
)

// TimeLayout is the timestamp format used in persisted records.
const TimeLayout = "2006-01-02 15:04:05"

// legacyTimeLayout is accepted on read for hand-edited logs.
const legacyTimeLayout = "2006/01/02 15:04:05"

// PracticeRecord is one completed practice session over a bar range of a
// song. Appended to the session log exactly once, never edited.
type PracticeRecord struct {
	SessionID   uuid.UUID
	Start       time.Time
	End         time.Time
	DurationSec float64
	SongIndex   int
	SongName    string
	BarStart    int
	BarEnd      int
	Tempo       int
	Reps        int
	Success     int
	Note        string
}

// SuccessRatio returns success/reps, or 0 when reps is 0.
// Persisted records always have reps > 0; the zero guard covers
// in-memory rows built from malformed log data.
func (r *PracticeRecord) SuccessRatio() float64 {
	if r.Reps <= 0 {
		return 0
	}
	return float64(r.Success) / float64(r.Reps)
}

// Bars returns the record's bar range normalized so start <= end.
func (r *PracticeRecord) Bars() (int, int) {
	if r.BarStart > r.BarEnd {
		return r.BarEnd, r.BarStart
	}
	return r.BarStart, r.BarEnd
}

// CoversBar reports whether the record's normalized bar range contains bar n.
func (r *PracticeRecord) CoversBar(n int) bool {
	lo, hi := r.Bars()
	return lo <= n && n <= hi
}

// Overlaps reports whether the record's normalized bar range intersects [a,b].
func (r *PracticeRecord) Overlaps(a, b int) bool {
	lo, hi := r.Bars()
	return max(a, lo) <= min(b, hi)
}

// ParseRecordTime parses a persisted timestamp. Both the canonical and the
// slash-separated legacy layout are accepted; the zero time and false are
// returned for anything else.
func ParseRecordTime(s string) (time.Time, bool) {
	for _, layout := range []string{TimeLayout, legacyTimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
