// ABOUTME: Tempo suggestion engine over the practice session log.
// ABOUTME: Bottleneck analysis of achieving records with a latest-attempt fallback.
package suggest

import (
	"fmt"
	"sync"
	"time"

	"github.com/harperreed/woodshed/internal/models"
	"github.com/harperreed/woodshed/internal/storage"
)

// AchievedThreshold is the success ratio at which a record counts as
// "achieving": the tempo was held for at least 90% of the reps.
const AchievedThreshold = 0.90

// Kind classifies a suggestion result.
type Kind string

const (
	// KindNone means no past record overlaps the queried range.
	KindNone Kind = "none"
	// KindAchieved means at least one bar has an achieving record; the
	// suggested tempo is the slowest per-bar minimum across the range.
	KindAchieved Kind = "achieved"
	// KindLatest means records overlap but none achieve the threshold;
	// the most recent attempt (slowest on ties) is reported instead.
	KindLatest Kind = "latest"
)

// Latest describes the fallback record behind a KindLatest suggestion.
type Latest struct {
	Tempo    int
	Reps     int
	Success  int
	Ratio    float64
	Start    time.Time
	BarStart int
	BarEnd   int
}

// Suggestion is the result of a tempo query over a song's bar range.
type Suggestion struct {
	Kind Kind

	// Tempo is the suggested practice tempo, nil when there is not
	// enough data to suggest one.
	Tempo *int

	// BottleneckBars are the bars whose best achieving tempo equals
	// the suggested tempo; GapBars have no achieving record at all.
	// Both are set only for KindAchieved, sorted ascending.
	BottleneckBars []int
	GapBars        []int

	// Latest is set only for KindLatest.
	Latest *Latest
}

// Engine computes tempo suggestions from the session log. Loaded rows are
// cached per song; Invalidate drops the cache after a new record is
// appended (or the log file changes under a long-running process).
type Engine struct {
	repo storage.Repository

	mu    sync.Mutex
	cache map[int][]*models.PracticeRecord
}

// New creates an Engine over repo.
func New(repo storage.Repository) *Engine {
	return &Engine{
		repo:  repo,
		cache: make(map[int][]*models.PracticeRecord),
	}
}

// Invalidate drops all cached log rows. Call after appending a record.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[int][]*models.PracticeRecord)
}

func (e *Engine) records(songIndex int) ([]*models.PracticeRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rows, ok := e.cache[songIndex]; ok {
		return rows, nil
	}
	rows, err := e.repo.ListRecords(songIndex)
	if err != nil {
		return nil, err
	}
	e.cache[songIndex] = rows
	return rows, nil
}

// Suggest recommends a tempo for practicing bars [barStart, barEnd] of a
// song, based on records whose bar range overlaps the query.
func (e *Engine) Suggest(songIndex, barStart, barEnd int) (*Suggestion, error) {
	if barStart <= 0 || barEnd <= 0 {
		return nil, fmt.Errorf("bars are numbered from 1, got [%d,%d]", barStart, barEnd)
	}
	if barStart > barEnd {
		return nil, fmt.Errorf("bar range start %d exceeds end %d", barStart, barEnd)
	}

	all, err := e.records(songIndex)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	var rows []*models.PracticeRecord
	for _, r := range all {
		if r.Overlaps(barStart, barEnd) {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return &Suggestion{Kind: KindNone}, nil
	}

	// Per-bar minimum tempo among achieving records covering that bar.
	achieved := make(map[int]int)
	for bar := barStart; bar <= barEnd; bar++ {
		best := 0
		for _, r := range rows {
			if !r.CoversBar(bar) || r.Reps <= 0 || r.Tempo <= 0 {
				continue
			}
			if r.SuccessRatio() < AchievedThreshold {
				continue
			}
			if best == 0 || r.Tempo < best {
				best = r.Tempo
			}
		}
		if best > 0 {
			achieved[bar] = best
		}
	}

	if len(achieved) > 0 {
		return achievedSuggestion(achieved, barStart, barEnd), nil
	}
	return latestSuggestion(rows), nil
}

// achievedSuggestion picks the slowest per-bar achieving tempo: the range
// is only as fast as its weakest bar.
func achievedSuggestion(achieved map[int]int, barStart, barEnd int) *Suggestion {
	tempo := 0
	for _, t := range achieved {
		if tempo == 0 || t < tempo {
			tempo = t
		}
	}

	s := &Suggestion{Kind: KindAchieved, Tempo: &tempo}
	for bar := barStart; bar <= barEnd; bar++ {
		if t, ok := achieved[bar]; ok {
			if t == tempo {
				s.BottleneckBars = append(s.BottleneckBars, bar)
			}
		} else {
			s.GapBars = append(s.GapBars, bar)
		}
	}
	return s
}

// latestSuggestion falls back to the most recent overlapping attempts and,
// within that timestamp group, the most conservative (lowest) tempo. Rows
// with unparseable timestamps carry the zero time, grouping them as oldest.
// Insertion order breaks any remaining tie, keeping the result
// deterministic.
func latestSuggestion(rows []*models.PracticeRecord) *Suggestion {
	var maxTS time.Time
	for _, r := range rows {
		if r.Start.After(maxTS) {
			maxTS = r.Start
		}
	}

	var chosen *models.PracticeRecord
	for _, r := range rows {
		if !r.Start.Equal(maxTS) || r.Tempo <= 0 {
			continue
		}
		if chosen == nil || r.Tempo < chosen.Tempo {
			chosen = r
		}
	}

	if chosen == nil || chosen.Reps <= 0 {
		// Overlapping history exists but nothing usable to suggest.
		return &Suggestion{Kind: KindLatest}
	}

	tempo := chosen.Tempo
	lo, hi := chosen.Bars()
	return &Suggestion{
		Kind:  KindLatest,
		Tempo: &tempo,
		Latest: &Latest{
			Tempo:    chosen.Tempo,
			Reps:     chosen.Reps,
			Success:  chosen.Success,
			Ratio:    chosen.SuccessRatio(),
			Start:    chosen.Start,
			BarStart: lo,
			BarEnd:   hi,
		},
	}
}
