// ABOUTME: Tests for the tempo suggestion engine.
// ABOUTME: Covers the bottleneck rule, latest fallback, gaps, and cache invalidation.
package suggest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/woodshed/internal/models"
	"github.com/harperreed/woodshed/internal/storage"
)

func newStore(t *testing.T) storage.Repository {
	t.Helper()
	s, err := storage.NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(song, barStart, barEnd, tempo, reps, success int, start time.Time) *models.PracticeRecord {
	return &models.PracticeRecord{
		SessionID:   uuid.New(),
		Start:       start,
		End:         start.Add(time.Minute),
		DurationSec: 60,
		SongIndex:   song,
		SongName:    "Donna Lee",
		BarStart:    barStart,
		BarEnd:      barEnd,
		Tempo:       tempo,
		Reps:        reps,
		Success:     success,
	}
}

func ts(day int) time.Time {
	return time.Date(2024, 4, day, 20, 0, 0, 0, time.UTC)
}

func TestSuggestNoRecords(t *testing.T) {
	repo := newStore(t)
	e := New(repo)

	got, err := e.Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindNone {
		t.Errorf("kind = %v, want none", got.Kind)
	}
	if got.Tempo != nil {
		t.Errorf("tempo = %v, want absent", *got.Tempo)
	}
}

func TestSuggestNonOverlappingIsNone(t *testing.T) {
	repo := newStore(t)
	// Record covers [1,4]; query [5,10] does not overlap.
	if err := repo.AppendRecord(record(1, 1, 4, 100, 10, 10, ts(1))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	got, err := New(repo).Suggest(1, 5, 10)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindNone {
		t.Errorf("kind = %v, want none", got.Kind)
	}
}

func TestSuggestLowerAchievingTempoWins(t *testing.T) {
	repo := newStore(t)
	// Both achieve >= 90%; the slower tempo is the suggestion.
	if err := repo.AppendRecord(record(1, 1, 8, 100, 10, 9, ts(1))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}
	if err := repo.AppendRecord(record(1, 1, 8, 120, 10, 10, ts(2))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	got, err := New(repo).Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindAchieved {
		t.Fatalf("kind = %v, want achieved", got.Kind)
	}
	if got.Tempo == nil || *got.Tempo != 100 {
		t.Errorf("tempo = %v, want 100", got.Tempo)
	}
	if len(got.BottleneckBars) != 8 {
		t.Errorf("bottleneck bars = %v, want all of 1..8", got.BottleneckBars)
	}
	if len(got.GapBars) != 0 {
		t.Errorf("gap bars = %v, want none", got.GapBars)
	}
}

func TestSuggestBottleneckAndGapBars(t *testing.T) {
	repo := newStore(t)
	// Bars 1-4 achieved at 120, bars 5-6 achieved at 100, bars 7-8 never
	// achieved. Bottleneck is 100 on bars 5 and 6.
	if err := repo.AppendRecord(record(1, 1, 4, 120, 10, 10, ts(1))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}
	if err := repo.AppendRecord(record(1, 5, 6, 100, 10, 9, ts(2))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}
	if err := repo.AppendRecord(record(1, 7, 8, 160, 10, 3, ts(3))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	got, err := New(repo).Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindAchieved {
		t.Fatalf("kind = %v, want achieved", got.Kind)
	}
	if got.Tempo == nil || *got.Tempo != 100 {
		t.Errorf("tempo = %v, want 100", got.Tempo)
	}
	if len(got.BottleneckBars) != 2 || got.BottleneckBars[0] != 5 || got.BottleneckBars[1] != 6 {
		t.Errorf("bottleneck bars = %v, want [5 6]", got.BottleneckBars)
	}
	if len(got.GapBars) != 2 || got.GapBars[0] != 7 || got.GapBars[1] != 8 {
		t.Errorf("gap bars = %v, want [7 8]", got.GapBars)
	}
}

func TestSuggestLatestFallback(t *testing.T) {
	repo := newStore(t)
	// 2/5 = 40%, below the achieving threshold.
	if err := repo.AppendRecord(record(1, 1, 8, 140, 5, 2, ts(1))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	got, err := New(repo).Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindLatest {
		t.Fatalf("kind = %v, want latest", got.Kind)
	}
	if got.Tempo == nil || *got.Tempo != 140 {
		t.Errorf("tempo = %v, want 140", got.Tempo)
	}
	if got.Latest == nil {
		t.Fatal("latest detail missing")
	}
	if got.Latest.Ratio != 0.4 {
		t.Errorf("ratio = %v, want 0.4", got.Latest.Ratio)
	}
	if got.Latest.BarStart != 1 || got.Latest.BarEnd != 8 {
		t.Errorf("latest bars = [%d,%d], want [1,8]", got.Latest.BarStart, got.Latest.BarEnd)
	}
}

func TestSuggestLatestPicksMostRecentThenSlowest(t *testing.T) {
	repo := newStore(t)
	// All below threshold. Day 3 is most recent; within that group the
	// slower tempo (130) is the conservative pick.
	if err := repo.AppendRecord(record(1, 1, 8, 110, 5, 1, ts(1))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}
	if err := repo.AppendRecord(record(1, 1, 8, 150, 5, 2, ts(3))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}
	if err := repo.AppendRecord(record(1, 1, 8, 130, 5, 2, ts(3))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	got, err := New(repo).Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindLatest {
		t.Fatalf("kind = %v, want latest", got.Kind)
	}
	if got.Tempo == nil || *got.Tempo != 130 {
		t.Errorf("tempo = %v, want 130", got.Tempo)
	}
}

func TestSuggestAchievedBeatsLatest(t *testing.T) {
	repo := newStore(t)
	// One achieving record anywhere in the range wins over newer failures.
	if err := repo.AppendRecord(record(1, 3, 3, 80, 10, 10, ts(1))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}
	if err := repo.AppendRecord(record(1, 1, 8, 160, 10, 2, ts(5))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	got, err := New(repo).Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindAchieved {
		t.Fatalf("kind = %v, want achieved", got.Kind)
	}
	if got.Tempo == nil || *got.Tempo != 80 {
		t.Errorf("tempo = %v, want 80", got.Tempo)
	}
	if len(got.BottleneckBars) != 1 || got.BottleneckBars[0] != 3 {
		t.Errorf("bottleneck bars = %v, want [3]", got.BottleneckBars)
	}
	if len(got.GapBars) != 7 {
		t.Errorf("gap bars = %v, want the other 7 bars", got.GapBars)
	}
}

func TestSuggestValidatesBarRange(t *testing.T) {
	e := New(newStore(t))

	if _, err := e.Suggest(1, 0, 4); err == nil {
		t.Error("expected error for bar 0")
	}
	if _, err := e.Suggest(1, 5, 4); err == nil {
		t.Error("expected error for reversed range")
	}
}

func TestCacheInvalidation(t *testing.T) {
	repo := newStore(t)
	e := New(repo)

	got, err := e.Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindNone {
		t.Fatalf("kind = %v, want none", got.Kind)
	}

	if err := repo.AppendRecord(record(1, 1, 8, 100, 10, 10, ts(1))); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	// Cached rows still answer until invalidated.
	got, err = e.Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindNone {
		t.Errorf("kind = %v, want none while cache is stale", got.Kind)
	}

	e.Invalidate()
	got, err = e.Suggest(1, 1, 8)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Kind != KindAchieved {
		t.Errorf("kind = %v, want achieved after invalidation", got.Kind)
	}
}
