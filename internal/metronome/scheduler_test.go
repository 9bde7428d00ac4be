// ABOUTME: Tests for the beat scheduler.
// ABOUTME: Covers drift, accent pattern, live updates, stop latency, and cue errors.
package metronome

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// collector records beats with their arrival times.
type collector struct {
	mu    sync.Mutex
	beats []Beat
	times []time.Time
}

func (c *collector) Beat(b Beat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beats = append(c.beats, b)
	c.times = append(c.times, time.Now())
	return nil
}

func (c *collector) snapshot() ([]Beat, []time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Beat(nil), c.beats...), append([]time.Time(nil), c.times...)
}

func waitForBeats(t *testing.T, c *collector, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		beats, _ := c.snapshot()
		if len(beats) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	beats, _ := c.snapshot()
	t.Fatalf("got %d beats, wanted %d within %v", len(beats), n, timeout)
}

func TestAccentPattern(t *testing.T) {
	c := &collector{}
	s := New(c)

	s.Start(400, 3)
	defer s.Stop()
	waitForBeats(t, c, 7, 5*time.Second)
	s.Stop()

	beats, _ := c.snapshot()
	for i, b := range beats[:7] {
		wantAccent := i%3 == 0
		if b.Accent != wantAccent {
			t.Errorf("beat %d accent = %v, want %v", i, b.Accent, wantAccent)
		}
		if b.Index != i%3 {
			t.Errorf("beat %d index = %d, want %d", i, b.Index, i%3)
		}
	}
}

func TestNoCumulativeDrift(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	c := &collector{}
	s := New(c)

	const tempo = 300 // 200ms interval
	const n = 15
	s.Start(tempo, 4)
	defer s.Stop()
	waitForBeats(t, c, n, 10*time.Second)
	s.Stop()

	_, times := c.snapshot()
	interval := time.Minute / time.Duration(tempo)

	// Long-run check: the span of N beats stays within one interval of
	// N*interval. Individual beats may jitter; the error must not grow.
	span := times[n-1].Sub(times[0])
	want := time.Duration(n-1) * interval
	diff := span - want
	if diff < 0 {
		diff = -diff
	}
	if diff > interval {
		t.Errorf("span of %d beats = %v, want %v +/- %v", n, span, want, interval)
	}
}

func TestUpdateTakesEffectByNextBeat(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	c := &collector{}
	s := New(c)

	s.Start(60, 4) // 1s interval
	defer s.Stop()
	waitForBeats(t, c, 1, 3*time.Second)

	s.Update(400, 4) // 150ms interval
	updated := time.Now()

	waitForBeats(t, c, 5, 5*time.Second)
	s.Stop()

	_, times := c.snapshot()
	// After the beat boundary following the update, spacing must reflect
	// the new tempo. Find the first gap after the update time.
	for i := 1; i < len(times); i++ {
		if times[i-1].Before(updated) {
			continue
		}
		gap := times[i].Sub(times[i-1])
		if gap > 600*time.Millisecond {
			t.Errorf("gap after update = %v, want ~150ms", gap)
		}
	}
}

func TestStopBoundsLatency(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	c := &collector{}
	s := New(c)

	s.Start(120, 4) // 500ms interval
	waitForBeats(t, c, 1, 3*time.Second)

	s.Stop()
	stopped := time.Now()
	if s.IsRunning() {
		t.Error("IsRunning true after Stop")
	}

	interval := 500 * time.Millisecond
	time.Sleep(2 * interval)

	_, times := c.snapshot()
	for _, ts := range times {
		if ts.After(stopped.Add(interval)) {
			t.Errorf("beat fired %v after Stop, limit is one interval", ts.Sub(stopped))
		}
	}
}

func TestStartWhileRunningIsNoOp(t *testing.T) {
	c := &collector{}
	s := New(c)

	s.Start(200, 4)
	defer s.Stop()
	if !s.IsRunning() {
		t.Fatal("not running after Start")
	}

	// Second Start must not replace live parameters.
	s.Start(50, 3)
	tempo, meter := s.Params()
	if tempo != 200 || meter != 4 {
		t.Errorf("params after redundant Start = %d/%d, want 200/4", tempo, meter)
	}
}

func TestStopIdempotent(t *testing.T) {
	s := New(SinkFunc(func(Beat) error { return nil }))
	s.Stop() // never started
	s.Start(200, 4)
	s.Stop()
	s.Stop() // double stop must not panic
	if s.IsRunning() {
		t.Error("still running after Stop")
	}
}

func TestParameterClamping(t *testing.T) {
	s := New(SinkFunc(func(Beat) error { return nil }))
	s.Update(0, 0)
	tempo, meter := s.Params()
	if tempo != 1 || meter != 1 {
		t.Errorf("params = %d/%d, want clamped to 1/1", tempo, meter)
	}
	s.Update(9999, 99)
	tempo, meter = s.Params()
	if tempo != 400 || meter != 32 {
		t.Errorf("params = %d/%d, want clamped to 400/32", tempo, meter)
	}
}

func TestCueErrorsDoNotAbortCadence(t *testing.T) {
	c := &collector{}
	failing := SinkFunc(func(b Beat) error {
		_ = c.Beat(b)
		return errors.New("device unavailable")
	})

	s := New(failing)
	s.Start(400, 4)
	defer s.Stop()
	waitForBeats(t, c, 4, 5*time.Second)

	if !s.IsRunning() {
		t.Error("cadence aborted by cue errors")
	}
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	sink := NewChannelSink(2)
	for i := 0; i < 5; i++ {
		if err := sink.Beat(Beat{Index: i}); err != nil {
			t.Fatalf("Beat returned error: %v", err)
		}
	}

	// Only the first two fit; the rest were dropped without blocking.
	got := 0
	for {
		select {
		case <-sink.Beats():
			got++
			continue
		default:
		}
		break
	}
	if got != 2 {
		t.Errorf("received %d buffered beats, want 2", got)
	}
}
