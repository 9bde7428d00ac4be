// ABOUTME: Tests for the session log file watcher.
// ABOUTME: Verifies change callbacks fire for appends by another store.
package storage

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWatchFileSeesExternalAppend(t *testing.T) {
	dir := t.TempDir()

	s, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("NewCSVStore failed: %v", err)
	}
	defer s.Close()

	var hits atomic.Int64
	w, err := WatchFile(s.SessionsPath(), func() { hits.Add(1) })
	if err != nil {
		t.Fatalf("WatchFile failed: %v", err)
	}
	defer w.Close()

	if err := s.AppendRecord(testRecord(1, 1, 8, 100, 10, 9)); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hits.Load() == 0 {
		t.Fatal("watcher never reported the append")
	}
}
