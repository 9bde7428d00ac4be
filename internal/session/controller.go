// ABOUTME: Controller for one timed practice session.
// ABOUTME: Locks parameters, drives the metronome, accumulates counters, persists once.
package session

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/woodshed/internal/metronome"
	"github.com/harperreed/woodshed/internal/models"
	"github.com/harperreed/woodshed/internal/storage"
)

// Controller runs at most one timed practice session at a time. Start
// locks the song, bar range, and tempo; counters accumulate during the
// session; Finish appends exactly one record to the log, Cancel persists
// nothing.
type Controller struct {
	repo     storage.Repository
	sched    *metronome.Scheduler
	onAppend func()

	mu        sync.Mutex
	active    bool
	song      *models.Song
	barStart  int
	barEnd    int
	tempo     int
	note      string
	sessionID uuid.UUID
	startedAt time.Time
	reps      int
	success   int

	// pending holds a computed record whose append failed, so a retried
	// Finish persists it without recomputation.
	pending *models.PracticeRecord

	now func() time.Time
}

// New creates a Controller. onAppend, if non-nil, runs after every
// successful record append (the suggestion cache hooks in here).
func New(repo storage.Repository, sched *metronome.Scheduler, onAppend func()) *Controller {
	return &Controller{
		repo:     repo,
		sched:    sched,
		onAppend: onAppend,
		now:      time.Now,
	}
}

// Start begins a session over bars [barStart, barEnd] of song at the given
// tempo. All validation happens before any state mutation.
func (c *Controller) Start(song *models.Song, barStart, barEnd, tempo int, note string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return fmt.Errorf("session already active: %w", ErrInvalidState)
	}
	if c.pending != nil {
		return fmt.Errorf("unsaved record pending, finish or cancel first: %w", ErrInvalidState)
	}
	if song == nil {
		return fmt.Errorf("no song selected: %w", ErrInvalidInput)
	}
	if barStart <= 0 || barEnd <= 0 {
		return fmt.Errorf("bars are numbered from 1: %w", ErrInvalidInput)
	}
	if barStart > barEnd {
		return fmt.Errorf("bar range %d-%d is reversed: %w", barStart, barEnd, ErrInvalidInput)
	}
	if tempo < models.MinTempo || tempo > models.MaxTempo {
		return fmt.Errorf("tempo %d outside [%d,%d]: %w", tempo, models.MinTempo, models.MaxTempo, ErrInvalidInput)
	}

	c.active = true
	c.song = song
	c.barStart = barStart
	c.barEnd = barEnd
	c.tempo = tempo
	c.note = note
	c.sessionID = uuid.New()
	c.startedAt = c.now()
	c.reps = 0
	c.success = 0

	// A preview cadence may already be audible; keep it going at the
	// session parameters instead of restarting it.
	if c.sched.IsRunning() {
		c.sched.Update(tempo, song.BeatsPerBar)
	} else {
		c.sched.Start(tempo, song.BeatsPerBar)
	}
	return nil
}

// AddRep adjusts the rep counter by delta. Reps never drop below zero and
// success never exceeds reps.
func (c *Controller) AddRep(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return fmt.Errorf("no active session: %w", ErrInvalidState)
	}
	c.reps += delta
	if c.reps < 0 {
		c.reps = 0
	}
	if c.success > c.reps {
		c.success = c.reps
	}
	return nil
}

// AddSuccess adjusts the success counter by delta, clamped to [0, reps].
func (c *Controller) AddSuccess(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return fmt.Errorf("no active session: %w", ErrInvalidState)
	}
	c.success += delta
	if c.success < 0 {
		c.success = 0
	}
	if c.success > c.reps {
		c.success = c.reps
	}
	return nil
}

// ResetCounts zeroes both counters of the active session.
func (c *Controller) ResetCounts() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return fmt.Errorf("no active session: %w", ErrInvalidState)
	}
	c.reps = 0
	c.success = 0
	return nil
}

// UpdateTempo changes the locked tempo of the active session and retunes
// the running cadence.
func (c *Controller) UpdateTempo(tempo int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return fmt.Errorf("no active session: %w", ErrInvalidState)
	}
	if tempo < models.MinTempo || tempo > models.MaxTempo {
		return fmt.Errorf("tempo %d outside [%d,%d]: %w", tempo, models.MinTempo, models.MaxTempo, ErrInvalidInput)
	}
	c.tempo = tempo
	c.sched.Update(tempo, c.song.BeatsPerBar)
	return nil
}

// Finish ends the active session and appends exactly one record. A session
// with zero reps cannot be finished; it must be cancelled. When the append
// fails the computed record is retained and a repeated Finish retries the
// append alone.
func (c *Controller) Finish() (*models.PracticeRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		return c.persistLocked()
	}
	if !c.active {
		return nil, fmt.Errorf("no active session: %w", ErrInvalidState)
	}
	if c.reps <= 0 {
		return nil, fmt.Errorf("zero reps, cancel instead of finishing: %w", ErrInvalidState)
	}
	if c.success > c.reps {
		c.success = c.reps
	}

	c.sched.Stop()

	end := c.now()
	duration := end.Sub(c.startedAt).Seconds()
	c.pending = &models.PracticeRecord{
		SessionID:   c.sessionID,
		Start:       c.startedAt,
		End:         end,
		DurationSec: math.Round(duration*1000) / 1000,
		SongIndex:   c.song.Index,
		SongName:    c.song.Name,
		BarStart:    c.barStart,
		BarEnd:      c.barEnd,
		Tempo:       c.tempo,
		Reps:        c.reps,
		Success:     c.success,
		Note:        c.note,
	}
	c.active = false

	return c.persistLocked()
}

func (c *Controller) persistLocked() (*models.PracticeRecord, error) {
	rec := c.pending
	if err := c.repo.AppendRecord(rec); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	c.pending = nil
	c.resetLocked()
	if c.onAppend != nil {
		c.onAppend()
	}
	return rec, nil
}

// Cancel aborts the session, stopping the cadence and persisting nothing.
// Safe to call when no session is active.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active && c.pending == nil {
		return
	}
	c.sched.Stop()
	c.active = false
	c.pending = nil
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.song = nil
	c.barStart = 0
	c.barEnd = 0
	c.tempo = 0
	c.note = ""
	c.sessionID = uuid.Nil
	c.startedAt = time.Time{}
	c.reps = 0
	c.success = 0
}

// Active reports whether a session is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Counters returns the current rep and success counts.
func (c *Controller) Counters() (reps, success int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reps, c.success
}

// Params returns the locked session parameters.
func (c *Controller) Params() (song *models.Song, barStart, barEnd, tempo int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.song, c.barStart, c.barEnd, c.tempo
}
