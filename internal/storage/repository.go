// ABOUTME: Repository interface for practice log storage.
// ABOUTME: Defines the contract shared by the CSV and SQLite backends.
package storage

import (
	"errors"

	"github.com/harperreed/woodshed/internal/models"
)

// ErrSongNotFound is returned when a song index has no entry.
var ErrSongNotFound = errors.New("song not found")

// ErrSongExists is returned by PutSong for an already-used index.
var ErrSongExists = errors.New("song index already exists")

// ErrZeroReps is returned when a record with reps <= 0 is appended.
// The log only holds completed sessions; an empty session is cancelled,
// never persisted.
var ErrZeroReps = errors.New("record has zero reps")

// Repository is the storage contract for the song index and the practice
// session log. Songs are immutable once created; the session log is
// append-only, so there is no update or delete path for either.
//
// Appends must be atomic with respect to readers: a concurrent read sees
// either a fully written record or none.
type Repository interface {
	// Song index operations. AddSong assigns the next unused positive
	// index; PutSong keeps the caller's index (used by migrate).
	AddSong(name string, beatsPerBar, beatUnit int) (*models.Song, error)
	PutSong(s *models.Song) error
	GetSong(index int) (*models.Song, error)
	ListSongs() ([]*models.Song, error)

	// Session log operations. ListRecords and AllRecords return records
	// in insertion order.
	AppendRecord(r *models.PracticeRecord) error
	ListRecords(songIndex int) ([]*models.PracticeRecord, error)
	AllRecords() ([]*models.PracticeRecord, error)

	// Lifecycle
	Close() error
}
