// ABOUTME: Song index operations for the SQLite backend.
// ABOUTME: Implements Repository song methods with legacy meter defaults.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/woodshed/internal/models"
)

// AddSong inserts a song under the next unused positive index.
func (d *DB) AddSong(name string, beatsPerBar, beatUnit int) (*models.Song, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("add song: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(song_index), 0) + 1 FROM songs`).Scan(&next); err != nil {
		return nil, fmt.Errorf("next song index: %w", err)
	}

	song := models.NewSong(next, name, beatsPerBar, beatUnit)
	if err := insertSong(tx, song); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add song: %w", err)
	}
	return song, nil
}

// PutSong inserts a song keeping the caller's index.
func (d *DB) PutSong(song *models.Song) error {
	var exists int
	err := d.db.QueryRow(`SELECT 1 FROM songs WHERE song_index = ?`, song.Index).Scan(&exists)
	if err == nil {
		return fmt.Errorf("put song %d: %w", song.Index, ErrSongExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("put song: %w", err)
	}
	return insertSong(d.db, song)
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertSong(e execer, song *models.Song) error {
	_, err := e.Exec(`
		INSERT INTO songs (song_index, song_name, beats_per_bar, beat_unit, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		song.Index,
		song.Name,
		song.BeatsPerBar,
		song.BeatUnit,
		song.CreatedAt.Format(models.TimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}
	return nil
}

// GetSong returns the song at the given index.
func (d *DB) GetSong(index int) (*models.Song, error) {
	row := d.db.QueryRow(`
		SELECT song_index, song_name, beats_per_bar, beat_unit, created_at
		FROM songs
		WHERE song_index = ?`, index)

	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %d: %w", index, ErrSongNotFound)
	}
	return song, err
}

// ListSongs returns all songs sorted by index.
func (d *DB) ListSongs() ([]*models.Song, error) {
	rows, err := d.db.Query(`
		SELECT song_index, song_name, beats_per_bar, beat_unit, created_at
		FROM songs
		ORDER BY song_index`)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSong reads one songs row. NULL meter columns (legacy data) default
// to 4/4 rather than failing the row.
func scanSong(row rowScanner) (*models.Song, error) {
	var (
		song      models.Song
		bpb, bu   sql.NullInt64
		createdAt string
	)
	if err := row.Scan(&song.Index, &song.Name, &bpb, &bu, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan song: %w", err)
	}

	song.BeatsPerBar = 4
	if bpb.Valid && bpb.Int64 > 0 {
		song.BeatsPerBar = int(bpb.Int64)
	}
	song.BeatUnit = 4
	if bu.Valid && bu.Int64 > 0 {
		song.BeatUnit = int(bu.Int64)
	}
	if t, ok := models.ParseRecordTime(createdAt); ok {
		song.CreatedAt = t
	}
	return &song, nil
}
