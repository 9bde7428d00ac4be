// ABOUTME: Session log operations for the SQLite backend.
// ABOUTME: Single-statement inserts keep appends atomic for concurrent readers.
package storage

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/harperreed/woodshed/internal/models"
)

// AppendRecord inserts one practice record into the session log.
func (d *DB) AppendRecord(r *models.PracticeRecord) error {
	if r.Reps <= 0 {
		return ErrZeroReps
	}

	_, err := d.db.Exec(`
		INSERT INTO sessions (
			session_id, timestamp_start, timestamp_end, duration_sec,
			song_index, song_name, bar_start, bar_end, bpm, reps, success, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID.String(),
		r.Start.Format(models.TimeLayout),
		r.End.Format(models.TimeLayout),
		math.Round(r.DurationSec*1000)/1000,
		r.SongIndex,
		r.SongName,
		r.BarStart,
		r.BarEnd,
		r.Tempo,
		r.Reps,
		r.Success,
		r.Note,
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// ListRecords returns the records for one song in insertion order.
func (d *DB) ListRecords(songIndex int) ([]*models.PracticeRecord, error) {
	rows, err := d.db.Query(`
		SELECT session_id, timestamp_start, timestamp_end, duration_sec,
		       song_index, song_name, bar_start, bar_end, bpm, reps, success, note
		FROM sessions
		WHERE song_index = ?
		ORDER BY rowid`, songIndex)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// AllRecords returns every record in the log in insertion order.
func (d *DB) AllRecords() ([]*models.PracticeRecord, error) {
	rows, err := d.db.Query(`
		SELECT session_id, timestamp_start, timestamp_end, duration_sec,
		       song_index, song_name, bar_start, bar_end, bpm, reps, success, note
		FROM sessions
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]*models.PracticeRecord, error) {
	var out []*models.PracticeRecord
	for rows.Next() {
		var (
			r          models.PracticeRecord
			id         string
			start, end string
			note       sql.NullString
		)
		if err := rows.Scan(&id, &start, &end, &r.DurationSec,
			&r.SongIndex, &r.SongName, &r.BarStart, &r.BarEnd,
			&r.Tempo, &r.Reps, &r.Success, &note); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if parsed, err := uuid.Parse(id); err == nil {
			r.SessionID = parsed
		}
		if t, ok := models.ParseRecordTime(start); ok {
			r.Start = t
		}
		if t, ok := models.ParseRecordTime(end); ok {
			r.End = t
		}
		r.Note = note.String
		out = append(out, &r)
	}
	return out, rows.Err()
}
