// ABOUTME: Backend-to-backend data migration.
// ABOUTME: Copies the song index and session log between CSV and SQLite stores.
package storage

import (
	"fmt"
)

// MigrateStats reports what a migration copied.
type MigrateStats struct {
	Songs   int
	Records int
}

// Migrate copies all songs and records from src into dst, preserving song
// indexes and record order. dst is expected to be empty; an index collision
// aborts the migration.
func Migrate(src, dst Repository) (*MigrateStats, error) {
	stats := &MigrateStats{}

	songs, err := src.ListSongs()
	if err != nil {
		return nil, fmt.Errorf("migrate: read songs: %w", err)
	}
	for _, song := range songs {
		if err := dst.PutSong(song); err != nil {
			return nil, fmt.Errorf("migrate: song %d: %w", song.Index, err)
		}
		stats.Songs++
	}

	records, err := src.AllRecords()
	if err != nil {
		return nil, fmt.Errorf("migrate: read records: %w", err)
	}
	for _, r := range records {
		if err := dst.AppendRecord(r); err != nil {
			return nil, fmt.Errorf("migrate: record %s: %w", r.SessionID, err)
		}
		stats.Records++
	}

	return stats, nil
}
