// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the songs index and the append-only sessions log.
package storage

// initSchema creates the database schema. The meter columns on songs are
// nullable for parity with legacy song indexes; readers default them to 4.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS songs (
		song_index INTEGER PRIMARY KEY,
		song_name TEXT NOT NULL,
		beats_per_bar INTEGER,
		beat_unit INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		timestamp_start TEXT NOT NULL,
		timestamp_end TEXT NOT NULL,
		duration_sec REAL NOT NULL,
		song_index INTEGER NOT NULL,
		song_name TEXT NOT NULL,
		bar_start INTEGER NOT NULL,
		bar_end INTEGER NOT NULL,
		bpm INTEGER NOT NULL,
		reps INTEGER NOT NULL,
		success INTEGER NOT NULL,
		note TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_song ON sessions(song_index);
	`

	_, err := d.db.Exec(schema)
	return err
}
