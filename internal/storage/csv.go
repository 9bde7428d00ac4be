// ABOUTME: CSV-backed Repository implementation, the default backend.
// ABOUTME: Header-first UTF-8 files; session appends are buffer-then-flush atomic.
package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/woodshed/internal/models"
)

// File names inside the data directory.
const (
	SongsFileName    = "songs.csv"
	SessionsFileName = "sessions.csv"
)

// SongFields is the songs.csv header, in persisted column order.
var SongFields = []string{
	"song_index", "song_name", "beats_per_bar", "beat_unit", "created_at",
}

// SessionFields is the sessions.csv header, in persisted column order.
var SessionFields = []string{
	"session_id", "timestamp_start", "timestamp_end", "duration_sec",
	"song_index", "song_name", "bar_start", "bar_end", "bpm",
	"reps", "success", "note",
}

// CSVStore provides file-based storage for songs and practice records.
// Each logical record is one CSV row appended under the store lock; the
// row is buffered and flushed in a single write so concurrent readers
// never observe a partial record.
type CSVStore struct {
	dataDir string
	mu      sync.RWMutex
}

// Compile-time check that CSVStore implements Repository.
var _ Repository = (*CSVStore)(nil)

// NewCSVStore creates a CSV-backed store rooted at dataDir, creating the
// directory and header-only files on first use.
func NewCSVStore(dataDir string) (*CSVStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &CSVStore{dataDir: dataDir}
	if err := s.ensureFile(s.songsPath(), SongFields); err != nil {
		return nil, err
	}
	if err := s.ensureFile(s.sessionsPath(), SessionFields); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases resources. For CSVStore this is a no-op.
func (s *CSVStore) Close() error {
	return nil
}

// SessionsPath returns the path of the session log file, for callers that
// watch it for external appends.
func (s *CSVStore) SessionsPath() string {
	return s.sessionsPath()
}

func (s *CSVStore) songsPath() string {
	return filepath.Join(s.dataDir, SongsFileName)
}

func (s *CSVStore) sessionsPath() string {
	return filepath.Join(s.dataDir, SessionsFileName)
}

// ensureFile writes a header-only file if path does not exist yet.
func (s *CSVStore) ensureFile(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// appendRow appends one row to a header-first CSV file. The csv.Writer
// buffers the whole row and Flush hands it to the O_APPEND descriptor in
// one write, so readers see the row all at once or not at all.
func (s *CSVStore) appendRow(path string, header, row []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readRows reads a header-first CSV file into header-keyed maps. Rows
// shorter than the header keep their missing fields absent, which is how
// legacy files without the meter columns come through.
func (s *CSVStore) readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// --- Song index ---

// AddSong appends a song under the next unused positive index.
func (s *CSVStore) AddSong(name string, beatsPerBar, beatUnit int) (*models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	songs, err := s.loadSongs()
	if err != nil {
		return nil, err
	}
	next := 0
	for _, sg := range songs {
		if sg.Index > next {
			next = sg.Index
		}
	}
	song := models.NewSong(next+1, name, beatsPerBar, beatUnit)
	if err := s.writeSong(song); err != nil {
		return nil, err
	}
	return song, nil
}

// PutSong appends a song keeping the caller's index.
func (s *CSVStore) PutSong(song *models.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	songs, err := s.loadSongs()
	if err != nil {
		return err
	}
	for _, sg := range songs {
		if sg.Index == song.Index {
			return fmt.Errorf("put song %d: %w", song.Index, ErrSongExists)
		}
	}
	return s.writeSong(song)
}

func (s *CSVStore) writeSong(song *models.Song) error {
	row := []string{
		strconv.Itoa(song.Index),
		song.Name,
		strconv.Itoa(song.BeatsPerBar),
		strconv.Itoa(song.BeatUnit),
		song.CreatedAt.Format(models.TimeLayout),
	}
	if err := s.appendRow(s.songsPath(), SongFields, row); err != nil {
		return fmt.Errorf("append song: %w", err)
	}
	return nil
}

// GetSong returns the song at the given index.
func (s *CSVStore) GetSong(index int) (*models.Song, error) {
	songs, err := s.ListSongs()
	if err != nil {
		return nil, err
	}
	for _, sg := range songs {
		if sg.Index == index {
			return sg, nil
		}
	}
	return nil, fmt.Errorf("song %d: %w", index, ErrSongNotFound)
}

// ListSongs returns all songs sorted by index. Legacy rows missing the
// meter columns are repaired to 4/4 rather than rejected.
func (s *CSVStore) ListSongs() ([]*models.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadSongs()
}

func (s *CSVStore) loadSongs() ([]*models.Song, error) {
	rows, err := s.readRows(s.songsPath())
	if err != nil {
		return nil, err
	}

	songs := make([]*models.Song, 0, len(rows))
	for _, row := range rows {
		idx, err := strconv.Atoi(row["song_index"])
		if err != nil || idx <= 0 {
			log.Warn("skipping songs row with bad index", "index", row["song_index"])
			continue
		}
		song := &models.Song{
			Index:       idx,
			Name:        row["song_name"],
			BeatsPerBar: intOr(row["beats_per_bar"], 4),
			BeatUnit:    intOr(row["beat_unit"], 4),
		}
		if t, ok := models.ParseRecordTime(row["created_at"]); ok {
			song.CreatedAt = t
		}
		songs = append(songs, song)
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].Index < songs[j].Index })
	return songs, nil
}

// --- Session log ---

// AppendRecord appends one practice record to the session log.
func (s *CSVStore) AppendRecord(r *models.PracticeRecord) error {
	if r.Reps <= 0 {
		return ErrZeroReps
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := []string{
		r.SessionID.String(),
		r.Start.Format(models.TimeLayout),
		r.End.Format(models.TimeLayout),
		formatDuration(r.DurationSec),
		strconv.Itoa(r.SongIndex),
		r.SongName,
		strconv.Itoa(r.BarStart),
		strconv.Itoa(r.BarEnd),
		strconv.Itoa(r.Tempo),
		strconv.Itoa(r.Reps),
		strconv.Itoa(r.Success),
		r.Note,
	}
	if err := s.appendRow(s.sessionsPath(), SessionFields, row); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// ListRecords returns the records for one song in insertion order.
func (s *CSVStore) ListRecords(songIndex int) ([]*models.PracticeRecord, error) {
	all, err := s.AllRecords()
	if err != nil {
		return nil, err
	}
	var out []*models.PracticeRecord
	for _, r := range all {
		if r.SongIndex == songIndex {
			out = append(out, r)
		}
	}
	return out, nil
}

// AllRecords returns every record in the log in insertion order.
func (s *CSVStore) AllRecords() ([]*models.PracticeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.readRows(s.sessionsPath())
	if err != nil {
		return nil, err
	}

	out := make([]*models.PracticeRecord, 0, len(rows))
	for _, row := range rows {
		r := &models.PracticeRecord{
			SongIndex:   intOr(row["song_index"], 0),
			SongName:    row["song_name"],
			BarStart:    intOr(row["bar_start"], 0),
			BarEnd:      intOr(row["bar_end"], 0),
			Tempo:       intOr(row["bpm"], 0),
			Reps:        intOr(row["reps"], 0),
			Success:     intOr(row["success"], 0),
			Note:        row["note"],
			DurationSec: floatOr(row["duration_sec"], 0),
		}
		if id, err := uuid.Parse(row["session_id"]); err == nil {
			r.SessionID = id
		}
		// Unparseable timestamps stay at the zero time; the
		// suggestion engine groups those as oldest.
		if t, ok := models.ParseRecordTime(row["timestamp_start"]); ok {
			r.Start = t
		}
		if t, ok := models.ParseRecordTime(row["timestamp_end"]); ok {
			r.End = t
		}
		out = append(out, r)
	}
	return out, nil
}

// formatDuration renders duration_sec with millisecond precision.
func formatDuration(sec float64) string {
	return strconv.FormatFloat(math.Round(sec*1000)/1000, 'f', 3, 64)
}

func intOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func floatOr(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
