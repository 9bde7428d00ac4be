// ABOUTME: Canonical CSV export of the session log.
// ABOUTME: Works against any Repository backend, writing the sessions.csv column order.
package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/harperreed/woodshed/internal/models"
)

// WriteSessionsCSV writes the whole session log to w as header-first CSV
// in the canonical column order, regardless of backend.
func WriteSessionsCSV(repo Repository, w io.Writer) error {
	records, err := repo.AllRecords()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(SessionFields); err != nil {
		return fmt.Errorf("export header: %w", err)
	}
	for _, r := range records {
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
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
