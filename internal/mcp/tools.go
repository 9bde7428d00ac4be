// ABOUTME: MCP tool implementations for the practice tracker boundary.
// ABOUTME: Song index, tempo suggestion, and session lifecycle operations.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/woodshed/internal/models"
	"github.com/harperreed/woodshed/internal/suggest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// add_song
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_song",
		Description: "Add a song to the practice index with its meter",
	}, s.handleAddSong)

	// list_songs
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_songs",
		Description: "List all songs in the practice index",
	}, s.handleListSongs)

	// suggest
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "suggest",
		Description: "Recommend a practice tempo for a bar range of a song, from past sessions",
	}, s.handleSuggest)

	// start_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_session",
		Description: "Start a timed practice session with a metronome cadence",
	}, s.handleStartSession)

	// increment_rep
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "increment_rep",
		Description: "Adjust the rep counter of the active session",
	}, s.handleIncrementRep)

	// increment_success
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "increment_success",
		Description: "Adjust the success counter of the active session",
	}, s.handleIncrementSuccess)

	// finish_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_session",
		Description: "Finish the active session and append one practice record",
	}, s.handleFinishSession)

	// cancel_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "cancel_session",
		Description: "Cancel the active session, persisting nothing",
	}, s.handleCancelSession)

	// list_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_history",
		Description: "List past practice records for a song",
	}, s.handleListHistory)
}

// Tool input/output types

type addSongInput struct {
	Name        string `json:"name" jsonschema:"Song name"`
	BeatsPerBar int    `json:"beats_per_bar,omitempty" jsonschema:"Meter numerator 1-32 (default 4)"`
	BeatUnit    int    `json:"beat_unit,omitempty" jsonschema:"Meter denominator 2 4 or 8 (default 4)"`
}

type songOutput struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Meter   string `json:"meter"`
	Message string `json:"message"`
}

type suggestInput struct {
	SongIndex int `json:"song_index" jsonschema:"Song index"`
	BarStart  int `json:"bar_start" jsonschema:"First bar of the range (1-based)"`
	BarEnd    int `json:"bar_end" jsonschema:"Last bar of the range"`
}

type suggestOutput struct {
	Kind           string  `json:"kind"`
	Tempo          *int    `json:"tempo,omitempty"`
	BottleneckBars []int   `json:"bottleneck_bars,omitempty"`
	GapBars        []int   `json:"gap_bars,omitempty"`
	LatestRatio    float64 `json:"latest_success_ratio,omitempty"`
	LatestStart    string  `json:"latest_started_at,omitempty"`
	Message        string  `json:"message"`
}

type startSessionInput struct {
	SongIndex int    `json:"song_index" jsonschema:"Song index"`
	BarStart  int    `json:"bar_start" jsonschema:"First bar (1-based)"`
	BarEnd    int    `json:"bar_end" jsonschema:"Last bar"`
	Tempo     int    `json:"tempo" jsonschema:"Practice tempo in bpm (1-400)"`
	Note      string `json:"note,omitempty" jsonschema:"Free-text note saved with the record"`
}

type counterInput struct {
	Delta int `json:"delta,omitempty" jsonschema:"Adjustment, default +1"`
}

type counterOutput struct {
	Reps    int    `json:"reps"`
	Success int    `json:"success"`
	Message string `json:"message"`
}

type recordOutput struct {
	SessionID   string  `json:"session_id"`
	SongIndex   int     `json:"song_index"`
	BarStart    int     `json:"bar_start"`
	BarEnd      int     `json:"bar_end"`
	Tempo       int     `json:"tempo"`
	Reps        int     `json:"reps"`
	Success     int     `json:"success"`
	DurationSec float64 `json:"duration_sec"`
	Message     string  `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type listHistoryInput struct {
	SongIndex int `json:"song_index" jsonschema:"Song index"`
	Limit     int `json:"limit,omitempty" jsonschema:"Max results, newest first (default 20)"`
}

// Tool handlers

func (s *Server) handleAddSong(ctx context.Context, req *mcp.CallToolRequest, input addSongInput) (*mcp.CallToolResult, songOutput, error) {
	if input.Name == "" {
		return nil, songOutput{}, fmt.Errorf("song name is required")
	}
	beatsPerBar, beatUnit := input.BeatsPerBar, input.BeatUnit
	if beatsPerBar == 0 {
		beatsPerBar = 4
	}
	if beatUnit == 0 {
		beatUnit = 4
	}
	if err := models.ValidateMeter(beatsPerBar, beatUnit); err != nil {
		return nil, songOutput{}, err
	}

	song, err := s.repo.AddSong(input.Name, beatsPerBar, beatUnit)
	if err != nil {
		return nil, songOutput{}, fmt.Errorf("failed to add song: %w", err)
	}

	return nil, songOutput{
		Index:   song.Index,
		Name:    song.Name,
		Meter:   song.Meter(),
		Message: fmt.Sprintf("Added [%d] %s (%s)", song.Index, song.Name, song.Meter()),
	}, nil
}

func (s *Server) handleListSongs(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	songs, err := s.repo.ListSongs()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list songs: %w", err)
	}
	if len(songs) == 0 {
		return nil, map[string]any{"message": "No songs yet."}, nil
	}

	out := make([]songOutput, 0, len(songs))
	for _, song := range songs {
		out = append(out, songOutput{Index: song.Index, Name: song.Name, Meter: song.Meter()})
	}
	return nil, out, nil
}

func (s *Server) handleSuggest(ctx context.Context, req *mcp.CallToolRequest, input suggestInput) (*mcp.CallToolResult, suggestOutput, error) {
	sug, err := s.engine.Suggest(input.SongIndex, input.BarStart, input.BarEnd)
	if err != nil {
		return nil, suggestOutput{}, err
	}

	out := suggestOutput{
		Kind:           string(sug.Kind),
		Tempo:          sug.Tempo,
		BottleneckBars: sug.BottleneckBars,
		GapBars:        sug.GapBars,
	}
	switch sug.Kind {
	case suggest.KindNone:
		out.Message = "No past records overlap this range."
	case suggest.KindAchieved:
		out.Message = fmt.Sprintf("Suggested tempo %d bpm from 90%% achieving records; bottleneck bars %v.",
			*sug.Tempo, sug.BottleneckBars)
	case suggest.KindLatest:
		if sug.Tempo == nil {
			out.Message = "Overlapping records exist but none are usable for a suggestion."
			break
		}
		out.LatestRatio = sug.Latest.Ratio
		out.LatestStart = sug.Latest.Start.Format(models.TimeLayout)
		out.Message = fmt.Sprintf("No bar achieved 90%% yet; latest attempt was %d bpm at %.0f%% success.",
			*sug.Tempo, sug.Latest.Ratio*100)
	}
	return nil, out, nil
}

func (s *Server) handleStartSession(ctx context.Context, req *mcp.CallToolRequest, input startSessionInput) (*mcp.CallToolResult, simpleOutput, error) {
	song, err := s.repo.GetSong(input.SongIndex)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.ctrl.Start(song, input.BarStart, input.BarEnd, input.Tempo, input.Note); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Session started: [%d] %s bars %d-%d at %d bpm (%s).",
			song.Index, song.Name, input.BarStart, input.BarEnd, input.Tempo, song.Meter()),
	}, nil
}

func (s *Server) handleIncrementRep(ctx context.Context, req *mcp.CallToolRequest, input counterInput) (*mcp.CallToolResult, counterOutput, error) {
	delta := input.Delta
	if delta == 0 {
		delta = 1
	}
	if err := s.ctrl.AddRep(delta); err != nil {
		return nil, counterOutput{}, err
	}
	reps, success := s.ctrl.Counters()
	return nil, counterOutput{
		Reps:    reps,
		Success: success,
		Message: fmt.Sprintf("Reps %d, success %d.", reps, success),
	}, nil
}

func (s *Server) handleIncrementSuccess(ctx context.Context, req *mcp.CallToolRequest, input counterInput) (*mcp.CallToolResult, counterOutput, error) {
	delta := input.Delta
	if delta == 0 {
		delta = 1
	}
	if err := s.ctrl.AddSuccess(delta); err != nil {
		return nil, counterOutput{}, err
	}
	reps, success := s.ctrl.Counters()
	return nil, counterOutput{
		Reps:    reps,
		Success: success,
		Message: fmt.Sprintf("Reps %d, success %d.", reps, success),
	}, nil
}

func (s *Server) handleFinishSession(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, recordOutput, error) {
	rec, err := s.ctrl.Finish()
	if err != nil {
		return nil, recordOutput{}, err
	}
	return nil, recordOutput{
		SessionID:   rec.SessionID.String(),
		SongIndex:   rec.SongIndex,
		BarStart:    rec.BarStart,
		BarEnd:      rec.BarEnd,
		Tempo:       rec.Tempo,
		Reps:        rec.Reps,
		Success:     rec.Success,
		DurationSec: rec.DurationSec,
		Message: fmt.Sprintf("Saved: %d/%d at %d bpm over %.1fs.",
			rec.Success, rec.Reps, rec.Tempo, rec.DurationSec),
	}, nil
}

func (s *Server) handleCancelSession(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, simpleOutput, error) {
	s.ctrl.Cancel()
	return nil, simpleOutput{Message: "Session cancelled; nothing was saved."}, nil
}

func (s *Server) handleListHistory(ctx context.Context, req *mcp.CallToolRequest, input listHistoryInput) (*mcp.CallToolResult, any, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	records, err := s.repo.ListRecords(input.SongIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list records: %w", err)
	}
	if len(records) == 0 {
		return nil, map[string]any{"message": "No practice records for this song."}, nil
	}

	// Newest first.
	out := make([]recordOutput, 0, limit)
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		r := records[i]
		out = append(out, recordOutput{
			SessionID:   r.SessionID.String(),
			SongIndex:   r.SongIndex,
			BarStart:    r.BarStart,
			BarEnd:      r.BarEnd,
			Tempo:       r.Tempo,
			Reps:        r.Reps,
			Success:     r.Success,
			DurationSec: r.DurationSec,
		})
	}
	return nil, out, nil
}
