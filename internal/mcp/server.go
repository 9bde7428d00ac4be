// ABOUTME: MCP server setup for the practice tracker.
// ABOUTME: Exposes the session, suggestion, and song index boundary as tools.
package mcp

import (
	"context"

	"github.com/harperreed/woodshed/internal/metronome"
	"github.com/harperreed/woodshed/internal/session"
	"github.com/harperreed/woodshed/internal/storage"
	"github.com/harperreed/woodshed/internal/suggest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with the practice core.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	engine    *suggest.Engine
	sched     *metronome.Scheduler
	ctrl      *session.Controller
	watcher   *storage.Watcher
}

// NewServer creates an MCP server over repo. Beats from a running session
// go to sink; stdout belongs to the protocol, so callers pass a sink that
// writes elsewhere.
func NewServer(repo storage.Repository, sink metronome.Sink) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "woodshed",
			Version: "1.0.0",
		},
		nil,
	)

	engine := suggest.New(repo)
	sched := metronome.New(sink)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		engine:    engine,
		sched:     sched,
		ctrl:      session.New(repo, sched, engine.Invalidate),
	}

	// For the file backend, appends by a second woodshed process also
	// invalidate the cached suggestion rows.
	if csv, ok := repo.(*storage.CSVStore); ok {
		w, err := storage.WatchFile(csv.SessionsPath(), engine.Invalidate)
		if err != nil {
			return nil, err
		}
		s.watcher = w
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Close stops the session, the cadence, and the log watcher.
func (s *Server) Close() error {
	s.ctrl.Cancel()
	s.sched.Stop()
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
