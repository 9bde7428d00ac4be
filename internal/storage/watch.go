// ABOUTME: Filesystem watcher for external session log appends.
// ABOUTME: Notifies long-running processes so cached suggestions get reloaded.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher invokes a callback whenever a watched file is written by another
// process. The MCP server uses it to invalidate the suggestion cache when
// a second woodshed instance appends to the same session log.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// WatchFile watches path and calls onChange after every write or create of
// that file. The parent directory is watched so replaces are seen too.
func WatchFile(path string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	name := filepath.Base(path)

	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange()
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", "err", err)
			}
		}
	}()

	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
