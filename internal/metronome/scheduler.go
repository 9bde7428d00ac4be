// ABOUTME: Drift-free beat scheduler that drives the practice metronome.
// ABOUTME: Background loop with absolute deadlines, live updates, and prompt stop.
package metronome

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/woodshed/internal/models"
)

// maxWait bounds each sleep inside the cadence loop so Stop and Update are
// observed well within one beat interval.
const maxWait = 10 * time.Millisecond

// Beat is one cadence event. Index is the position within the current bar;
// Accent marks the first beat of the bar.
type Beat struct {
	Index  int
	Accent bool
}

// Sink receives beat events. A Sink must not block: the cadence loop calls
// it inline and long calls would delay the following beats.
type Sink interface {
	Beat(b Beat) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(b Beat) error

func (f SinkFunc) Beat(b Beat) error { return f(b) }

// Scheduler emits a steady cadence of beat events at a configurable tempo
// and meter. The loop tracks an absolute deadline for the next beat and
// always advances it by exactly one interval, never recomputing from "now",
// so scheduling delays do not accumulate into long-run tempo error.
//
// The tempo/meter pair and the running flag are the only state shared with
// the loop; both sides take the mutex briefly and never hold it across a
// wait.
type Scheduler struct {
	sink Sink

	mu          sync.Mutex
	tempo       int
	beatsPerBar int
	running     bool
	stop        chan struct{}
	done        chan struct{}
}

// New creates a stopped scheduler that delivers beats to sink.
func New(sink Sink) *Scheduler {
	return &Scheduler{
		sink:        sink,
		tempo:       120,
		beatsPerBar: 4,
	}
}

// Start begins the cadence with the given parameters. If the cadence is
// already running this is a no-op; use Update to change a live cadence.
func (s *Scheduler) Start(tempo, beatsPerBar int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.tempo = clampTempo(tempo)
	s.beatsPerBar = clampMeter(beatsPerBar)
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Update atomically replaces the cadence parameters. A running loop picks
// them up no later than its next beat boundary.
func (s *Scheduler) Update(tempo, beatsPerBar int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempo = clampTempo(tempo)
	s.beatsPerBar = clampMeter(beatsPerBar)
}

// Stop requests cadence termination. Idempotent. No beat fires later than
// one beat interval after the call returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stop)
	s.running = false
}

// IsRunning reports whether the cadence loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Params returns the current tempo and meter.
func (s *Scheduler) Params() (tempo, beatsPerBar int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempo, s.beatsPerBar
}

func (s *Scheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	beat := 0
	next := time.Now()
	for {
		select {
		case <-stop:
			return
		default:
		}

		s.mu.Lock()
		tempo, beatsPerBar := s.tempo, s.beatsPerBar
		s.mu.Unlock()

		interval := time.Minute / time.Duration(tempo)

		if now := time.Now(); now.Before(next) {
			wait := next.Sub(now)
			if wait > maxWait {
				wait = maxWait
			}
			timer := time.NewTimer(wait)
			select {
			case <-stop:
				timer.Stop()
				return
			case <-timer.C:
			}
			continue
		}

		b := Beat{Index: beat, Accent: beat%beatsPerBar == 0}
		// Cue failures (no output device, closed stream) never abort
		// the cadence.
		if err := s.sink.Beat(b); err != nil {
			log.Warn("beat cue failed", "err", err)
		}

		beat = (beat + 1) % beatsPerBar
		next = next.Add(interval)
	}
}

func clampTempo(tempo int) int {
	if tempo < models.MinTempo {
		return models.MinTempo
	}
	if tempo > models.MaxTempo {
		return models.MaxTempo
	}
	return tempo
}

func clampMeter(beatsPerBar int) int {
	if beatsPerBar < models.MinBeatsPerBar {
		return models.MinBeatsPerBar
	}
	if beatsPerBar > models.MaxBeatsPerBar {
		return models.MaxBeatsPerBar
	}
	return beatsPerBar
}
