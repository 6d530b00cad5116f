// Package run holds per-session execution state: the event counter, the
// synthetic-id counter, resource limits and the terminal status taxonomy.
package run

import (
	"time"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/stream"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

// State is the mutable record of one traced execution. It is owned by a
// single session and mutated only from the goroutine running the sandbox, so
// it carries no locks. Initialized once at run start and never reset mid-run.
type State struct {
	start         time.Time
	eventCount    int
	nextSynthetic int64
	terminated    bool
	sink          stream.Sink
}

// NewState starts the run clock and binds the outbound sink.
func NewState(sink stream.Sink) *State {
	return &State{start: time.Now(), sink: sink}
}

// Post sends one event down the channel and counts it. Once the run is
// terminated all further posts are dropped: the terminal event is the last
// one a consumer ever sees.
func (s *State) Post(ev trace.Event) {
	if s.terminated {
		return
	}
	s.eventCount++
	// Sink failures are not recoverable mid-run and must not disturb event
	// ordering; the consumer side detects truncation by the missing terminal
	// event.
	_ = s.sink.Send(ev)
}

// PostTerminal posts ev and seals the run. Exactly one terminal event per
// run.
func (s *State) PostTerminal(ev trace.Event) {
	s.Post(ev)
	s.terminated = true
}

// Tick counts one loop-iteration against the event budget without posting
// anything. A runaway loop burns through the budget even when its body emits
// no visible events.
func (s *State) Tick() {
	s.eventCount++
}

// NextSyntheticID mints a call-site label for the instrumentation passes.
// Synthetic ids live in their own namespace and are never mixed with the
// async ids the hooks registry assigns.
func (s *State) NextSyntheticID() int64 {
	s.nextSynthetic++
	return s.nextSynthetic
}

func (s *State) Elapsed() time.Duration { return time.Since(s.start) }

func (s *State) EventCount() int { return s.eventCount }

func (s *State) Terminated() bool { return s.terminated }
