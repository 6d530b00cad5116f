// Package hooks tracks the lifecycle of every scheduler-managed async
// resource (promises, timers, microtasks) and translates the scheduler's
// notification points into trace events.
package hooks

import (
	"github.com/Darkripper214/js-visualizer-9000-server/internal/run"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

// Kind is the tagged resource variant, set once at Init time and matched
// exhaustively afterwards. No runtime introspection on opaque handles.
type Kind int

const (
	// KindOther covers resources that are observed but produce no events,
	// keeping unrelated internal scheduling out of the stream.
	KindOther Kind = iota
	KindPromise
	KindTimeout
	KindMicrotask
)

// Handle is the registry's record of one scheduler-tracked unit.
type Handle struct {
	ID      int64
	Trigger int64
	Kind    Kind
	Label   string
}

// Registry owns the id-to-handle map and assigns the run-unique async ids.
// It is mutated only from the single goroutine executing the session, exactly
// at the points the scheduler reaches the notification hooks.
type Registry struct {
	state   *run.State
	nextID  int64
	handles map[int64]Handle
	stack   []int64
}

func NewRegistry(state *run.State) *Registry {
	return &Registry{state: state, handles: make(map[int64]Handle)}
}

// Init records a new resource and emits its init event. The trigger is
// whichever resource is currently executing, or zero for top-level code.
// Ids are never reused within a run.
func (r *Registry) Init(kind Kind, label string) int64 {
	r.nextID++
	h := Handle{ID: r.nextID, Trigger: r.Current(), Kind: kind, Label: label}
	r.handles[h.ID] = h

	switch kind {
	case KindPromise:
		r.state.Post(trace.InitPromise(h.ID, h.Trigger))
	case KindTimeout:
		name := label
		if name == "" {
			name = "anonymous"
		}
		r.state.Post(trace.InitTimeout(h.ID, name))
	case KindMicrotask:
		r.state.Post(trace.InitMicrotask(h.ID, h.Trigger))
	}
	return h.ID
}

// Before marks the resource as entering execution. A missing entry is never
// fatal: it degrades to an inert handle that produces no event.
func (r *Registry) Before(id int64) {
	r.stack = append(r.stack, id)
	switch r.lookup(id).Kind {
	case KindPromise:
		r.state.Post(trace.BeforePromise(id))
	case KindTimeout:
		r.state.Post(trace.BeforeTimeout(id))
	case KindMicrotask:
		r.state.Post(trace.BeforeMicrotask(id))
	}
}

// After marks the resource as leaving execution. Timers deliberately emit
// nothing here: one-shot callbacks have no result to report, only the Before
// edge is visible. The execution stack still pops so trigger derivation stays
// balanced.
func (r *Registry) After(id int64) {
	if n := len(r.stack); n > 0 && r.stack[n-1] == id {
		r.stack = r.stack[:n-1]
	}
	switch r.lookup(id).Kind {
	case KindPromise:
		r.state.Post(trace.AfterPromise(id))
	case KindMicrotask:
		r.state.Post(trace.AfterMicrotask(id))
	}
}

// Resolve reports promise settlement. Non-promise kinds are ignored.
func (r *Registry) Resolve(id int64) {
	if r.lookup(id).Kind == KindPromise {
		r.state.Post(trace.ResolvePromise(id))
	}
}

// Destroy drops the handle. Emits nothing and tolerates unknown ids; removal
// is a cleanup nicety, not a correctness requirement, since ids are not
// reused within a run.
func (r *Registry) Destroy(id int64) {
	delete(r.handles, id)
}

// Current is the id of the resource executing right now, or zero.
func (r *Registry) Current() int64 {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	return 0
}

// Lookup returns the recorded handle, or an inert stand-in for unknown ids so
// callers never fail on a missing entry.
func (r *Registry) Lookup(id int64) (Handle, bool) {
	h, ok := r.handles[id]
	if !ok {
		return Handle{ID: id, Kind: KindOther}, false
	}
	return h, true
}

func (r *Registry) lookup(id int64) Handle {
	h, _ := r.Lookup(id)
	return h
}
