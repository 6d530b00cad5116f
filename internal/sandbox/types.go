package sandbox

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/capability"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/run"
)

// Config defines sandbox construction parameters.
type Config struct {
	Limits     run.Limits
	SourceName string // script name in stack traces, defaults to submission.js
}

// Capabilities is the enumerated set of optional globals injected into the
// execution context, constructed once per run and passed to the constructor.
// The tracer hooks, the restricted console, the synthetic-id generator and
// the scheduling primitives are always present; everything here is opt-in.
// Nothing else is reachable: no filesystem, no process, no module loading.
type Capabilities struct {
	Fetch   *capability.Fetch
	Util    *capability.Util
	Console bool
}

// DefaultCapabilities enables everything.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Fetch:   capability.NewFetch(),
		Util:    capability.NewUtil(),
		Console: true,
	}
}

// ErrCeiling reports that the preemptive wall-clock stop fired while the
// loop was idle, outside any VM execution.
var ErrCeiling = errors.New("execution ceiling exceeded")

// RejectionError surfaces a promise rejected with no handler by the time the
// program ran out of work.
type RejectionError struct {
	Reason goja.Value
}

func (e *RejectionError) Error() string {
	if e.Reason == nil {
		return "unhandled promise rejection"
	}
	return fmt.Sprintf("unhandled promise rejection: %s", e.Reason.String())
}
