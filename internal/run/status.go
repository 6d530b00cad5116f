package run

// Status is the terminal state of one traced execution. The three outcomes
// are mutually exclusive and final.
type Status int

const (
	// StatusCompleted means the program ran to natural completion.
	StatusCompleted Status = iota
	// StatusTerminated means a resource limit deliberately halted the run.
	StatusTerminated
	// StatusFaulted means an exception escaped the sandbox.
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusTerminated:
		return "terminated"
	case StatusFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// ExitCode maps a status to the process exit contract: 0 is reserved for
// natural completion.
func (s Status) ExitCode() int {
	if s == StatusCompleted {
		return 0
	}
	return 1
}

// Result is what the supervisor hands back to its caller instead of ending
// the host process itself, so embedding contexts decide how to react.
type Result struct {
	Status Status
	Err    error
}
