package run

import (
	"fmt"
	"time"
)

// Limits bounds one traced execution. LoopTimeout and EventLimit are checked
// cooperatively on every instrumented loop iteration; HardCeiling is a
// preemptive VM interrupt that fires even if the submitted code never yields.
type Limits struct {
	LoopTimeout       time.Duration
	EventLimit        int
	HardCeiling       time.Duration
	MaxCallStackDepth int
}

// DefaultLimits returns the fixed production constants.
func DefaultLimits() Limits {
	return Limits{
		LoopTimeout:       5000 * time.Millisecond,
		EventLimit:        500,
		HardCeiling:       6000 * time.Millisecond,
		MaxCallStackDepth: 2048,
	}
}

// TimeoutMessage is the reason reported when the loop clock expires.
func (l Limits) TimeoutMessage() string {
	return fmt.Sprintf("Timeout of %d millis exceeded.", l.LoopTimeout.Milliseconds())
}

// EventLimitMessage is the reason reported when the event budget runs out.
func (l Limits) EventLimitMessage() string {
	return fmt.Sprintf("Event limit of %d exceeded.", l.EventLimit)
}

// CeilingMessage is the reason reported when the preemptive wall-clock stop
// fires before either cooperative check did.
func (l Limits) CeilingMessage() string {
	return fmt.Sprintf("Execution ceiling of %d millis exceeded.", l.HardCeiling.Milliseconds())
}

// InterruptReason is carried through the VM interrupt so the supervisor can
// tell a deliberate halt from a genuine fault.
type InterruptReason int

const (
	ReasonLoopTimeout InterruptReason = iota
	ReasonEventLimit
	ReasonHardCeiling
)

func (r InterruptReason) String() string {
	switch r {
	case ReasonLoopTimeout:
		return "loop timeout"
	case ReasonEventLimit:
		return "event limit"
	case ReasonHardCeiling:
		return "hard ceiling"
	default:
		return "unknown"
	}
}
