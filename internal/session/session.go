// Package session supervises one traced execution end to end: it assembles
// the state, the sandbox and the outbound sinks, runs the submission inside a
// single fault boundary, and reports a terminal status to its caller instead
// of ending the host process. Multiple independent sessions can run in one
// host; each owns all of its state.
package session

import (
	"context"
	"errors"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/logging"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/run"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/sandbox"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/shared/id"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/stream"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

// Session runs one submission.
type Session struct {
	ID     id.SessionID
	limits run.Limits
	caps   sandbox.Capabilities
	logger *logging.Logger
	state  *run.State
}

// New prepares a session posting to sink. The sink's lifecycle belongs to
// the caller.
func New(limits run.Limits, caps sandbox.Capabilities, sink stream.Sink, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Session{
		ID:     id.NewSession(),
		limits: limits,
		caps:   caps,
		logger: logger,
		state:  run.NewState(sink),
	}
}

// State exposes the run counters for callers that report on the session.
func (s *Session) State() *run.State { return s.state }

// Run executes the instrumented source and classifies the outcome. Exactly
// one of three terminal states comes back: natural completion, enforced
// early termination, or an uncaught fatal error. The terminal event, when
// one applies, has already been posted as the last event of the stream.
func (s *Session) Run(ctx context.Context, source string) run.Result {
	env, err := sandbox.New(sandbox.Config{Limits: s.limits}, s.state, s.caps)
	if err != nil {
		s.logger.Error("sandbox construction failed", zap.String("session", string(s.ID)), zap.Error(err))
		return s.fault(err)
	}

	s.logger.Info("session started", zap.String("session", string(s.ID)))
	result := s.classify(env.Execute(ctx, source))
	s.logger.Info("session finished",
		zap.String("session", string(s.ID)),
		zap.String("status", result.Status.String()),
		zap.Int("events", s.state.EventCount()),
	)
	return result
}

func (s *Session) classify(err error) run.Result {
	if err == nil {
		if s.state.Terminated() {
			// The limit checker tripped on the program's final iteration and
			// the interrupt never got a chance to fire.
			return run.Result{Status: run.StatusTerminated}
		}
		return run.Result{Status: run.StatusCompleted}
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if reason, ok := interrupted.Value().(run.InterruptReason); ok {
			if reason == run.ReasonHardCeiling && !s.state.Terminated() {
				s.state.PostTerminal(trace.EarlyTermination(s.limits.CeilingMessage()))
			}
			return run.Result{Status: run.StatusTerminated, Err: err}
		}
		// Interrupted for a reason we did not raise: treat as fatal.
		return s.fault(err)
	}

	if errors.Is(err, sandbox.ErrCeiling) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if !s.state.Terminated() {
			s.state.PostTerminal(trace.EarlyTermination(s.limits.CeilingMessage()))
		}
		return run.Result{Status: run.StatusTerminated, Err: err}
	}

	return s.fault(err)
}

// fault posts the UncaughtError terminal event. The handler must tolerate
// any shape of error value, including none at all.
func (s *Session) fault(err error) run.Result {
	if !s.state.Terminated() {
		name, stack, message := describe(err)
		s.state.PostTerminal(trace.UncaughtError(name, stack, message))
	}
	return run.Result{Status: run.StatusFaulted, Err: err}
}

func describe(err error) (name, stack, message string) {
	if err == nil {
		return "", "", ""
	}

	var exc *goja.Exception
	if errors.As(err, &exc) {
		val := exc.Value()
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			return "", "", ""
		}
		if obj, ok := val.(*goja.Object); ok {
			return strField(obj, "name"), strField(obj, "stack"), strField(obj, "message")
		}
		return "", "", val.String()
	}

	var rejection *sandbox.RejectionError
	if errors.As(err, &rejection) {
		val := rejection.Reason
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			return "", "", ""
		}
		if obj, ok := val.(*goja.Object); ok {
			return strField(obj, "name"), strField(obj, "stack"), strField(obj, "message")
		}
		return "", "", val.String()
	}

	return "", "", err.Error()
}

func strField(obj *goja.Object, key string) string {
	v := obj.Get(key)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}
