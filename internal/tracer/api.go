package tracer

import (
	"github.com/dop251/goja"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/inspect"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/run"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

// API is the fixed set of entry points instrumented code calls into. Every
// hook runs to completion synchronously on the session goroutine before
// returning control to the caller.
type API struct {
	state     *run.State
	limits    run.Limits
	interrupt func(v interface{})
	vm        *goja.Runtime
}

// New binds the hook set to a session's state and limits. The interrupt
// function is the VM's preemption point; the limit checker invokes it to
// abort the submitted program at its next instruction.
func New(state *run.State, limits run.Limits, interrupt func(v interface{})) *API {
	return &API{state: state, limits: limits, interrupt: interrupt}
}

// Bind installs the hook object under the global Tracer name, plus the
// synthetic-id generator the instrumentation passes label call sites with.
func (a *API) Bind(vm *goja.Runtime) error {
	a.vm = vm
	obj := vm.NewObject()
	fns := map[string]func(goja.FunctionCall) goja.Value{
		"enterFunc":   a.enterFunc,
		"exitFunc":    a.exitFunc,
		"errorFunc":   a.errorFunc,
		"log":         a.Log,
		"warn":        a.Warn,
		"error":       a.Error,
		"iterateLoop": a.iterateLoop,
	}
	for name, fn := range fns {
		if err := obj.Set(name, fn); err != nil {
			return err
		}
	}
	if err := vm.Set("Tracer", obj); err != nil {
		return err
	}
	return vm.Set("nextId", a.nextID)
}

func (a *API) nextID(call goja.FunctionCall) goja.Value {
	return a.vm.ToValue(a.state.NextSyntheticID())
}

func (a *API) enterFunc(call goja.FunctionCall) goja.Value {
	a.state.Post(trace.EnterFunction(siteArgs(call, 0)))
	return goja.Undefined()
}

func (a *API) exitFunc(call goja.FunctionCall) goja.Value {
	a.state.Post(trace.ExitFunction(siteArgs(call, 0)))
	return goja.Undefined()
}

// errorFunc reports an exception caught within an instrumented function
// boundary. Function-scoped errors are non-fatal: execution continues.
func (a *API) errorFunc(call goja.FunctionCall) goja.Value {
	message := call.Argument(0).String()
	id, name, start, end := siteArgs(call, 1)
	a.state.Post(trace.ErrorFunction(message, id, name, start, end))
	return goja.Undefined()
}

func (a *API) Log(call goja.FunctionCall) goja.Value {
	a.state.Post(trace.ConsoleLog(inspect.Line(call.Arguments)))
	return goja.Undefined()
}

func (a *API) Warn(call goja.FunctionCall) goja.Value {
	a.state.Post(trace.ConsoleWarn(inspect.Line(call.Arguments)))
	return goja.Undefined()
}

func (a *API) Error(call goja.FunctionCall) goja.Value {
	a.state.Post(trace.ConsoleError(inspect.Line(call.Arguments)))
	return goja.Undefined()
}

// iterateLoop runs once per instrumented loop iteration. Each call burns one
// tick of the event budget and evaluates the termination conditions; the
// timeout is checked first, so when both trip at once the timeout is the
// reason reported.
func (a *API) iterateLoop(call goja.FunctionCall) goja.Value {
	if a.state.Terminated() {
		return goja.Undefined()
	}
	a.state.Tick()

	if a.state.Elapsed() > a.limits.LoopTimeout {
		a.state.PostTerminal(trace.EarlyTermination(a.limits.TimeoutMessage()))
		a.interrupt(run.ReasonLoopTimeout)
		return goja.Undefined()
	}
	if a.state.EventCount() >= a.limits.EventLimit {
		a.state.PostTerminal(trace.EarlyTermination(a.limits.EventLimitMessage()))
		a.interrupt(run.ReasonEventLimit)
	}
	return goja.Undefined()
}

func siteArgs(call goja.FunctionCall, from int) (id int64, name string, start, end int64) {
	id = call.Argument(from).ToInteger()
	name = call.Argument(from + 1).String()
	start = call.Argument(from + 2).ToInteger()
	end = call.Argument(from + 3).ToInteger()
	return
}
