package sandbox

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/hooks"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/loop"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/run"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/tracer"
)

// Runtime wraps a goja VM with the injected capability set and resource
// controls. One Runtime runs one submission; nothing is reset or reused.
type Runtime struct {
	vm       *goja.Runtime
	loop     *loop.Loop
	registry *hooks.Registry
	api      *tracer.API
	config   Config
	state    *run.State

	ceilingHit atomic.Bool
	rejected   map[*goja.Promise]struct{}
}

// New constructs the isolated execution context: a fresh VM, the scheduler,
// the lifecycle registry and the capability set, all bound to one session's
// state.
func New(cfg Config, state *run.State, caps Capabilities) (*Runtime, error) {
	if cfg.SourceName == "" {
		cfg.SourceName = "submission.js"
	}

	vm := goja.New()
	if depth := cfg.Limits.MaxCallStackDepth; depth > 0 {
		vm.SetMaxCallStackSize(depth)
	}

	registry := hooks.NewRegistry(state)
	r := &Runtime{
		vm:       vm,
		loop:     loop.New(vm, registry),
		registry: registry,
		api:      tracer.New(state, cfg.Limits, vm.Interrupt),
		config:   cfg,
		state:    state,
		rejected: make(map[*goja.Promise]struct{}),
	}

	vm.SetPromiseRejectionTracker(func(p *goja.Promise, op goja.PromiseRejectionOperation) {
		switch op {
		case goja.PromiseRejectionReject:
			r.rejected[p] = struct{}{}
		case goja.PromiseRejectionHandle:
			delete(r.rejected, p)
		}
	})

	if err := r.setupGlobals(caps); err != nil {
		return nil, err
	}
	return r, nil
}

// Execute compiles and runs the instrumented program text under the
// wall-clock execution ceiling. It returns nil only on natural completion
// with no dangling unhandled rejection; classification of failures is the
// supervisor's job.
func (r *Runtime) Execute(ctx context.Context, source string) error {
	prg, err := goja.Compile(r.config.SourceName, source, false)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Secondary hard stop, looser than the cooperative loop timeout so the
	// loop-based check wins whenever instrumented code yields at all.
	ceiling := time.AfterFunc(r.config.Limits.HardCeiling, func() {
		r.ceilingHit.Store(true)
		r.vm.Interrupt(run.ReasonHardCeiling)
		cancel()
	})
	defer ceiling.Stop()

	if err := r.loop.Run(ctx, prg); err != nil {
		if r.ceilingHit.Load() && ctx.Err() != nil && err == ctx.Err() {
			return ErrCeiling
		}
		return err
	}

	for p := range r.rejected {
		return &RejectionError{Reason: p.Result()}
	}
	return nil
}

// VM exposes the underlying runtime for tests.
func (r *Runtime) VM() *goja.Runtime { return r.vm }

func (r *Runtime) setupGlobals(caps Capabilities) error {
	// Host escape hatches stay unreachable.
	for _, name := range []string{"require", "process", "module", "exports"} {
		if err := r.vm.Set(name, goja.Undefined()); err != nil {
			return err
		}
	}

	if err := r.api.Bind(r.vm); err != nil {
		return err
	}

	if caps.Console {
		console := r.vm.NewObject()
		console.Set("log", r.api.Log)
		console.Set("info", r.api.Log)
		console.Set("warn", r.api.Warn)
		console.Set("error", r.api.Error)
		if err := r.vm.Set("console", console); err != nil {
			return err
		}
	}

	if err := r.vm.Set("setTimeout", r.setTimeout); err != nil {
		return err
	}
	if err := r.vm.Set("queueMicrotask", r.queueMicrotask); err != nil {
		return err
	}

	if caps.Fetch != nil {
		if err := caps.Fetch.Bind(r.vm, r.loop, r.registry); err != nil {
			return err
		}
	}
	if caps.Util != nil {
		if err := caps.Util.Bind(r.vm); err != nil {
			return err
		}
	}

	return r.installPrelude()
}

// installPrelude runs the promise-wrapping bootstrap with a temporary hooks
// binding, then withdraws the binding so submitted code cannot reach it.
func (r *Runtime) installPrelude() error {
	binding := r.vm.NewObject()
	binding.Set("init", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(r.registry.Init(hooks.KindPromise, ""))
	})
	binding.Set("before", func(call goja.FunctionCall) goja.Value {
		r.registry.Before(call.Argument(0).ToInteger())
		return goja.Undefined()
	})
	binding.Set("after", func(call goja.FunctionCall) goja.Value {
		r.registry.After(call.Argument(0).ToInteger())
		return goja.Undefined()
	})
	binding.Set("resolve", func(call goja.FunctionCall) goja.Value {
		r.registry.Resolve(call.Argument(0).ToInteger())
		return goja.Undefined()
	})

	if err := r.vm.Set("__lifecycle_hooks", binding); err != nil {
		return err
	}
	if _, err := r.vm.RunProgram(preludeProgram); err != nil {
		return fmt.Errorf("prelude: %w", err)
	}
	return r.vm.Set("__lifecycle_hooks", goja.Undefined())
}

func (r *Runtime) setTimeout(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		return goja.Undefined()
	}
	delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
	var args []goja.Value
	if len(call.Arguments) > 2 {
		args = call.Arguments[2:]
	}
	id := r.loop.SetTimeout(fn, delay, callbackName(call.Argument(0)), args...)
	return r.vm.ToValue(id)
}

func (r *Runtime) queueMicrotask(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		return goja.Undefined()
	}
	id := r.loop.QueueMicrotask(fn)
	return r.vm.ToValue(id)
}

func callbackName(v goja.Value) string {
	obj, ok := v.(*goja.Object)
	if !ok {
		return ""
	}
	name := obj.Get("name")
	if name == nil || goja.IsUndefined(name) {
		return ""
	}
	return name.String()
}
