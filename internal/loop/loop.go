// Package loop is the cooperative scheduler the sandbox exposes to submitted
// code: one-shot timers, a microtask queue and completion injection for
// host-side async capabilities. It never introduces parallelism; callbacks
// run to completion on the single session goroutine, and every scheduled unit
// is registered with the hooks registry so its lifecycle is observable.
package loop

import (
	"context"
	"sort"
	"time"

	"github.com/dop251/goja"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/hooks"
)

type timer struct {
	id   int64
	due  time.Time
	fn   goja.Callable
	args []goja.Value
}

type microtask struct {
	id int64
	fn goja.Callable
}

// Loop drains microtasks before timers, timers in due order, and host
// completions whenever the queues are otherwise idle but work is outstanding.
type Loop struct {
	vm      *goja.Runtime
	hooks   *hooks.Registry
	timers  []timer
	micro   []microtask
	ready   chan func()
	pending int
}

func New(vm *goja.Runtime, reg *hooks.Registry) *Loop {
	return &Loop{vm: vm, hooks: reg, ready: make(chan func(), 16)}
}

// SetTimeout schedules fn once after delay and returns the async id assigned
// to the timer. Insertion is stable for equal deadlines so zero-delay timers
// fire in scheduling order.
func (l *Loop) SetTimeout(fn goja.Callable, delay time.Duration, name string, args ...goja.Value) int64 {
	id := l.hooks.Init(hooks.KindTimeout, name)
	t := timer{id: id, due: time.Now().Add(delay), fn: fn, args: args}
	i := sort.Search(len(l.timers), func(i int) bool { return l.timers[i].due.After(t.due) })
	l.timers = append(l.timers, timer{})
	copy(l.timers[i+1:], l.timers[i:])
	l.timers[i] = t
	return id
}

// QueueMicrotask schedules fn ahead of all timers and returns its async id.
func (l *Loop) QueueMicrotask(fn goja.Callable) int64 {
	id := l.hooks.Init(hooks.KindMicrotask, "")
	l.micro = append(l.micro, microtask{id: id, fn: fn})
	return id
}

// AddPending records one outstanding host-side operation. Must be called on
// the loop goroutine before the operation leaves it.
func (l *Loop) AddPending() {
	l.pending++
}

// Complete hands a completion back to the loop goroutine. Safe to call from
// any goroutine; fn runs on the loop goroutine when the queues go idle or
// sooner.
func (l *Loop) Complete(fn func()) {
	l.ready <- fn
}

// Run executes the main program and then drains scheduled work until nothing
// remains, the context ends, or a callback fails. goja's own promise job
// queue drains inside each program/callable invocation, so promise reactions
// interleave exactly where the engine runs them.
func (l *Loop) Run(ctx context.Context, prg *goja.Program) error {
	if _, err := l.vm.RunProgram(prg); err != nil {
		return err
	}
	return l.drain(ctx)
}

func (l *Loop) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.runMicrotasks(); err != nil {
			return err
		}

		switch {
		case len(l.timers) > 0:
			t := l.timers[0]
			if wait := time.Until(t.due); wait > 0 {
				if err := l.idle(ctx, wait); err != nil {
					return err
				}
				continue
			}
			l.timers = l.timers[1:]
			if err := l.fire(t); err != nil {
				return err
			}

		case l.pending > 0:
			select {
			case fn := <-l.ready:
				l.pending--
				fn()
			case <-ctx.Done():
				return ctx.Err()
			}

		default:
			return nil
		}
	}
}

func (l *Loop) runMicrotasks() error {
	for len(l.micro) > 0 {
		m := l.micro[0]
		l.micro = l.micro[1:]
		l.hooks.Before(m.id)
		_, err := m.fn(goja.Undefined())
		l.hooks.After(m.id)
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) fire(t timer) error {
	l.hooks.Before(t.id)
	_, err := t.fn(goja.Undefined(), t.args...)
	l.hooks.After(t.id)
	return err
}

// idle sleeps until the next deadline but wakes early for host completions or
// cancellation; the preemptive ceiling cancels the context so the loop never
// outlives the VM interrupt.
func (l *Loop) idle(ctx context.Context, d time.Duration) error {
	wake := time.NewTimer(d)
	defer wake.Stop()
	select {
	case <-wake.C:
		return nil
	case fn := <-l.ready:
		l.pending--
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
