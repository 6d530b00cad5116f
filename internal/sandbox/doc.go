/*
Package sandbox executes instrumented program text in an isolated JavaScript
context using the goja engine.

# Overview

Each Runtime runs exactly one submission. The execution context exposes a
fixed capability set and nothing else:

  - the Tracer hook object and the nextId synthetic-id generator
  - a restricted console whose methods forward to the tracer hooks
  - setTimeout and queueMicrotask, backed by the cooperative scheduler
  - fetch, proxied through a host HTTP client (optional)
  - the `_` collection-utility object (optional)

There is no filesystem, process, or module-loading capability. Executing the
submission is the sole reason any trace event is produced; the Runtime has no
return value of interest.

# Resource controls

Two independent stops protect the host. The cooperative one lives in the
Tracer.iterateLoop hook (5 s / 500 events by default). The preemptive one is
a wall-clock ceiling (6 s by default) that interrupts the VM even when the
submitted code never yields. The ceiling is deliberately looser so the
loop-based check is the one that reports whenever both would fire.

# Promise visibility

A JS prelude wraps the Promise constructor, statics and the then/catch/
finally surface before the submission runs, reporting init/before/after/
resolve to the lifecycle registry. Timers and microtasks are registered by
the scheduler itself.
*/
package sandbox
