/*
Package tracer is the contract between this process and the structural
source-rewriting passes that prepare a submission for tracing.

Three independent passes rewrite the program text before it reaches the
sandbox; none of them live in this repository. Each targets one hook family:

  - the function-boundary pass wraps every function body so it calls
    Tracer.enterFunc(id, name, start, end) on entry, Tracer.exitFunc on
    normal return, and Tracer.errorFunc(message, id, name, start, end) from a
    catch block around the body;
  - the loop pass inserts Tracer.iterateLoop() exactly once per iteration of
    every loop, before any body side effects that matter for visualization,
    so a runaway loop is interrupted promptly;
  - the console pass rewrites console.log/warn/error call sites to the
    Tracer equivalents (the sandbox's console object forwards to the same
    hooks, so un-rewritten calls behave identically).

Passes label call sites with ids minted by the injected nextId() generator.
Those synthetic ids live in their own namespace; they are never mixed with
the async ids the scheduler assigns.

iterateLoop doubles as the cooperative limit check: it burns one tick of the
event budget per iteration and trips EarlyTermination when the 5-second clock
or the event ceiling is exceeded.
*/
package tracer
