/*
Package trace defines the event taxonomy emitted while a submitted program
executes.

Every event is a tagged {type, payload} record with a fixed payload shape per
kind. Construction functions are pure and total: they never fail and never
validate beyond shaping the payload. Behavior lives elsewhere; this package is
data only.

Event kinds fall into four groups:

  - Console: ConsoleLog, ConsoleWarn, ConsoleError
  - Function boundaries: EnterFunction, ExitFunction, ErrorFunction
  - Async lifecycle: Init/Before/After/Resolve for promises, microtasks and
    timers (timers deliberately have no After counterpart)
  - Terminal: UncaughtError, EarlyTermination

The stream a consumer observes is either a clean sequence ending naturally or
a sequence ending in exactly one terminal event, never a silent truncation.
*/
package trace
