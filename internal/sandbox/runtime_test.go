package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dop251/goja"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/run"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/stream"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

func newRuntime(t *testing.T, limits run.Limits) (*Runtime, *stream.Buffer, *run.State) {
	t.Helper()
	buf := stream.NewBuffer()
	state := run.NewState(buf)
	rt, err := New(Config{Limits: limits}, state, DefaultCapabilities())
	if err != nil {
		t.Fatalf("failed to create runtime: %v", err)
	}
	return rt, buf, state
}

func eventKinds(buf *stream.Buffer) []trace.Kind {
	kinds := make([]trace.Kind, 0, len(buf.Events()))
	for _, ev := range buf.Events() {
		kinds = append(kinds, ev.Type)
	}
	return kinds
}

func TestConsoleOnly(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	if err := rt.Execute(context.Background(), `console.log(1); console.log(2);`); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	events := buf.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %v", len(events), eventKinds(buf))
	}
	want := []trace.Event{trace.ConsoleLog("1\n"), trace.ConsoleLog("2\n")}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestInfiniteLoopTripsEventLimit(t *testing.T) {
	limits := run.DefaultLimits()
	limits.EventLimit = 25

	rt, buf, state := newRuntime(t, limits)
	err := rt.Execute(context.Background(), `for(;;){ Tracer.iterateLoop(); }`)

	var interrupted *goja.InterruptedError
	if !errors.As(err, &interrupted) {
		t.Fatalf("Execute() error = %v, want interrupted", err)
	}
	if reason, _ := interrupted.Value().(run.InterruptReason); reason != run.ReasonEventLimit {
		t.Errorf("interrupt reason = %v, want event limit", interrupted.Value())
	}

	events := buf.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want only the termination: %v", len(events), eventKinds(buf))
	}
	if events[0] != trace.EarlyTermination("Event limit of 25 exceeded.") {
		t.Errorf("terminal event = %+v", events[0])
	}
	if !state.Terminated() {
		t.Error("state not terminated")
	}
}

func TestInfiniteLoopTripsTimeout(t *testing.T) {
	limits := run.DefaultLimits()
	limits.LoopTimeout = 50 * time.Millisecond
	limits.EventLimit = 10_000_000
	limits.HardCeiling = 2 * time.Second

	rt, buf, _ := newRuntime(t, limits)
	err := rt.Execute(context.Background(), `for(;;){ Tracer.iterateLoop(); }`)

	var interrupted *goja.InterruptedError
	if !errors.As(err, &interrupted) {
		t.Fatalf("Execute() error = %v, want interrupted", err)
	}
	if reason, _ := interrupted.Value().(run.InterruptReason); reason != run.ReasonLoopTimeout {
		t.Errorf("interrupt reason = %v, want loop timeout", interrupted.Value())
	}

	events := buf.Events()
	last := events[len(events)-1]
	if last != trace.EarlyTermination("Timeout of 50 millis exceeded.") {
		t.Errorf("last event = %+v", last)
	}
}

func TestTimeoutCallbackOrdering(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	err := rt.Execute(context.Background(), `setTimeout(function cb(){ console.log("fired") }, 0);`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	events := buf.Events()
	if len(events) != 3 {
		t.Fatalf("got %d events: %v", len(events), eventKinds(buf))
	}
	if events[0].Type != trace.KindInitTimeout {
		t.Errorf("event 0 = %v, want InitTimeout", events[0].Type)
	}
	if p, ok := events[0].Payload.(trace.TimeoutInitPayload); !ok || p.CallbackName != "cb" {
		t.Errorf("InitTimeout payload = %+v, want callbackName cb", events[0].Payload)
	}
	if events[1].Type != trace.KindBeforeTimeout {
		t.Errorf("event 1 = %v, want BeforeTimeout", events[1].Type)
	}
	if events[2] != trace.ConsoleLog("fired\n") {
		t.Errorf("event 2 = %+v", events[2])
	}
}

func TestPromiseLifecycle(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	err := rt.Execute(context.Background(), `Promise.resolve(42).then(function (v) { console.log(v); });`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []trace.Kind{
		trace.KindInitPromise,    // the resolved source promise
		trace.KindResolvePromise, // settled at creation
		trace.KindInitPromise,    // the derived then-promise
		trace.KindBeforePromise,
		trace.KindConsoleLog,
		trace.KindResolvePromise,
		trace.KindAfterPromise,
	}
	got := eventKinds(buf)
	if len(got) != len(want) {
		t.Fatalf("got kinds %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}

	logged := buf.Events()[4]
	if logged != trace.ConsoleLog("42\n") {
		t.Errorf("console event = %+v", logged)
	}
}

func TestPromiseConstructorTraced(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	err := rt.Execute(context.Background(), `
		new Promise(function (resolve) { resolve('ok'); }).then(function (v) { console.log(v); });
	`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := eventKinds(buf)
	if got[0] != trace.KindInitPromise || got[1] != trace.KindResolvePromise {
		t.Fatalf("constructor promise not traced: %v", got)
	}
	found := false
	for _, ev := range buf.Events() {
		if ev == trace.ConsoleLog("ok\n") {
			found = true
		}
	}
	if !found {
		t.Errorf("then callback output missing: %v", got)
	}
}

func TestMicrotaskBeforeTimer(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	err := rt.Execute(context.Background(), `
		console.log('sync');
		setTimeout(function timer(){ console.log('timer'); }, 0);
		queueMicrotask(function micro(){ console.log('micro'); });
	`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var logs []string
	for _, ev := range buf.Events() {
		if ev.Type == trace.KindConsoleLog {
			logs = append(logs, ev.Payload.(trace.ConsolePayload).Message)
		}
	}
	want := []string{"sync\n", "micro\n", "timer\n"}
	if len(logs) != len(want) {
		t.Fatalf("logs = %v", logs)
	}
	for i := range want {
		if logs[i] != want[i] {
			t.Errorf("log %d = %q, want %q", i, logs[i], want[i])
		}
	}
}

func TestInstrumentedFunctionError(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	// Source shaped the way the rewriting passes emit it: a synthetic id per
	// call site, enter/error/exit hooks around the body.
	err := rt.Execute(context.Background(), `
		var site = nextId();
		function f() {
			Tracer.enterFunc(site, 'f', 12, 40);
			try {
				throw new Error('x');
			} catch (e) {
				Tracer.errorFunc(e.message, site, 'f', 12, 40);
			}
			Tracer.exitFunc(site, 'f', 12, 40);
		}
		f();
	`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []trace.Event{
		trace.EnterFunction(1, "f", 12, 40),
		trace.ErrorFunction("x", 1, "f", 12, 40),
		trace.ExitFunction(1, "f", 12, 40),
	}
	events := buf.Events()
	if len(events) != len(want) {
		t.Fatalf("got %d events: %v", len(events), eventKinds(buf))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestUncaughtThrow(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	err := rt.Execute(context.Background(), `throw new Error('boom');`)

	var exc *goja.Exception
	if !errors.As(err, &exc) {
		t.Fatalf("Execute() error = %v, want exception", err)
	}
	if len(buf.Events()) != 0 {
		t.Errorf("sandbox must not post events for escaping errors (supervisor does): %v", eventKinds(buf))
	}
}

func TestHardCeilingWhileIdle(t *testing.T) {
	limits := run.DefaultLimits()
	limits.HardCeiling = 50 * time.Millisecond

	rt, _, _ := newRuntime(t, limits)
	err := rt.Execute(context.Background(), `setTimeout(function(){ console.log('never'); }, 60000);`)

	if !errors.Is(err, ErrCeiling) {
		t.Fatalf("Execute() error = %v, want ceiling", err)
	}
}

func TestUnhandledRejectionSurfaces(t *testing.T) {
	rt, _, _ := newRuntime(t, run.DefaultLimits())

	err := rt.Execute(context.Background(), `Promise.reject(new Error('nope'));`)

	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("Execute() error = %v, want rejection", err)
	}
}

func TestHandledRejectionIsClean(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	err := rt.Execute(context.Background(), `
		Promise.reject(new Error('nope')).catch(function (e) { console.log('caught', e.message); });
	`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	found := false
	for _, ev := range buf.Events() {
		if ev == trace.ConsoleLog("caught nope\n") {
			found = true
		}
	}
	if !found {
		t.Errorf("catch output missing: %v", eventKinds(buf))
	}
}

func TestDangerousGlobalsUnavailable(t *testing.T) {
	dangerous := []string{
		"require('fs')",
		"process.exit(1)",
		"module.exports = {}",
	}
	for _, src := range dangerous {
		t.Run(src, func(t *testing.T) {
			rt, _, _ := newRuntime(t, run.DefaultLimits())
			if err := rt.Execute(context.Background(), src); err == nil {
				t.Errorf("%q executed successfully", src)
			}
		})
	}
}

func TestFetchCapability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"greeting":"hi"}`)
	}))
	defer srv.Close()

	rt, buf, _ := newRuntime(t, run.DefaultLimits())
	src := fmt.Sprintf(`fetch(%q).then(function (r) { console.log(r.status, r.json.greeting); });`, srv.URL)

	if err := rt.Execute(context.Background(), src); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	found := false
	for _, ev := range buf.Events() {
		if ev == trace.ConsoleLog("200 hi\n") {
			found = true
		}
	}
	if !found {
		t.Errorf("fetch output missing: %v", eventKinds(buf))
	}
}

func TestUnderscoreUtilities(t *testing.T) {
	rt, buf, _ := newRuntime(t, run.DefaultLimits())

	err := rt.Execute(context.Background(), `
		console.log(_.sum([1, 2, 3]));
		console.log(_.mean([2, 4]));
		console.log(_.range(3));
		console.log(_.uniq([1, 1, 2]));
	`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var logs []string
	for _, ev := range buf.Events() {
		logs = append(logs, ev.Payload.(trace.ConsolePayload).Message)
	}
	want := []string{"6\n", "3\n", "[0,1,2]\n", "[1,2]\n"}
	if len(logs) != len(want) {
		t.Fatalf("logs = %v", logs)
	}
	for i := range want {
		if logs[i] != want[i] {
			t.Errorf("log %d = %q, want %q", i, logs[i], want[i])
		}
	}
}

func TestSourcePositionInErrors(t *testing.T) {
	rt, _, _ := newRuntime(t, run.DefaultLimits())
	err := rt.Execute(context.Background(), "\n\nsyntax error here")
	if err == nil || !strings.Contains(err.Error(), "submission.js") {
		t.Errorf("compile error should carry the source name, got %v", err)
	}
}
