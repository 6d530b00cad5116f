package trace

// Kind identifies one event variant in the trace stream.
type Kind string

const (
	KindConsoleLog   Kind = "ConsoleLog"
	KindConsoleWarn  Kind = "ConsoleWarn"
	KindConsoleError Kind = "ConsoleError"

	KindEnterFunction Kind = "EnterFunction"
	KindExitFunction  Kind = "ExitFunction"
	KindErrorFunction Kind = "ErrorFunction"

	KindInitPromise    Kind = "InitPromise"
	KindResolvePromise Kind = "ResolvePromise"
	KindBeforePromise  Kind = "BeforePromise"
	KindAfterPromise   Kind = "AfterPromise"

	KindInitMicrotask   Kind = "InitMicrotask"
	KindBeforeMicrotask Kind = "BeforeMicrotask"
	KindAfterMicrotask  Kind = "AfterMicrotask"

	KindInitTimeout   Kind = "InitTimeout"
	KindBeforeTimeout Kind = "BeforeTimeout"

	KindUncaughtError    Kind = "UncaughtError"
	KindEarlyTermination Kind = "EarlyTermination"
)

// Event is an immutable tagged record. Consumers rely on emission order as
// the primary semantic signal, so events are never reordered or batched.
// Unknown future kinds must be tolerated by consumers.
type Event struct {
	Type    Kind        `json:"type"`
	Payload interface{} `json:"payload"`
}

// ConsolePayload carries one rendered console line.
type ConsolePayload struct {
	Message string `json:"message"`
}

// FunctionPayload identifies an instrumented call site by its synthetic id
// and source position span.
type FunctionPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// FunctionErrorPayload is a FunctionPayload plus the caught error text.
type FunctionErrorPayload struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// AsyncInitPayload links a new async resource to the resource that created it.
type AsyncInitPayload struct {
	ID       int64 `json:"id"`
	ParentID int64 `json:"parentId"`
}

// AsyncIDPayload references a previously initialized async resource.
type AsyncIDPayload struct {
	ID int64 `json:"id"`
}

// TimeoutInitPayload records a scheduled timer and its callback's name.
type TimeoutInitPayload struct {
	ID           int64  `json:"id"`
	CallbackName string `json:"callbackName"`
}

// UncaughtErrorPayload describes an exception that escaped the sandbox.
type UncaughtErrorPayload struct {
	Name    string `json:"name"`
	Stack   string `json:"stack"`
	Message string `json:"message"`
}

// TerminationPayload carries the reason for a deliberate early halt.
type TerminationPayload struct {
	Message string `json:"message"`
}

func ConsoleLog(message string) Event {
	return Event{Type: KindConsoleLog, Payload: ConsolePayload{Message: message}}
}

func ConsoleWarn(message string) Event {
	return Event{Type: KindConsoleWarn, Payload: ConsolePayload{Message: message}}
}

func ConsoleError(message string) Event {
	return Event{Type: KindConsoleError, Payload: ConsolePayload{Message: message}}
}

func EnterFunction(id int64, name string, start, end int64) Event {
	return Event{Type: KindEnterFunction, Payload: FunctionPayload{ID: id, Name: name, Start: start, End: end}}
}

func ExitFunction(id int64, name string, start, end int64) Event {
	return Event{Type: KindExitFunction, Payload: FunctionPayload{ID: id, Name: name, Start: start, End: end}}
}

func ErrorFunction(message string, id int64, name string, start, end int64) Event {
	return Event{Type: KindErrorFunction, Payload: FunctionErrorPayload{Message: message, ID: id, Name: name, Start: start, End: end}}
}

func InitPromise(id, parentID int64) Event {
	return Event{Type: KindInitPromise, Payload: AsyncInitPayload{ID: id, ParentID: parentID}}
}

func ResolvePromise(id int64) Event {
	return Event{Type: KindResolvePromise, Payload: AsyncIDPayload{ID: id}}
}

func BeforePromise(id int64) Event {
	return Event{Type: KindBeforePromise, Payload: AsyncIDPayload{ID: id}}
}

func AfterPromise(id int64) Event {
	return Event{Type: KindAfterPromise, Payload: AsyncIDPayload{ID: id}}
}

func InitMicrotask(id, parentID int64) Event {
	return Event{Type: KindInitMicrotask, Payload: AsyncInitPayload{ID: id, ParentID: parentID}}
}

func BeforeMicrotask(id int64) Event {
	return Event{Type: KindBeforeMicrotask, Payload: AsyncIDPayload{ID: id}}
}

func AfterMicrotask(id int64) Event {
	return Event{Type: KindAfterMicrotask, Payload: AsyncIDPayload{ID: id}}
}

func InitTimeout(id int64, callbackName string) Event {
	return Event{Type: KindInitTimeout, Payload: TimeoutInitPayload{ID: id, CallbackName: callbackName}}
}

func BeforeTimeout(id int64) Event {
	return Event{Type: KindBeforeTimeout, Payload: AsyncIDPayload{ID: id}}
}

func UncaughtError(name, stack, message string) Event {
	return Event{Type: KindUncaughtError, Payload: UncaughtErrorPayload{Name: name, Stack: stack, Message: message}}
}

func EarlyTermination(message string) Event {
	return Event{Type: KindEarlyTermination, Payload: TerminationPayload{Message: message}}
}
