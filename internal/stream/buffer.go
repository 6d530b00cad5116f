package stream

import "github.com/Darkripper214/js-visualizer-9000-server/internal/trace"

// Buffer retains events in memory, in emission order. Used by the HTTP
// one-shot endpoint and by tests.
type Buffer struct {
	events []trace.Event
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Send(ev trace.Event) error {
	b.events = append(b.events, ev)
	return nil
}

func (b *Buffer) Close() error { return nil }

// Events returns the ordered log accumulated so far.
func (b *Buffer) Events() []trace.Event {
	return b.events
}
