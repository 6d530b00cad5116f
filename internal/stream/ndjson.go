package stream

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

// NDJSON writes one JSON-serialized event per line. Writes are unbuffered so
// a hard stop never truncates already-posted events.
type NDJSON struct {
	w io.Writer
}

// NewNDJSON creates a sink writing newline-delimited JSON to w.
func NewNDJSON(w io.Writer) *NDJSON {
	return &NDJSON{w: w}
}

func (n *NDJSON) Send(ev trace.Event) error {
	b, err := sonic.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = n.w.Write(append(b, '\n'))
	return err
}

func (n *NDJSON) Close() error {
	if c, ok := n.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
