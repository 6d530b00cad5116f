package stream

import (
	"fmt"
	"os"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/inspect"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

// Mirror is the human-readable side channel: an append-only file, truncated
// when the session starts, one line per posted event.
type Mirror struct {
	f *os.File
}

// OpenMirror truncates (or creates) the file at path.
func OpenMirror(path string) (*Mirror, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open mirror: %w", err)
	}
	return &Mirror{f: f}, nil
}

func (m *Mirror) Send(ev trace.Event) error {
	_, err := fmt.Fprintf(m.f, "%s %s\n", ev.Type, inspect.Payload(ev.Payload))
	return err
}

func (m *Mirror) Close() error {
	return m.f.Close()
}
