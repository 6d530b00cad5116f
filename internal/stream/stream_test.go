package stream

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

func TestNDJSONOrder(t *testing.T) {
	var buf bytes.Buffer
	sink := NewNDJSON(&buf)

	require.NoError(t, sink.Send(trace.ConsoleLog("1\n")))
	require.NoError(t, sink.Send(trace.ConsoleLog("2\n")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first trace.Event
	require.NoError(t, sonic.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, trace.KindConsoleLog, first.Type)
}

func TestMirrorTruncatesAtOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	require.NoError(t, os.WriteFile(path, []byte("stale line\nanother\n"), 0o644))

	mirror, err := OpenMirror(path)
	require.NoError(t, err)

	require.NoError(t, mirror.Send(trace.BeforeTimeout(3)))
	require.NoError(t, mirror.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, `BeforeTimeout {"id":3}`, lines[0])
}

func TestBufferKeepsOrder(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.Send(trace.InitPromise(1, 0)))
	require.NoError(t, b.Send(trace.ResolvePromise(1)))

	events := b.Events()
	require.Len(t, events, 2)
	assert.Equal(t, trace.KindInitPromise, events[0].Type)
	assert.Equal(t, trace.KindResolvePromise, events[1].Type)
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewBuffer(), NewBuffer()
	m := Multi{a, b}

	require.NoError(t, m.Send(trace.ConsoleLog("x\n")))
	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
	require.NoError(t, m.Close())
}
