package uci

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latruncularius/latruncularius/internal/queue"
)

var testIdentity = Identity{Name: "Latruncularius", Version: "0.1.0", Author: "Lucas Hilgert"}

func testRegistry() *Registry {
	return NewRegistry(Spin("Hash", 32, 0, 65536), Button("Clear Hash"))
}

// runWriter feeds controls to a writer and returns the lines it emitted.
func runWriter(t *testing.T, controls ...Control) ([]string, error) {
	t.Helper()

	q := queue.New[Control]()
	for _, c := range controls {
		require.True(t, q.Enqueue(c))
	}

	var out bytes.Buffer
	w := &writer{out: &out, controls: q, registry: testRegistry(), id: testIdentity}
	err := w.run()

	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil, err
	}
	return strings.Split(text, "\n"), err
}

func TestWriter_Identify(t *testing.T) {
	lines, err := runWriter(t, Control{Kind: ControlIdentify}, Control{Kind: ControlQuit})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"id name Latruncularius 0.1.0",
		"id author Lucas Hilgert",
		"option name Hash type spin default 32 min 0 max 65536",
		"option name Clear Hash type button",
		"uciok",
	}, lines)
}

func TestWriter_IdentifyIsStable(t *testing.T) {
	lines, err := runWriter(t,
		Control{Kind: ControlIdentify},
		Control{Kind: ControlIdentify},
		Control{Kind: ControlQuit},
	)
	require.NoError(t, err)
	require.Len(t, lines, 10)
	assert.Equal(t, lines[:5], lines[5:])
}

func TestWriter_Ready(t *testing.T) {
	lines, err := runWriter(t, Control{Kind: ControlReady}, Control{Kind: ControlQuit})
	require.NoError(t, err)
	assert.Equal(t, []string{"readyok"}, lines)
}

func TestWriter_InfoString(t *testing.T) {
	lines, err := runWriter(t, InfoString("hash cleared"), Control{Kind: ControlQuit})
	require.NoError(t, err)
	assert.Equal(t, []string{"info string hash cleared"}, lines)
}

func TestWriter_PreservesReceiptOrder(t *testing.T) {
	lines, err := runWriter(t,
		Control{Kind: ControlReady},
		InfoString("one"),
		Control{Kind: ControlReady},
		InfoString("two"),
		Control{Kind: ControlQuit},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"readyok", "info string one", "readyok", "info string two"}, lines)
}

func TestWriter_QuitStopsWithoutOutput(t *testing.T) {
	lines, err := runWriter(t, Control{Kind: ControlQuit}, Control{Kind: ControlReady})
	require.NoError(t, err)
	assert.Empty(t, lines, "controls after quit are never handled")
}

func TestWriter_ClosedQueueIsBrokenChannel(t *testing.T) {
	q := queue.New[Control]()
	q.Enqueue(Control{Kind: ControlReady})
	q.Close()

	var out bytes.Buffer
	w := &writer{out: &out, controls: q, registry: testRegistry(), id: testIdentity}
	err := w.run()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBrokenChannel)
	assert.Equal(t, "readyok\n", out.String(), "pending controls are drained first")
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriter_OutputFailure(t *testing.T) {
	q := queue.New[Control]()
	q.Enqueue(Control{Kind: ControlReady})

	w := &writer{out: failingWriter{err: io.ErrClosedPipe}, controls: q, registry: testRegistry(), id: testIdentity}
	err := w.run()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteOutput)
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
}

func TestIdentifyLines_EmptyRegistry(t *testing.T) {
	lines := IdentifyLines(testIdentity, NewRegistry())
	assert.Equal(t, []string{
		"id name Latruncularius 0.1.0",
		"id author Lucas Hilgert",
		"uciok",
	}, lines)
}
