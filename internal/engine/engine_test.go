package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latruncularius/latruncularius/internal/store"
	"github.com/latruncularius/latruncularius/internal/uci"
)

var testIdentity = uci.Identity{Name: "Latruncularius", Version: "0.1.0", Author: "Lucas Hilgert"}

// runEngine runs an engine over the given input and returns its output lines.
// It fails the test if Run does not return in time.
func runEngine(t *testing.T, input string, opts ...Option) (*Engine, []string, error) {
	t.Helper()
	return runEngineOn(t, context.Background(), strings.NewReader(input), opts...)
}

func runEngineOn(t *testing.T, ctx context.Context, in io.Reader, opts ...Option) (*Engine, []string, error) {
	t.Helper()

	var out bytes.Buffer
	opts = append([]Option{WithIO(in, &out), WithIdentity(testIdentity)}, opts...)
	e := New(opts...)

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	select {
	case err := <-done:
		text := strings.TrimSuffix(out.String(), "\n")
		if text == "" {
			return e, nil, err
		}
		return e, strings.Split(text, "\n"), err
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not terminate")
		return nil, nil, nil
	}
}

func TestRun_IdentifyReadyQuit(t *testing.T) {
	e, lines, err := runEngine(t, "uci\nisready\nquit\n")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"id name Latruncularius 0.1.0",
		"id author Lucas Hilgert",
		fmt.Sprintf("option name Hash type spin default 32 min 0 max %d", HashMax()),
		"option name Clear Hash type button",
		"uciok",
		"readyok",
	}, lines)
	assert.Equal(t, StateQuitting, e.State())
}

func TestRun_UnknownCommandHasNoReply(t *testing.T) {
	e, lines, err := runEngine(t, "foobar\nquit\n")
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, StateQuitting, e.State())
}

func TestRun_ExitIsQuit(t *testing.T) {
	e, lines, err := runEngine(t, "isready\nexit\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"readyok"}, lines)
	assert.Equal(t, StateQuitting, e.State())
}

func TestRun_LinesAfterQuitAreNotRead(t *testing.T) {
	_, lines, err := runEngine(t, "quit\nisready\nuci\n")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRun_RepeatedIdentifyIsStable(t *testing.T) {
	_, lines, err := runEngine(t, "uci\nuci\nquit\n")
	require.NoError(t, err)
	require.Len(t, lines, 10)
	assert.Equal(t, lines[:5], lines[5:])
}

func TestRun_InputClosedIsFatal(t *testing.T) {
	e, lines, err := runEngine(t, "isready\n")
	require.Error(t, err)

	assert.ErrorIs(t, err, uci.ErrReadInput)
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, err, uci.ErrBrokenChannel)
	assert.Equal(t, []string{"readyok"}, lines, "replies queued before the failure are written")
	assert.Equal(t, StateRunning, e.State())
}

func TestRun_LongLineIsNotFatal(t *testing.T) {
	collab := &fakeCollaborator{}
	long := "position startpos moves" + strings.Repeat(" g1f3 g8f6 f3g1 f6g8", 60_000)
	require.Greater(t, len(long), 1<<20)

	e, lines, err := runEngine(t, "isready\n"+long+"\nisready\nquit\n", WithCollaborator(collab))
	require.NoError(t, err)

	assert.Equal(t, []string{"readyok", "readyok"}, lines)
	assert.Equal(t, StateQuitting, e.State())
	assert.Len(t, collab.calls, 1)
}

func TestRun_InputClosedReportsOnlyTheReader(t *testing.T) {
	_, _, err := runEngine(t, "isready\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reader: ")
	assert.NotContains(t, err.Error(), "writer: ")
}

func TestRun_OutputFailureIsFatal(t *testing.T) {
	in := strings.NewReader("uci\nisready\nquit\n")
	e := New(WithIO(in, failingWriter{}), WithIdentity(testIdentity))

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, uci.ErrWriteOutput)
}

func TestRun_ContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, _, err := runEngineOn(t, ctx, pr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_CustomRegistry(t *testing.T) {
	reg := NewRegistry(HashSettings{Default: 64, Max: 1024})
	_, lines, err := runEngine(t, "uci\nquit\n", WithRegistry(reg))
	require.NoError(t, err)
	assert.Contains(t, lines, "option name Hash type spin default 64 min 0 max 1024")
}

// fakeCollaborator records the calls made by the dispatch table.
type fakeCollaborator struct {
	calls []string
}

func (f *fakeCollaborator) NewGame() { f.calls = append(f.calls, "newgame") }
func (f *fakeCollaborator) Position(fen string, moves []string) {
	f.calls = append(f.calls, fmt.Sprintf("position %s | %s", fen, strings.Join(moves, ",")))
}
func (f *fakeCollaborator) Search(req SearchRequest) {
	f.calls = append(f.calls, fmt.Sprintf("search %d %d %s %d", req.Mode, req.Depth, req.MoveTime, req.Nodes))
}
func (f *fakeCollaborator) Stop() { f.calls = append(f.calls, "stop") }
func (f *fakeCollaborator) SetOption(name, value string) {
	f.calls = append(f.calls, fmt.Sprintf("setoption %s=%s", name, value))
}

func TestRun_DispatchesToCollaborator(t *testing.T) {
	collab := &fakeCollaborator{}
	input := strings.Join([]string{
		"ucinewgame",
		"position startpos moves e2e4",
		"go depth 6",
		"go movetime 250",
		"go nodes 5000",
		"go infinite",
		"stop",
		"setoption name hash value 128",
		"setoption name Clear Hash",
		"quit",
	}, "\n") + "\n"

	_, lines, err := runEngine(t, input, WithCollaborator(collab))
	require.NoError(t, err)
	assert.Empty(t, lines)

	assert.Equal(t, []string{
		"newgame",
		"position " + uci.StartFEN + " | e2e4",
		"search 2 6 0s 0",
		"search 3 0 250ms 0",
		"search 4 0 0s 5000",
		"search 1 0 0s 0",
		"stop",
		"setoption Hash=128",
		"setoption Clear Hash=",
	}, collab.calls)
}

func TestRun_SetOptionProblemsAreInfoStrings(t *testing.T) {
	collab := &fakeCollaborator{}
	input := "setoption name Ponder value true\nsetoption name Hash value 999999\nsetoption name Hash value big\nsetoption name Hash value\nquit\n"

	_, lines, err := runEngine(t, input, WithCollaborator(collab))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"info string unknown option Ponder",
		"info string invalid value 999999 for option Hash",
		"info string invalid value big for option Hash",
		"info string missing value for option Hash",
	}, lines)
	assert.Empty(t, collab.calls)
}

// memRecorder keeps recorded messages in memory.
type memRecorder struct {
	msgs []store.Message
	err  error
}

func (m *memRecorder) RecordMessage(_ context.Context, msg store.Message) error {
	m.msgs = append(m.msgs, msg)
	return m.err
}

func TestRun_RecordsReportsAndControls(t *testing.T) {
	rec := &memRecorder{}
	_, _, err := runEngine(t, "uci\nfoobar\nisready\nquit\n", WithRecorder(rec))
	require.NoError(t, err)

	assert.Equal(t, []store.Message{
		{Seq: 1, Direction: store.DirectionIn, Kind: "uci", Payload: "uci"},
		{Seq: 2, Direction: store.DirectionOut, Kind: "identify"},
		{Seq: 3, Direction: store.DirectionIn, Kind: "unknown", Payload: "foobar"},
		{Seq: 4, Direction: store.DirectionIn, Kind: "isready", Payload: "isready"},
		{Seq: 5, Direction: store.DirectionOut, Kind: "ready"},
		{Seq: 6, Direction: store.DirectionIn, Kind: "quit", Payload: "quit"},
		{Seq: 7, Direction: store.DirectionOut, Kind: "quit"},
	}, rec.msgs)
}

func TestRun_RecorderFailureIsNotFatal(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	_, lines, err := runEngine(t, "isready\nquit\n", WithRecorder(rec))
	require.NoError(t, err)
	assert.Equal(t, []string{"readyok"}, lines)
	assert.Len(t, rec.msgs, 4)
}

func TestRun_RecordsIntoStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(t.TempDir() + "/session.db")
	require.NoError(t, err)
	defer st.Close()

	sess, err := st.BeginSession(ctx, testIdentity.Name, testIdentity.Version)
	require.NoError(t, err)

	_, _, err = runEngine(t, "uci\nquit\n", WithRecorder(sess))
	require.NoError(t, err)

	msgs, err := st.ReadSession(ctx, sess.ID())
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "identify", msgs[1].Kind)
	assert.Equal(t, store.DirectionOut, msgs[3].Direction)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "quitting", StateQuitting.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }
