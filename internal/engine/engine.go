package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/latruncularius/latruncularius/internal/about"
	"github.com/latruncularius/latruncularius/internal/queue"
	"github.com/latruncularius/latruncularius/internal/uci"
)

// State is the engine's process state.
type State int

const (
	// StateRunning is the initial state: reports are being dispatched.
	StateRunning State = iota
	// StateQuitting is terminal: quit was sent and workers are being joined.
	StateQuitting
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateQuitting:
		return "quitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine is the main loop that owns process lifecycle and configuration.
//
// Thread-safety model:
//   - Run must be called from exactly one goroutine, at most once.
//   - The registry is handed to the output writer at start and never mutated.
//   - state and the collaborator are touched only by the Run goroutine.
type Engine struct {
	state    State
	registry *uci.Registry
	uci      *uci.Uci
	reports  *queue.Queue[uci.Report]
	collab   Collaborator
	recorder Recorder
	clock    *Clock

	in  io.Reader
	out io.Writer
	id  uci.Identity
}

// Option configures an Engine.
type Option func(*Engine)

// WithIO replaces stdin/stdout as the protocol streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(e *Engine) {
		e.in = in
		e.out = out
	}
}

// WithRegistry replaces the default option registry.
func WithRegistry(r *uci.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithCollaborator installs the board/search component.
func WithCollaborator(c Collaborator) Option {
	return func(e *Engine) {
		e.collab = c
	}
}

// WithRecorder records every report and control the loop handles.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithIdentity overrides the id name/author reply. Used by tests.
func WithIdentity(id uci.Identity) Option {
	return func(e *Engine) {
		e.id = id
	}
}

// New creates an engine in StateRunning. By default it talks UCI on
// stdin/stdout, registers the default options and has no collaborator.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:    StateRunning,
		registry: NewRegistry(DefaultHashSettings()),
		collab:   NoopCollaborator{},
		clock:    NewClock(),
		in:       os.Stdin,
		out:      os.Stdout,
		id: uci.Identity{
			Name:    about.Engine,
			Version: about.Version,
			Author:  about.Author,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.uci = uci.New(e.in, e.out, e.id)
	return e
}

// State returns the current process state. Safe to call once Run returned.
func (e *Engine) State() State {
	return e.state
}

// Seq returns the sequence number of the last handled message.
func (e *Engine) Seq() int64 {
	return e.clock.Current()
}

// Registry returns the engine's option registry.
func (e *Engine) Registry() *uci.Registry {
	return e.registry
}

// Run starts the protocol goroutines and dispatches reports until quit.
//
// A clean quit returns nil once both goroutines have joined. Any broken
// channel, unreadable input or failed goroutine returns a fatal error; the
// caller is expected to end the process. If ctx is cancelled the writer is
// stopped and ctx.Err() is returned.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"engine", e.id.Name,
		"version", e.id.Version,
		"options", e.registry.Len(),
	)

	e.reports = queue.New[uci.Report]()
	if err := e.uci.Start(e.reports, e.registry); err != nil {
		return fmt.Errorf("start protocol: %w", err)
	}

	if err := e.mainLoop(ctx); err != nil {
		if abortErr := e.uci.Abort(); abortErr != nil {
			err = errors.Join(err, abortErr)
		}
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			slog.Info("engine stopping: context cancelled")
			return ctx.Err()
		}
		slog.Error("engine failed", "error", err)
		return err
	}

	// quit was sent before this point, so the writer will return.
	if err := e.uci.WaitForShutdown(); err != nil {
		slog.Error("protocol shutdown failed", "error", err)
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("engine stopped")
	return nil
}

// mainLoop receives and dispatches reports while the engine is running.
func (e *Engine) mainLoop(ctx context.Context) error {
	for e.state == StateRunning {
		report, err := e.reports.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receive report: %w: %w", uci.ErrBrokenChannel, err)
		}

		if err := e.handleReport(ctx, report); err != nil {
			return err
		}
	}
	return nil
}
