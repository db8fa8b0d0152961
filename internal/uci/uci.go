package uci

import (
	"errors"
	"fmt"
	"io"

	"github.com/latruncularius/latruncularius/internal/queue"
)

// Uci owns the reader and writer goroutines and the control queue.
//
// Thread-safety model:
//   - Start, Send, WaitForShutdown and Abort are called from the engine loop only.
//   - The reader and writer each own their state exclusively.
//   - The Registry is the only value shared between goroutines; it is immutable.
type Uci struct {
	in  io.Reader
	out io.Writer
	id  Identity

	// controls is nil until Start; Send is a no-op while it is nil.
	controls *queue.Queue[Control]

	reader *worker
	writer *worker
}

// New creates a facade bound to the given streams. Nothing runs until Start.
func New(in io.Reader, out io.Writer, id Identity) *Uci {
	return &Uci{in: in, out: out, id: id}
}

// Start spawns the reader, which forwards every report to reports, and the
// writer, which renders controls using registry. It may be called once.
//
// If the reader fails it closes reports, so a consumer blocked on the queue
// wakes up with queue.ErrClosed. If the writer fails it closes the control
// queue, so the next Send reports ErrBrokenChannel.
func (u *Uci) Start(reports *queue.Queue[Report], registry *Registry) error {
	if u.controls != nil {
		return ErrAlreadyStarted
	}

	controls := queue.New[Control]()

	r := newReader(u.in, reports)
	u.reader = spawn("reader", r.run, func() { reports.Close() })

	w := &writer{out: u.out, controls: controls, registry: registry, id: u.id}
	u.writer = spawn("writer", w.run, controls.Close)

	u.controls = controls
	return nil
}

// Send queues a control for the writer. Before Start it does nothing.
func (u *Uci) Send(c Control) error {
	if u.controls == nil {
		return nil
	}
	if !u.controls.Enqueue(c) {
		return fmt.Errorf("send %s control: %w", c.Kind, ErrBrokenChannel)
	}
	return nil
}

// WaitForShutdown blocks until both goroutines have returned and reports any
// that ended abnormally.
//
// Callers must have sent ControlQuit and the reader must have forwarded a
// quit report first; otherwise this blocks forever.
func (u *Uci) WaitForShutdown() error {
	var errs []error
	if u.reader != nil {
		errs = append(errs, u.reader.join())
	}
	if u.writer != nil {
		errs = append(errs, u.writer.join())
	}
	return errors.Join(errs...)
}

// Abort tears the protocol down after a fatal error. The writer is stopped
// and joined. The reader is joined only if it has already returned: a reader
// blocked on input cannot be interrupted and is left to process exit.
func (u *Uci) Abort() error {
	if u.controls == nil {
		return nil
	}
	u.controls.Close()

	var errs []error
	if u.reader.finished() {
		errs = append(errs, u.reader.join())
	}
	// The writer ends with queue.ErrClosed because of the Close above; only a
	// failure of its own is reported.
	if err := u.writer.join(); err != nil && !errors.Is(err, queue.ErrClosed) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// worker is the join handle of one protocol goroutine.
type worker struct {
	name string
	done chan struct{}
	err  error
}

// spawn runs fn on a new goroutine. A panic is recovered and recorded as
// ErrWorkerFailed. onFail runs after any abnormal exit, once the worker is
// already joinable.
func spawn(name string, fn func() error, onFail func()) *worker {
	w := &worker{name: name, done: make(chan struct{})}
	go func() {
		defer func() {
			if p := recover(); p != nil {
				w.err = &FatalError{Unit: name, Err: fmt.Errorf("%w: panic: %v", ErrWorkerFailed, p)}
			}
			failed := w.err != nil
			close(w.done)
			if failed && onFail != nil {
				onFail()
			}
		}()
		if err := fn(); err != nil {
			w.err = &FatalError{Unit: name, Err: err}
		}
	}()
	return w
}

// join waits for the goroutine and returns its failure, if any.
func (w *worker) join() error {
	<-w.done
	return w.err
}

func (w *worker) finished() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
