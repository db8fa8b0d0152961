package uci

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/text/unicode/norm"

	"github.com/latruncularius/latruncularius/internal/queue"
)

// Identity is what the engine reports on its "id" lines.
type Identity struct {
	Name    string
	Version string
	Author  string
}

// writer serialises controls to the output stream in receipt order.
type writer struct {
	out      io.Writer
	controls *queue.Queue[Control]
	registry *Registry
	id       Identity
}

// run handles controls until it receives ControlQuit.
func (w *writer) run() error {
	quit := false
	for !quit {
		c, err := w.controls.Dequeue(context.Background())
		if err != nil {
			return fmt.Errorf("receive control: %w: %w", ErrBrokenChannel, err)
		}

		switch c.Kind {
		case ControlIdentify:
			err = w.emit(IdentifyLines(w.id, w.registry)...)
		case ControlReady:
			err = w.emit("readyok")
		case ControlInfoString:
			err = w.emit("info string " + norm.NFC.String(c.Text))
		case ControlQuit:
			quit = true
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// emit writes each line as one complete write.
func (w *writer) emit(lines ...string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w.out, line+"\n"); err != nil {
			if isBrokenPipe(err) {
				return fmt.Errorf("%w: controller closed the pipe: %w", ErrWriteOutput, err)
			}
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	return nil
}

// IdentifyLines is the full reply to "uci": id lines, one line per option in
// registration order, then uciok.
func IdentifyLines(id Identity, registry *Registry) []string {
	lines := make([]string, 0, registry.Len()+3)
	lines = append(lines,
		fmt.Sprintf("id name %s %s", id.Name, id.Version),
		fmt.Sprintf("id author %s", id.Author),
	)
	lines = append(lines, registry.Lines()...)
	return append(lines, "uciok")
}

func isBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
