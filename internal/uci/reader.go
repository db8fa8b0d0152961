package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/latruncularius/latruncularius/internal/queue"
)

// reader turns input lines into reports, one report per line. Lines have no
// length limit.
type reader struct {
	in      *bufio.Reader
	reports *queue.Queue[Report]
}

func newReader(in io.Reader, reports *queue.Queue[Report]) *reader {
	return &reader{in: bufio.NewReader(in), reports: reports}
}

// run reads until it has forwarded a quit report. A closed or failing input
// stream is fatal.
func (r *reader) run() error {
	for {
		line, err := r.readLine()
		if err != nil {
			return err
		}

		report, perr := parseLine(line)
		if perr != nil {
			slog.Debug("ignoring malformed command", "line", report.Line, "error", perr)
		}

		if !r.reports.Enqueue(report.Clone()) {
			return fmt.Errorf("send %s report: %w", report.Kind, ErrBrokenChannel)
		}

		if report.Kind == ReportQuit {
			return nil
		}
	}
}

// readLine returns the next line. A final line without a terminator is still
// a line; the read after it fails with io.EOF.
func (r *reader) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if err == nil || (errors.Is(err, io.EOF) && line != "") {
		return line, nil
	}
	return "", fmt.Errorf("%w: %w", ErrReadInput, err)
}
