package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/latruncularius/latruncularius/internal/store"
	"github.com/latruncularius/latruncularius/internal/uci"
)

// handleReport is the dispatch table. Only send failures are returned;
// everything else a report can cause is handled here.
func (e *Engine) handleReport(ctx context.Context, r uci.Report) error {
	e.record(ctx, store.DirectionIn, r.Kind.String(), r.Line)

	slog.Debug("report received", "report", r.Kind, "seq", e.clock.Current())

	switch r.Kind {
	case uci.ReportUci:
		return e.send(ctx, uci.Control{Kind: uci.ControlIdentify})

	case uci.ReportUciNewGame:
		e.collab.NewGame()

	case uci.ReportIsReady:
		return e.send(ctx, uci.Control{Kind: uci.ControlReady})

	case uci.ReportSetOption:
		return e.setOption(ctx, r)

	case uci.ReportPosition:
		e.collab.Position(r.FEN, r.Moves)

	case uci.ReportGoInfinite, uci.ReportGoDepth, uci.ReportGoMoveTime, uci.ReportGoNodes:
		e.collab.Search(searchRequest(r))

	case uci.ReportStop:
		e.collab.Stop()

	case uci.ReportQuit:
		return e.quit(ctx)

	case uci.ReportUnknown:
		// UCI engines ignore what they don't understand.
	}

	return nil
}

// quit tells the writer to stop and moves to StateQuitting. The quit control
// must be queued before Run joins the writer.
func (e *Engine) quit(ctx context.Context) error {
	if err := e.send(ctx, uci.Control{Kind: uci.ControlQuit}); err != nil {
		return err
	}
	e.state = StateQuitting
	slog.Debug("engine quitting")
	return nil
}

// setOption validates against the registry before handing the value on.
// Problems are reported to the controller as info strings, never as errors.
func (e *Engine) setOption(ctx context.Context, r uci.Report) error {
	opt, ok := e.registry.Lookup(r.Name)
	if !ok {
		return e.send(ctx, uci.InfoString(fmt.Sprintf("unknown option %s", r.Name)))
	}

	if err := opt.Validate(r.Value); err != nil {
		return e.send(ctx, uci.InfoString(err.Error()))
	}

	e.collab.SetOption(opt.Name, r.Value)
	return nil
}

func (e *Engine) send(ctx context.Context, c uci.Control) error {
	e.record(ctx, store.DirectionOut, c.Kind.String(), c.Text)

	if err := e.uci.Send(c); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}

// record stamps the next sequence number and forwards to the recorder.
// Recording is best effort: failures are logged, never fatal.
func (e *Engine) record(ctx context.Context, dir store.Direction, kind, payload string) {
	seq := e.clock.Next()
	if e.recorder == nil {
		return
	}

	msg := store.Message{Seq: seq, Direction: dir, Kind: kind, Payload: payload}
	if err := e.recorder.RecordMessage(ctx, msg); err != nil {
		slog.Warn("recording failed", "seq", seq, "kind", kind, "error", err)
	}
}
