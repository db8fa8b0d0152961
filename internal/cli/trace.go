package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/latruncularius/latruncularius/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // empty means the latest session
	List     bool
}

// TraceResult is one recorded session and its messages.
type TraceResult struct {
	Session  store.SessionInfo `json:"session"`
	Messages []store.Message   `json:"messages"`
	Stats    TraceStats        `json:"stats"`
}

// TraceStats holds summary counts for a session.
type TraceStats struct {
	Total    int `json:"total"`
	Reports  int `json:"reports"`
	Controls int `json:"controls"`
	Unknown  int `json:"unknown"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show a recorded session",
		Long: `Show a session recorded with --record.

Every report read from the controller (in) and every control sent to the
output writer (out) is listed in sequence order. Without --session the most
recent session is shown.

Examples:
  latruncularius trace --db ./sessions.db
  latruncularius trace --db ./sessions.db --list
  latruncularius trace --db ./sessions.db --session 0190b5c4-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (default: latest)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list sessions instead of showing one")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	// store.Open creates missing databases; trace only reads existing ones.
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.List {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if f.JSON() {
			return f.Success(sessions)
		}
		writeSessionList(cmd.OutOrStdout(), sessions)
		return nil
	}

	info, err := findSession(ctx, st, opts.Session)
	if err != nil {
		if errors.Is(err, store.ErrNoSessions) {
			_ = f.Error(CodeNoSessions, "no recorded sessions", nil)
			return WrapExitError(ExitCommandError, "no recorded sessions", err)
		}
		return WrapExitError(ExitCommandError, "failed to find session", err)
	}

	msgs, err := st.ReadSession(ctx, info.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	result := TraceResult{Session: info, Messages: msgs, Stats: traceStats(msgs)}
	if f.JSON() {
		return f.Success(result)
	}
	writeTraceText(cmd.OutOrStdout(), result)
	return nil
}

// findSession returns the named session, or the latest when id is empty.
func findSession(ctx context.Context, st *store.Store, id string) (store.SessionInfo, error) {
	if id == "" {
		return st.LatestSession(ctx)
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return store.SessionInfo{}, err
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return store.SessionInfo{}, fmt.Errorf("session %s not found", id)
}

func traceStats(msgs []store.Message) TraceStats {
	stats := TraceStats{Total: len(msgs)}
	for _, m := range msgs {
		switch m.Direction {
		case store.DirectionIn:
			stats.Reports++
			if m.Kind == "unknown" {
				stats.Unknown++
			}
		case store.DirectionOut:
			stats.Controls++
		}
	}
	return stats
}

func writeSessionList(w io.Writer, sessions []store.SessionInfo) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "(no sessions)")
		return
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "%s  %s %s  %s  %d messages\n",
			s.ID, s.Engine, s.Version, s.StartedAt.Format(time.RFC3339), s.Messages)
	}
}

func writeTraceText(w io.Writer, r TraceResult) {
	fmt.Fprintf(w, "Session: %s\n", r.Session.ID)
	fmt.Fprintf(w, "Engine:  %s %s\n", r.Session.Engine, r.Session.Version)
	fmt.Fprintf(w, "Started: %s\n", r.Session.StartedAt.Format(time.RFC3339))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Messages ===")
	if len(r.Messages) == 0 {
		fmt.Fprintln(w, "  (no messages)")
	}
	for _, m := range r.Messages {
		fmt.Fprintf(w, "  [%d] %-3s %s", m.Seq, m.Direction, m.Kind)
		if m.Payload != "" {
			fmt.Fprintf(w, " %q", m.Payload)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total:    %d\n", r.Stats.Total)
	fmt.Fprintf(w, "  Reports:  %d\n", r.Stats.Reports)
	fmt.Fprintf(w, "  Controls: %d\n", r.Stats.Controls)
	fmt.Fprintf(w, "  Unknown:  %d\n", r.Stats.Unknown)
}
