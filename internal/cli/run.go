package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/latruncularius/latruncularius/internal/about"
	"github.com/latruncularius/latruncularius/internal/config"
	"github.com/latruncularius/latruncularius/internal/engine"
	"github.com/latruncularius/latruncularius/internal/store"
)

// RunOptions holds flags for running the engine.
type RunOptions struct {
	*RootOptions

	// Record is the SQLite database sessions are recorded into. Overrides
	// the config file's record path.
	Record string

	// Collaborator replaces the no-op board/search component (for testing).
	Collaborator engine.Collaborator
}

// settings is everything resolved from flags and the config file before
// the engine is built.
type settings struct {
	cfg    *config.Config
	hash   engine.HashSettings
	record string
}

// loadSettings reads the config file, if any, and applies it to the
// built-in defaults.
func loadSettings(opts *RootOptions) (*settings, error) {
	s := &settings{hash: engine.DefaultHashSettings()}
	if opts.Config == "" {
		return s, nil
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	hash, err := cfg.HashSettings(s.hash)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	s.cfg = cfg
	s.hash = hash
	s.record = cfg.Record
	return s, nil
}

// setupLogging installs the default slog logger. Logs never go to stdout,
// which belongs to the protocol. The returned closer releases the log file.
func setupLogging(opts *RootOptions, cfg *config.Config, stderr io.Writer) (io.Closer, error) {
	level := cfg.Level(slog.LevelInfo)
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var (
		w      = stderr
		closer io.Closer
	)
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open log file", err)
		}
		w, closer = f, f
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

func runEngine(opts *RunOptions, cmd *cobra.Command) error {
	s, err := loadSettings(opts.RootOptions)
	if err != nil {
		return err
	}

	logCloser, err := setupLogging(opts.RootOptions, s.cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	engineOpts := []engine.Option{
		engine.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
		engine.WithRegistry(engine.NewRegistry(s.hash)),
	}
	if opts.Collaborator != nil {
		engineOpts = append(engineOpts, engine.WithCollaborator(opts.Collaborator))
	}

	// Parent context comes from the command when set (tests).
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	record := opts.Record
	if record == "" {
		record = s.record
	}
	if record != "" {
		st, sess, err := beginRecording(ctx, record)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		engineOpts = append(engineOpts, engine.WithRecorder(sess))
	}

	eng := engine.New(engineOpts...)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := eng.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return WrapExitError(ExitFailure, "engine failed", err)
	}
	return nil
}

// beginRecording opens the transcript database and starts a session.
func beginRecording(ctx context.Context, path string) (*store.Store, *store.Session, error) {
	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	sess, err := st.BeginSession(ctx, about.Engine, about.Version)
	if err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, "failed to begin session", err)
	}

	slog.Info("recording session", "db", path, "session", sess.ID())
	return st, sess, nil
}
