package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/latruncularius/latruncularius/internal/about"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	LogFile string // empty means stderr
	Config  string // optional CUE configuration file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON}

// NewRootCommand creates the latruncularius command. Without a subcommand
// it runs the engine on stdin/stdout.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	runOpts := &RunOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:     "latruncularius",
		Short:   "Latruncularius UCI chess engine",
		Version: about.Version,
		Long: `Latruncularius speaks the Universal Chess Interface on stdin/stdout.

Start it from a chess GUI or tournament manager, or type commands by hand:

  uci        identify the engine and list its options
  isready    answered with readyok
  quit       exit cleanly

Logs go to stderr (or --log-file) so stdout carries protocol lines only.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(runOpts, cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging and verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format for subcommands (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file instead of stderr")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "CUE configuration file")

	cmd.Flags().StringVar(&runOpts.Record, "record", "", "record the session into this SQLite database")

	cmd.AddCommand(NewOptionsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
