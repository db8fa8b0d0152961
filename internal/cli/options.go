package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/latruncularius/latruncularius/internal/engine"
)

// OptionInfo is one advertised engine option in JSON output.
type OptionInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
	Min     string `json:"min,omitempty"`
	Max     string `json:"max,omitempty"`
	Line    string `json:"line"`
}

// NewOptionsCommand creates the options command.
func NewOptionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the options the engine advertises",
		Long: `Print the option lines the engine sends in reply to "uci", with any
--config overrides applied.

Examples:
  latruncularius options
  latruncularius options --config engine.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(rootOpts, cmd)
		},
	}
}

func runOptions(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	s, err := loadSettings(opts)
	if err != nil {
		_ = f.Error(CodeConfig, err.Error(), nil)
		return err
	}
	f.VerboseLog("hash default %d, max %d", s.hash.Default, s.hash.Max)

	registry := engine.NewRegistry(s.hash)

	if !f.JSON() {
		return f.Success(strings.Join(registry.Lines(), "\n"))
	}

	infos := make([]OptionInfo, 0, registry.Len())
	for _, o := range registry.Options() {
		infos = append(infos, OptionInfo{
			Name:    o.Name,
			Type:    o.Widget.String(),
			Default: o.Default,
			Min:     o.Min,
			Max:     o.Max,
			Line:    o.Line(),
		})
	}
	return f.Success(infos)
}
