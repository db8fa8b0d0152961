// Package config loads the optional engine configuration file.
//
// Configuration is written in CUE and checked against the #Config schema
// embedded in this package. Every field is optional; anything absent keeps
// the built-in default. Unknown fields are rejected.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/latruncularius/latruncularius/internal/engine"
)

//go:embed schema.cue
var schemaSrc []byte

// Config is the decoded configuration file.
type Config struct {
	Hash     *Hash  `json:"hash,omitempty"`
	LogLevel string `json:"logLevel,omitempty"`
	Record   string `json:"record,omitempty"`
}

// Hash overrides the advertised Hash option.
type Hash struct {
	Default *int `json:"default,omitempty"`
	Max     *int `json:"max,omitempty"`
}

// ConfigError is a configuration problem with its CUE source position.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse validates CUE source against #Config and decodes it.
// filename is used for error positions only.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, formatCUEError(err)
	}
	return &cfg, nil
}

// HashSettings applies the configured overrides to base and checks the
// result against the platform limits.
func (c *Config) HashSettings(base engine.HashSettings) (engine.HashSettings, error) {
	if c == nil || c.Hash == nil {
		return base, nil
	}

	out := base
	if c.Hash.Max != nil {
		out.Max = *c.Hash.Max
	}
	if c.Hash.Default != nil {
		out.Default = *c.Hash.Default
	}

	if err := out.Validate(); err != nil {
		return base, &ConfigError{Field: "hash", Message: err.Error()}
	}
	return out, nil
}

// Level returns the configured log level, or fallback when none is set.
func (c *Config) Level(fallback slog.Level) slog.Level {
	if c == nil {
		return fallback
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "config"
	if path := first.Path(); len(path) > 0 {
		field = path[len(path)-1]
	}

	var pos token.Pos
	if positions := errors.Positions(first); len(positions) > 0 {
		pos = positions[0]
	}

	msg, args := first.Msg()
	return &ConfigError{Field: field, Message: fmt.Sprintf(msg, args...), Pos: pos}
}
