package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latruncularius/latruncularius/internal/engine"
)

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load("testdata/valid.cue")
	require.NoError(t, err)

	require.NotNil(t, cfg.Hash)
	assert.Equal(t, 64, *cfg.Hash.Default)
	assert.Equal(t, 1024, *cfg.Hash.Max)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sessions.db", cfg.Record)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/missing.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load("testdata/unknown_field.cue")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "threads")
}

func TestLoad_BadLogLevel(t *testing.T) {
	_, err := Load("testdata/bad_level.cue")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "logLevel", cfgErr.Field)
}

func TestLoad_SyntaxError(t *testing.T) {
	_, err := Load("testdata/syntax.cue")
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil, "empty.cue")
	require.NoError(t, err)
	assert.Nil(t, cfg.Hash)
	assert.Empty(t, cfg.LogLevel)
}

func TestParse_NegativeHashDefault(t *testing.T) {
	_, err := Parse([]byte("hash: default: -1\n"), "neg.cue")
	require.Error(t, err)
}

func TestHashSettings(t *testing.T) {
	base := engine.DefaultHashSettings()

	tests := []struct {
		name    string
		src     string
		want    engine.HashSettings
		wantErr bool
	}{
		{
			name: "no hash section",
			src:  `logLevel: "info"`,
			want: base,
		},
		{
			name: "default only",
			src:  `hash: default: 128`,
			want: engine.HashSettings{Default: 128, Max: base.Max},
		},
		{
			name: "both",
			src:  "hash: {\n\tdefault: 16\n\tmax: 512\n}",
			want: engine.HashSettings{Default: 16, Max: 512},
		},
		{
			name:    "default above max",
			src:     "hash: {\n\tdefault: 1024\n\tmax: 512\n}",
			wantErr: true,
		},
		{
			name:    "max above platform limit",
			src:     `hash: max: 1000000`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.src), "test.cue")
			require.NoError(t, err)

			got, err := cfg.HashSettings(base)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, base, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashSettings_NilConfig(t *testing.T) {
	var cfg *Config
	got, err := cfg.HashSettings(engine.DefaultHashSettings())
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultHashSettings(), got)
}

func TestLevel(t *testing.T) {
	var nilCfg *Config
	assert.Equal(t, slog.LevelWarn, nilCfg.Level(slog.LevelWarn))
	assert.Equal(t, slog.LevelInfo, (&Config{}).Level(slog.LevelInfo))
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).Level(slog.LevelInfo))
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).Level(slog.LevelInfo))
}
