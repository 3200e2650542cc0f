package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tsq/internal/interchange"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("tsq", pflag.ContinueOnError)
	fs.String(KeyConfig, "", "")
	fs.String(KeyFormat, "text", "")
	fs.BoolP(KeyVerbose, "v", false, "")
	fs.Bool(KeyIndent, true, "")
	fs.Bool(KeyValidate, true, "")
	fs.String(KeyInputFormat, "json", "")
	fs.Int(KeyMaxQueryLength, DefaultMaxQueryLength, "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tsq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(New(), nil)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.True(t, cfg.Indent)
	assert.True(t, cfg.Validate)
	assert.Equal(t, interchange.JSON, cfg.InputFormat)
	assert.Equal(t, DefaultMaxQueryLength, cfg.MaxQueryLength)
	assert.Empty(t, cfg.File)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
format: json
indent: false
input-format: yaml
max-query-length: 100
`)

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--config", path}))

	cfg, err := Load(New(), fs)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.Indent)
	assert.Equal(t, interchange.YAML, cfg.InputFormat)
	assert.Equal(t, 100, cfg.MaxQueryLength)
	assert.Equal(t, path, cfg.File)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "format: text\nmax-query-length: 100\n")
	t.Setenv("TSQ_FORMAT", "json")
	t.Setenv("TSQ_MAX_QUERY_LENGTH", "50")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--config", path}))

	cfg, err := Load(New(), fs)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 50, cfg.MaxQueryLength)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TSQ_FORMAT", "json")
	t.Setenv("TSQ_VALIDATE", "true")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--format", "text", "--validate=false", "-v"}))

	cfg, err := Load(New(), fs)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Validate)
	assert.True(t, cfg.Verbose)
}

func TestLoadUnsetFlagsDoNotMaskEnv(t *testing.T) {
	t.Setenv("TSQ_INPUT_FORMAT", "hujson")

	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(New(), fs)
	require.NoError(t, err)
	assert.Equal(t, interchange.HuJSON, cfg.InputFormat)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"bad format", []string{"--format", "xml"}, "invalid format"},
		{"bad input format", []string{"--input-format", "toml"}, "invalid input-format"},
		{"negative length", []string{"--max-query-length", "-1"}, "must be non-negative"},
		{"missing config file", []string{"--config", "/nonexistent/tsq.yaml"}, "reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testFlags()
			require.NoError(t, fs.Parse(tt.args))

			_, err := Load(New(), fs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	path := writeConfig(t, "format: [unclosed\n")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--config", path}))

	_, err := Load(New(), fs)
	require.Error(t, err)
}
