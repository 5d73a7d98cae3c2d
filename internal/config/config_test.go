package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kk-code-lab/rfm/internal/dircache"
)

// isolate points every XDG location at a temp dir so the user's own files are
// never read.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(dir, "state", "rfm", "rfm.log"), cfg.Logging.Output)
	assert.True(t, cfg.Display.DirectoriesFirst)
	assert.False(t, cfg.Display.ShowHidden)
	assert.Equal(t, []string{"natural"}, cfg.Display.SortMethods)
	assert.Equal(t, int64(64*1024), cfg.Preview.MaxBytes)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)

	missing, err := Load(filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cfg, missing)
}

func TestLoadReadsDefaultLocation(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, filepath.Join("config", "rfm", "config.yaml"), `
display:
  show_hidden: true
  directories_first: false
  sort_methods: [Size, natural]
logging:
  level: DEBUG
  output: none
watch:
  debounce: 1s
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Display.ShowHidden)
	assert.False(t, cfg.Display.DirectoriesFirst)
	assert.Equal(t, []string{"size", "natural"}, cfg.Display.SortMethods)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "none", cfg.Logging.Output)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoadTOML(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "rfm.toml", `
[preview]
max_bytes = 1024

[display]
reverse = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), cfg.Preview.MaxBytes)
	assert.True(t, cfg.Display.Reverse)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "config.yaml", "display:\n  show_hidden: false\n")
	t.Setenv("RFM_DISPLAY_SHOW_HIDDEN", "true")
	t.Setenv("RFM_LOGGING_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Display.ShowHidden)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad level", "logging:\n  level: loud\n", "Level"},
		{"bad sort", "display:\n  sort_methods: [colour]\n", "SortMethods"},
		{"too many sorts", "display:\n  sort_methods: [natural, lexical, size, mtime, ext, natural]\n", "SortMethods"},
		{"stdout log", "logging:\n  output: stdout\n", "Output"},
		{"negative preview", "preview:\n  max_bytes: -1\n", "MaxBytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := writeConfig(t, dir, "config.yaml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "config.yaml", "display: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestProjections(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Display.SortMethods = []string{"mtime", "natural"}
	cfg.Display.Reverse = true
	cfg.Display.ShowHidden = true

	sortOpts := cfg.SortOptions()
	assert.Equal(t, []dircache.SortMethod{dircache.SortMtime, dircache.SortNatural}, sortOpts.Methods)
	assert.True(t, sortOpts.DirectoriesFirst)
	assert.True(t, sortOpts.Reverse)
	assert.True(t, cfg.DisplayOptions().ShowHidden)
	assert.False(t, cfg.DisplayOptions().Filter.Active())
}

func TestDumpRoundTripsThroughLoad(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.Display.SortMethods = []string{"ext", "natural"}
	cfg.Watch.Debounce = 2 * time.Second

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, cfg))
	assert.Contains(t, buf.String(), "debounce: 2s")

	var generic map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &generic))
	assert.Contains(t, generic, "display")

	path := writeConfig(t, dir, "dumped.yaml", buf.String())
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
