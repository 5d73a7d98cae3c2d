package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommandPrintsDefaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "show_hidden: false")
	assert.Contains(t, out, "directories_first: true")
	assert.Contains(t, out, "- natural")
}

func TestConfigCommandAppliesFlagOverrides(t *testing.T) {
	out, err := execute(t, "config", "--show-hidden", "--log-level", "DEBUG")
	require.NoError(t, err)
	assert.Contains(t, out, "show_hidden: true")
	assert.Contains(t, out, "level: debug")
}

func TestConfigCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rfm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  reverse: true\n  sort_methods: [size, natural]\n"), 0o644))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "reverse: true")
	assert.Contains(t, out, "- size")
}

func TestInvalidLogLevelIsRejected(t *testing.T) {
	_, err := execute(t, "config", "--log-level", "loud")
	assert.ErrorContains(t, err, "--log-level")
}

func TestSetupCommandWritesWrapper(t *testing.T) {
	out, err := execute(t, "setup", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "--choosedir")

	_, err = execute(t, "setup", "tcsh")
	assert.ErrorContains(t, err, "unsupported shell")
}

func TestRootRejectsExtraArguments(t *testing.T) {
	_, err := execute(t, "a", "b")
	assert.Error(t, err)
}

func TestWriteChosenDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "choice")

	require.NoError(t, writeChosenDir(file, ""))
	assert.NoFileExists(t, file)
	require.NoError(t, writeChosenDir("", "/tmp"))

	require.NoError(t, writeChosenDir(file, "/srv/data"))
	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", string(got))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
