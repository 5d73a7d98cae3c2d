package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForPath(t *testing.T, events <-chan string, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-events:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("no event for %s", want)
		}
	}
}

func TestWatcherReportsChangesInWatchedDirs(t *testing.T) {
	dir := t.TempDir()
	events := make(chan string, 64)
	w, err := New(func(path string) {
		select {
		case events <- path:
		default:
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.Sync([]string{dir}))
	assert.Equal(t, []string{dir}, w.Watched())

	created := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(created, []byte("x"), 0o644))
	waitForPath(t, events, created)
}

func TestWatcherSyncReplacesWatchedSet(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	w, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.Sync([]string{a, b, ""}))
	assert.ElementsMatch(t, []string{a, b}, w.Watched())

	require.NoError(t, w.Sync([]string{b}))
	assert.Equal(t, []string{b}, w.Watched())

	err = w.Sync([]string{b, filepath.Join(a, "missing")})
	assert.Error(t, err)
	assert.Equal(t, []string{b}, w.Watched())
}
