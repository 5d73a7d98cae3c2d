package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/rfm/internal/config"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfg := config.Default()
	cfg.Watch.Debounce = 10 * time.Millisecond
	return cfg
}

func newTestState(t *testing.T, start string) (*AppState, *StateReducer) {
	t.Helper()
	state, err := NewAppState(testConfig(t), start)
	require.NoError(t, err)
	state.ScreenWidth, state.ScreenHeight = 80, 24
	return state, NewStateReducer()
}

func reduce(t *testing.T, r *StateReducer, state *AppState, actions ...Action) {
	t.Helper()
	for _, a := range actions {
		_, err := r.Reduce(state, a)
		require.NoError(t, err, "%T", a)
	}
}

// withMailbox routes dispatched actions into a channel the test drains.
func withMailbox(state *AppState) chan Action {
	ch := make(chan Action, 1024)
	state.SetDispatch(func(a Action) { ch <- a })
	return ch
}

// drainUntil reduces mailbox actions until done reports true.
func drainUntil(t *testing.T, r *StateReducer, state *AppState, ch chan Action, done func(Action) bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case a := <-ch:
			_, err := r.Reduce(state, a)
			require.NoError(t, err, "%T", a)
			if done(a) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for dispatched actions")
		}
	}
}

// runQueue reduces mailbox actions until every task has finished.
func runQueue(t *testing.T, r *StateReducer, state *AppState, ch chan Action) {
	t.Helper()
	if state.Queue.Idle() {
		return
	}
	drainUntil(t, r, state, ch, func(a Action) bool {
		_, ok := a.(TaskDoneAction)
		return ok && state.Queue.Idle()
	})
}

func entryNames(t *testing.T, tab *Tab, path string) []string {
	t.Helper()
	s, ok := tab.Cache.Get(path)
	require.True(t, ok, "%s not cached", path)
	names := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		names = append(names, e.Name)
	}
	return names
}

func cursorName(t *testing.T, tab *Tab, path string) string {
	t.Helper()
	s, ok := tab.Cache.Get(path)
	require.True(t, ok, "%s not cached", path)
	if e := s.CursorEntry(); e != nil {
		return e.Name
	}
	return ""
}
