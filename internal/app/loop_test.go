package app

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rfm/internal/config"
	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

func newTestApp(t *testing.T, root string, watch bool) (*Application, tcell.SimulationScreen) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfg := config.Default()
	cfg.Watch.Enabled = watch
	cfg.Watch.Debounce = 10 * time.Millisecond

	screen := tcell.NewSimulationScreen("UTF-8")
	app, err := NewApplication(Options{StartPath: root, Config: cfg, Screen: screen})
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, screen
}

func makeTree(t *testing.T, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRunHandlesKeysUntilQuitAndChange(t *testing.T) {
	root := makeTree(t, "a", "b/inner")
	app, screen := newTestApp(t, root, false)

	done := make(chan struct{})
	go func() {
		app.Run()
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'j', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'Q', tcell.ModNone)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after Q")
	}

	if got, want := app.ChosenDir(), filepath.Join(root, "b"); got != want {
		t.Fatalf("chosen dir = %q, want %q", got, want)
	}
}

func TestQuitLeavesChosenDirEmpty(t *testing.T) {
	app, _ := newTestApp(t, makeTree(t, "a"), false)
	if app.handleAction(statepkg.QuitAction{}) {
		t.Fatalf("quit should not request a redraw")
	}
	if !app.shouldQuit || app.ChosenDir() != "" {
		t.Fatalf("expected plain quit, got quit=%v dir=%q", app.shouldQuit, app.ChosenDir())
	}
}

func TestClosingLastTabQuits(t *testing.T) {
	app, _ := newTestApp(t, makeTree(t, "a"), false)

	app.handleAction(statepkg.NewTabAction{})
	app.handleAction(statepkg.CloseTabAction{})
	if app.shouldQuit {
		t.Fatalf("closing one of two tabs should not quit")
	}

	app.handleAction(statepkg.CloseTabAction{})
	if !app.shouldQuit {
		t.Fatalf("closing the last tab should quit")
	}
}

func TestReduceErrorsBecomeStatus(t *testing.T) {
	root := makeTree(t, "a")
	app, _ := newTestApp(t, root, false)

	app.handleAction(statepkg.GoToPathAction{Path: filepath.Join(root, "missing")})
	if app.state.Status.Level != statepkg.StatusError {
		t.Fatalf("expected an error status, got %+v", app.state.Status)
	}
	if app.shouldQuit {
		t.Fatalf("errors must not stop the loop")
	}
}

func TestProcessActionsDrainsFollowUps(t *testing.T) {
	root := makeTree(t, "a", "b", "c")
	app, _ := newTestApp(t, root, false)

	app.mailbox.Push(statepkg.CursorDownAction{})
	app.mailbox.Push(statepkg.CursorDownAction{})
	if !app.processActions() {
		t.Fatalf("expected a redraw")
	}
	if got := app.state.ActiveTab().CursorEntry().Name; got != "c" {
		t.Fatalf("cursor on %q, want c", got)
	}
	if app.mailbox.Len() != 0 {
		t.Fatalf("mailbox should be empty")
	}
}

func TestWatcherFollowsVisibleDirectories(t *testing.T) {
	root := makeTree(t, "sub")
	app, _ := newTestApp(t, root, true)
	if app.watcher == nil {
		t.Skip("filesystem watcher unavailable")
	}

	if watched := app.watcher.Watched(); !slices.Contains(watched, root) {
		t.Fatalf("expected %s to be watched, got %v", root, watched)
	}

	if err := os.WriteFile(filepath.Join(root, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		var saw bool
		for _, a := range app.mailbox.Drain() {
			if ev, ok := a.(statepkg.FilesystemEventAction); ok && filepath.Dir(ev.Path) == root {
				saw = true
			}
		}
		if saw {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("no filesystem event for %s", root)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
