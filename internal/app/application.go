package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rfm/internal/config"
	"github.com/kk-code-lab/rfm/internal/logging"
	statepkg "github.com/kk-code-lab/rfm/internal/state"
	inputui "github.com/kk-code-lab/rfm/internal/ui/input"
	renderui "github.com/kk-code-lab/rfm/internal/ui/render"
	"github.com/kk-code-lab/rfm/internal/watch"
)

// Options configure a new Application.
type Options struct {
	StartPath string
	Config    *config.Config

	// Screen replaces the real terminal; tests pass a simulation screen.
	Screen tcell.Screen
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	state    *statepkg.AppState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	mailbox  *mailbox
	watcher  *watch.Watcher

	shouldQuit bool
	suspended  bool
	chosenDir  string
	editorCmd  []string
}

// Close stops the watcher and releases the terminal. Actions posted after
// Close are dropped.
func (app *Application) Close() error {
	app.mailbox.Close()
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
		app.watcher = nil
	}
	app.screen.Fini()
	return err
}

// ChosenDir is the directory picked with quit-and-change, or "" when the
// user quit normally.
func (app *Application) ChosenDir() string {
	return app.chosenDir
}

// State exposes the application state for inspection after Run returns.
func (app *Application) State() *statepkg.AppState {
	return app.state
}

// syncWatcher points the watcher at the directories currently on screen.
func (app *Application) syncWatcher() {
	if app.watcher == nil {
		return
	}
	if err := app.watcher.Sync(app.state.WatchedPaths()); err != nil {
		logging.Debug("watch sync incomplete", logging.Err(err))
	}
}
