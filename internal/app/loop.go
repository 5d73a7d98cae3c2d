package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rfm/internal/config"
	"github.com/kk-code-lab/rfm/internal/logging"
	statepkg "github.com/kk-code-lab/rfm/internal/state"
	inputui "github.com/kk-code-lab/rfm/internal/ui/input"
	renderui "github.com/kk-code-lab/rfm/internal/ui/render"
	"github.com/kk-code-lab/rfm/internal/watch"
)

// redrawAction asks the loop to render without touching state.
type redrawAction struct{}

// NewApplication opens the terminal and loads the first tab.
func NewApplication(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	startPath := opts.StartPath
	if startPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		startPath = cwd
	}

	screen := opts.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	state, err := statepkg.NewAppState(cfg, startPath)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	state.ScreenWidth, state.ScreenHeight = screen.Size()
	state.ClipboardAvailable = !clipboard.Unsupported
	editorCmd, editorAvail := detectEditorCommand()
	state.EditorAvailable = editorAvail

	mb := newMailbox()
	state.SetDispatch(mb.Push)
	state.PreviewLoader = statepkg.NewAsyncPreviewLoader()

	app := &Application{
		screen:    screen,
		state:     state,
		reducer:   statepkg.NewStateReducer(),
		renderer:  renderui.NewRenderer(screen),
		input:     inputui.NewInputHandler(mb.Push),
		mailbox:   mb,
		editorCmd: editorCmd,
	}
	app.input.SetState(state)

	if cfg.Watch.Enabled {
		w, err := watch.New(func(path string) {
			mb.Push(statepkg.FilesystemEventAction{Path: path})
		})
		if err != nil {
			// Listings still refresh on user actions without a watcher.
			logging.Warn("filesystem watcher unavailable", logging.Err(err))
		} else {
			app.watcher = w
		}
	}

	app.reducer.RefreshPreview(state)
	app.syncWatcher()
	logging.Info("started", logging.String("path", state.CurrentPath()))
	return app, nil
}

// Run processes terminal events and posted actions until the user quits.
func (app *Application) Run() {
	app.renderer.Render(app.state)

	eventCh := make(chan tcell.Event)
	stopPoll := make(chan struct{})
	defer close(stopPoll)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-stopPoll:
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := resumeSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		renderPending := false
		select {
		case ev := <-eventCh:
			renderPending = app.handleEvent(ev)
		case <-app.mailbox.Ready():
		case <-sigContCh:
			renderPending = app.resumeAfterStop()
		}

		if app.processActions() {
			renderPending = true
		}
		if renderPending && !app.shouldQuit {
			app.syncWatcher()
			app.renderer.Render(app.state)
		}
	}
	logging.Info("stopped", logging.String("path", app.state.CurrentPath()))
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			app.screen.Sync()
		}
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

// processActions reduces everything in the mailbox, including actions posted
// while the batch was being handled.
func (app *Application) processActions() bool {
	changed := false
	for {
		batch := app.mailbox.Drain()
		if len(batch) == 0 {
			return changed
		}
		for _, action := range batch {
			if app.handleAction(action) {
				changed = true
			}
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	switch action.(type) {
	case nil:
		return false
	case redrawAction:
		return true
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.QuitAndChangeAction:
		app.chosenDir = app.state.CurrentPath()
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		return true
	case statepkg.YankPathAction:
		return app.handleClipboard()
	case statepkg.OpenFileAction:
		return app.handleOpen()
	case statepkg.EditFileAction:
		return app.handleEditorOpen()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		if errors.Is(err, statepkg.ErrLastTab) {
			app.shouldQuit = true
			return false
		}
		app.state.SetError(err)
	}
	return true
}
