package app

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/skratchdot/open-golang/open"

	"github.com/kk-code-lab/rfm/internal/logging"
	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

const yankFlashDuration = 100 * time.Millisecond

// Overridable in tests.
var (
	clipboardWriteFn = clipboard.WriteAll
	openFn           = open.Start
	commandBuilder   = exec.Command
)

func (app *Application) handleClipboard() bool {
	target := app.state.CurrentFilePath()
	if target == "" {
		target = app.state.CurrentPath()
	}
	if !app.state.ClipboardAvailable {
		app.state.SetStatus(statepkg.StatusError, "no clipboard available")
		return true
	}
	if err := clipboardWriteFn(normalizeClipboardPath(target, runtime.GOOS)); err != nil {
		app.state.SetError(fmt.Errorf("yank: %w", err))
		return true
	}

	app.state.LastYankTime = time.Now()
	app.state.SetStatus(statepkg.StatusInfo, "yanked %s", target)
	time.AfterFunc(yankFlashDuration, func() {
		app.mailbox.Push(redrawAction{})
	})
	return true
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}

// handleOpen passes the entry under the cursor to the desktop's default
// handler without waiting for it.
func (app *Application) handleOpen() bool {
	target := app.state.CurrentFilePath()
	if target == "" {
		return false
	}
	if err := openFn(target); err != nil {
		app.state.SetError(fmt.Errorf("open %s: %w", filepath.Base(target), err))
		return true
	}
	logging.Debug("opened with system handler", logging.String("path", target))
	app.state.SetStatus(statepkg.StatusInfo, "opened %s", filepath.Base(target))
	return true
}

func (app *Application) handleEditorOpen() bool {
	if !app.state.EditorAvailable || len(app.editorCmd) == 0 {
		return false
	}
	target := app.state.CurrentFilePath()
	if target == "" || app.state.CursorIsDir() {
		return false
	}

	if err := app.openFileInEditor(target); err != nil {
		app.state.SetError(err)
	}
	// The file may have changed size or vanished while the editor ran.
	if _, err := app.reducer.Reduce(app.state, statepkg.RefreshAction{}); err != nil {
		app.state.SetError(err)
	}
	return true
}

func (app *Application) openFileInEditor(filePath string) error {
	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"

	var tty *os.File
	if useTTY {
		var err error
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	} else {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	}
	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	flushPendingInput()
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("%s: %w", filepath.Base(editorArgs[0]), runErr)
	}
	return nil
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		flushPendingInput()
		app.screen.Sync()
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
	}
	return nil
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
