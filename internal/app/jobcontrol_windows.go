//go:build windows

package app

import (
	"os"

	"golang.org/x/sys/windows"

	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

func resumeSignals() []os.Signal { return nil }

func (app *Application) suspendToShell() {
	app.state.SetStatus(statepkg.StatusInfo, "suspend is not supported on Windows")
}

func (app *Application) resumeAfterStop() bool { return false }

// flushPendingInput discards keys typed into the editor so they do not replay
// as rfm commands once the console is ours again.
func flushPendingInput() {
	if in, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE); err == nil {
		_ = windows.FlushConsoleInputBuffer(in)
	}
}
