//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

// resumeSignals are delivered when the shell brings a stopped rfm back.
func resumeSignals() []os.Signal { return []os.Signal{syscall.SIGCONT} }

// suspendToShell stops rfm until `fg`. SIGTSTP goes to this process only: the
// process group can hold the cd-on-exit wrapper, and stopping that breaks fg.
// Kill returns once rfm runs again, or at once when the signal is discarded.
func (app *Application) suspendToShell() {
	if err := app.screen.Suspend(); err != nil {
		app.state.SetError(err)
		return
	}
	app.suspended = true
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
	app.resumeAfterStop()
}

// resumeAfterStop retakes the terminal and queues a resize and a reload, as
// both the window and the directories may have changed. It is a no-op unless
// the screen was suspended, so the SIGCONT that follows a resume is harmless.
func (app *Application) resumeAfterStop() bool {
	if !app.suspended {
		return false
	}
	if err := app.screen.Resume(); err != nil {
		return false
	}
	app.suspended = false
	app.screen.Sync()
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.mailbox.Push(statepkg.ResizeAction{Width: w, Height: h})
	}
	app.mailbox.Push(statepkg.RefreshAction{})
	_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
	return true
}

// flushPendingInput is only needed for the Windows console.
func flushPendingInput() {}
