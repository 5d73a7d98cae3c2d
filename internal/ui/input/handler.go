package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	dispatch func(statepkg.Action)
	state    *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(dispatch func(statepkg.Action)) *InputHandler {
	return &InputHandler{
		dispatch: dispatch,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.dispatch(statepkg.ResizeAction{Width: w, Height: h})
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.dispatch(statepkg.QuitAction{})
		return false
	}
	if ih.state != nil && ih.state.Mode != statepkg.ModeNormal {
		ih.processPromptKey(ev)
		return true
	}
	return ih.processNormalKey(ev)
}

// processPromptKey edits the filter or go-to prompt.
func (ih *InputHandler) processPromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.dispatch(statepkg.InputCancelAction{})
	case tcell.KeyEnter:
		ih.dispatch(statepkg.InputConfirmAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.dispatch(statepkg.InputBackspaceAction{})
	case tcell.KeyUp:
		// Filtering keeps the listing live, so the cursor can still move.
		if ih.state.Mode == statepkg.ModeFilter {
			ih.dispatch(statepkg.CursorUpAction{})
		}
	case tcell.KeyDown:
		if ih.state.Mode == statepkg.ModeFilter {
			ih.dispatch(statepkg.CursorDownAction{})
		}
	case tcell.KeyRune:
		ih.dispatch(statepkg.InputCharAction{Char: ev.Rune()})
	}
}

func (ih *InputHandler) processNormalKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		ih.dispatch(statepkg.CursorUpAction{})
	case tcell.KeyDown:
		ih.dispatch(statepkg.CursorDownAction{})
	case tcell.KeyPgUp:
		ih.dispatch(statepkg.PageUpAction{})
	case tcell.KeyPgDn:
		ih.dispatch(statepkg.PageDownAction{})
	case tcell.KeyHome:
		ih.dispatch(statepkg.CursorTopAction{})
	case tcell.KeyEnd:
		ih.dispatch(statepkg.CursorBottomAction{})
	case tcell.KeyRight, tcell.KeyEnter:
		ih.enter()
	case tcell.KeyLeft, tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.dispatch(statepkg.GoUpAction{})
	case tcell.KeyEscape:
		ih.dispatch(statepkg.ClearSelectionAction{})
	case tcell.KeyTab:
		ih.dispatch(statepkg.NextTabAction{})
	case tcell.KeyBacktab:
		ih.dispatch(statepkg.PrevTabAction{})
	case tcell.KeyCtrlP:
		ih.dispatch(statepkg.PasteAction{SkipExisting: true})
	case tcell.KeyCtrlX:
		ih.dispatch(statepkg.DeleteAction{Permanently: true})
	case tcell.KeyCtrlZ:
		ih.dispatch(statepkg.SuspendAction{})
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'q':
		ih.dispatch(statepkg.QuitAction{})
		return false
	case 'Q':
		ih.dispatch(statepkg.QuitAndChangeAction{})
		return false

	case 'k':
		ih.dispatch(statepkg.CursorUpAction{})
	case 'j':
		ih.dispatch(statepkg.CursorDownAction{})
	case 'g':
		ih.dispatch(statepkg.CursorTopAction{})
	case 'G':
		ih.dispatch(statepkg.CursorBottomAction{})
	case 'l':
		ih.enter()
	case 'h':
		ih.dispatch(statepkg.GoUpAction{})
	case 'H':
		ih.dispatch(statepkg.HistoryBackAction{})
	case 'L':
		ih.dispatch(statepkg.HistoryForwardAction{})
	case '~':
		ih.dispatch(statepkg.GoHomeAction{})

	case ' ':
		ih.dispatch(statepkg.ToggleSelectAction{})
	case 'v':
		ih.dispatch(statepkg.InvertSelectionAction{})

	case 'c':
		ih.dispatch(statepkg.CopyAction{})
	case 'x':
		ih.dispatch(statepkg.CutAction{})
	case 'p':
		ih.dispatch(statepkg.PasteAction{})
	case 'P':
		ih.dispatch(statepkg.PasteAction{Overwrite: true})
	case 's':
		ih.dispatch(statepkg.PasteSymlinkAction{})
	case 'S':
		ih.dispatch(statepkg.PasteSymlinkAction{Relative: true})
	case 'D':
		ih.dispatch(statepkg.DeleteAction{})
	case 'C':
		ih.dispatch(statepkg.CancelTasksAction{})

	case 'o':
		ih.dispatch(statepkg.CycleSortAction{})
	case 'r':
		ih.dispatch(statepkg.ToggleSortReverseAction{})
	case 'O':
		ih.dispatch(statepkg.ToggleDirectoriesFirstAction{})
	case '.':
		ih.dispatch(statepkg.ToggleHiddenFilesAction{})
	case 'R':
		ih.dispatch(statepkg.RefreshAction{})

	case '/':
		ih.dispatch(statepkg.FilterStartAction{})
	case ':':
		ih.dispatch(statepkg.GotoStartAction{})

	case 't':
		ih.dispatch(statepkg.NewTabAction{})
	case 'w':
		ih.dispatch(statepkg.CloseTabAction{})

	case 'y':
		ih.dispatch(statepkg.YankPathAction{})
	case 'e':
		ih.dispatch(statepkg.OpenFileAction{})
	case 'E':
		if ih.state == nil || ih.state.EditorAvailable {
			ih.dispatch(statepkg.EditFileAction{})
		}
	}
	return true
}

// enter descends into a directory or opens a file with the system handler.
func (ih *InputHandler) enter() {
	if ih.state != nil && ih.state.CurrentFilePath() != "" && !ih.state.CursorIsDir() {
		ih.dispatch(statepkg.OpenFileAction{})
		return
	}
	ih.dispatch(statepkg.EnterDirectoryAction{})
}
