package state

import "github.com/kk-code-lab/rfm/internal/iotask"

// Action represents any state-changing action
type Action interface{}

// Cursor movement inside the working directory
type CursorUpAction struct{}
type CursorDownAction struct{}
type CursorTopAction struct{}
type CursorBottomAction struct{}
type PageUpAction struct{}
type PageDownAction struct{}

// Navigation
type EnterDirectoryAction struct{}
type GoUpAction struct{}
type GoHomeAction struct{}
type HistoryBackAction struct{}
type HistoryForwardAction struct{}

type GoToPathAction struct {
	Path string
}

// Selection
type ToggleSelectAction struct{}
type InvertSelectionAction struct{}
type ClearSelectionAction struct{}

// Paste buffer and file operations
type CopyAction struct{}
type CutAction struct{}

// PasteAction pastes the buffer into the current directory. Name clashes get
// a numeric suffix unless Overwrite replaces or SkipExisting leaves them.
type PasteAction struct {
	Overwrite    bool
	SkipExisting bool
}

type PasteSymlinkAction struct {
	Relative bool
}

type DeleteAction struct {
	Permanently bool
}

type CancelTasksAction struct{}

// TaskProgressAction carries a worker event other than completion.
type TaskProgressAction struct {
	Event iotask.Event
}

// TaskDoneAction is posted by a worker when its task ends.
type TaskDoneAction struct {
	Event iotask.DoneEvent
}

// Sorting and visibility
type ToggleHiddenFilesAction struct{}
type CycleSortAction struct{}
type ToggleSortReverseAction struct{}
type ToggleDirectoriesFirstAction struct{}

// Prompts: filter (/) and go to path (:)
type FilterStartAction struct{}
type GotoStartAction struct{}
type InputBackspaceAction struct{}
type InputConfirmAction struct{}
type InputCancelAction struct{}

type InputCharAction struct {
	Char rune
}

// Tabs
type NewTabAction struct{}
type CloseTabAction struct{}
type NextTabAction struct{}
type PrevTabAction struct{}

// RefreshAction re-reads every visible pane now.
type RefreshAction struct{}

// RefreshVisibleAction reloads visible panes that were marked stale.
type RefreshVisibleAction struct{}

// FilesystemEventAction reports a change under a watched directory.
type FilesystemEventAction struct {
	Path string
}

// Preview loading
type PreviewLoadStartAction struct {
	Token int
}

type PreviewLoadResultAction struct {
	Token   int
	Path    string
	Preview *PreviewData
	Err     error
}

type ResizeAction struct {
	Width  int
	Height int
}

// StatusAction shows a message produced outside the reducer.
type StatusAction struct {
	Level StatusLevel
	Text  string
}

// Handled by the application, not the reducer
type QuitAction struct{}
type QuitAndChangeAction struct{}
type SuspendAction struct{}
type YankPathAction struct{}
type OpenFileAction struct{}
type EditFileAction struct{}
