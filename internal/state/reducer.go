package state

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/rfm/internal/dircache"
	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	"github.com/kk-code-lab/rfm/internal/iotask"
	"github.com/kk-code-lab/rfm/internal/logging"
)

var userHomeDirFn = os.UserHomeDir

// StateReducer applies actions to state. It is the only code that mutates
// an AppState, and it runs on the control goroutine.
type StateReducer struct{}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// RefreshPreview syncs the preview with the cursor, e.g. right after startup.
func (r *StateReducer) RefreshPreview(state *AppState) {
	r.updatePreview(state)
}

// Reduce applies action to state. Errors are meant for the status line;
// ErrLastTab asks the caller to quit.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	tab := state.ActiveTab()
	if tab == nil {
		return state, nil
	}

	switch a := action.(type) {

	// ===== CURSOR =====

	case CursorUpAction:
		return state, r.moveCursor(state, -1)
	case CursorDownAction:
		return state, r.moveCursor(state, 1)
	case PageUpAction:
		return state, r.moveCursor(state, -state.pageSize())
	case PageDownAction:
		return state, r.moveCursor(state, state.pageSize())
	case CursorTopAction:
		if cur := tab.Current(); cur != nil {
			cur.SetCursor(0)
		}
		r.updatePreview(state)
	case CursorBottomAction:
		if cur := tab.Current(); cur != nil {
			cur.SetCursor(len(cur.Entries) - 1)
		}
		r.updatePreview(state)

	// ===== NAVIGATION =====

	case EnterDirectoryAction:
		entry := tab.CursorEntry()
		if entry == nil || !entry.IsDir() {
			return state, nil
		}
		return state, r.navigate(state, entry.FullPath)

	case GoUpAction:
		parent := tab.ParentPath()
		if parent == "" {
			return state, nil
		}
		return state, r.navigate(state, parent)

	case GoHomeAction:
		home, err := userHomeDirFn()
		if err != nil {
			return state, fmt.Errorf("home directory: %w", err)
		}
		return state, r.navigate(state, home)

	case GoToPathAction:
		return state, r.goToPath(state, a.Path)

	case HistoryBackAction:
		return state, r.stepHistory(state, -1)
	case HistoryForwardAction:
		return state, r.stepHistory(state, 1)

	// ===== SELECTION =====

	case ToggleSelectAction:
		if cur := tab.Current(); cur != nil {
			cur.ToggleSelected()
			cur.MoveCursor(1)
		}
		r.updatePreview(state)
	case InvertSelectionAction:
		if cur := tab.Current(); cur != nil {
			cur.InvertSelection()
		}
	case ClearSelectionAction:
		cur := tab.Current()
		if cur == nil {
			return state, nil
		}
		if cur.SelectedCount() > 0 {
			cur.ClearSelection()
			return state, nil
		}
		if cur.Filter.Active() {
			return state, r.setFilter(state, dircache.Filter{})
		}

	// ===== FILE OPERATIONS =====

	case CopyAction:
		r.fillPasteBuffer(state, iotask.OpCopy)
	case CutAction:
		r.fillPasteBuffer(state, iotask.OpCut)
	case PasteAction:
		r.paste(state, state.Paste.Op, iotask.Options{Overwrite: a.Overwrite, SkipExisting: a.SkipExisting})
	case PasteSymlinkAction:
		r.paste(state, iotask.OpSymlink, iotask.Options{RelativeSymlink: a.Relative})
	case DeleteAction:
		r.deleteSelection(state, a.Permanently)
	case CancelTasksAction:
		if n := state.Queue.CancelPending(); n > 0 {
			state.SetStatus(StatusInfo, "%d queued task(s) cancelled", n)
		}
	case TaskProgressAction:
		state.Queue.ApplyProgress(a.Event)
	case TaskDoneAction:
		r.completeTask(state, a.Event)

	// ===== SORT AND DISPLAY =====

	case ToggleHiddenFilesAction:
		tab.Display.ShowHidden = !tab.Display.ShowHidden
		return state, r.resort(state)
	case CycleSortAction:
		tab.Sort.SetMethod(nextSortMethod(tab.Sort.Primary()))
		state.SetStatus(StatusInfo, "sort: %s", tab.Sort.Label())
		return state, r.resort(state)
	case ToggleSortReverseAction:
		tab.Sort.Reverse = !tab.Sort.Reverse
		state.SetStatus(StatusInfo, "sort: %s", tab.Sort.Label())
		return state, r.resort(state)
	case ToggleDirectoriesFirstAction:
		tab.Sort.DirectoriesFirst = !tab.Sort.DirectoriesFirst
		return state, r.resort(state)

	// ===== PROMPTS =====

	case FilterStartAction:
		state.Mode = ModeFilter
		state.Input = ""
		if cur := tab.Current(); cur != nil {
			state.Input = cur.Filter.String()
		}
	case GotoStartAction:
		state.Mode = ModeGoto
		state.Input = ""
	case InputCharAction:
		if state.Mode == ModeNormal {
			return state, nil
		}
		state.Input += string(a.Char)
		if state.Mode == ModeFilter {
			r.applyFilterInput(state)
		}
	case InputBackspaceAction:
		if state.Mode == ModeNormal || state.Input == "" {
			return state, nil
		}
		_, size := utf8.DecodeLastRuneInString(state.Input)
		state.Input = state.Input[:len(state.Input)-size]
		if state.Mode == ModeFilter {
			r.applyFilterInput(state)
		}
	case InputConfirmAction:
		return state, r.confirmInput(state)
	case InputCancelAction:
		mode := state.Mode
		state.Mode = ModeNormal
		state.Input = ""
		if mode == ModeFilter {
			return state, r.setFilter(state, dircache.Filter{})
		}

	// ===== TABS =====

	case NewTabAction:
		next, err := tab.clone()
		if err != nil {
			return state, err
		}
		state.Tabs = slices.Insert(state.Tabs, state.Active+1, next)
		state.Active++
		return state, r.switchTab(state)
	case CloseTabAction:
		if len(state.Tabs) == 1 {
			return state, ErrLastTab
		}
		state.Tabs = slices.Delete(state.Tabs, state.Active, state.Active+1)
		if state.Active >= len(state.Tabs) {
			state.Active = len(state.Tabs) - 1
		}
		return state, r.switchTab(state)
	case NextTabAction:
		state.Active = (state.Active + 1) % len(state.Tabs)
		return state, r.switchTab(state)
	case PrevTabAction:
		state.Active = (state.Active + len(state.Tabs) - 1) % len(state.Tabs)
		return state, r.switchTab(state)

	// ===== REFRESH =====

	case RefreshAction:
		err := tab.ReloadVisible()
		state.Preview = nil
		r.updatePreview(state)
		return state, err
	case RefreshVisibleAction:
		state.refreshPending = false
		state.refreshTimer = nil
		tab.ensureCwd()
		err := tab.LoadVisible()
		r.updatePreview(state)
		return state, err
	case FilesystemEventAction:
		r.markChanged(state, a.Path)

	// ===== PREVIEW =====

	case PreviewLoadStartAction:
		r.startPreviewLoad(state, a.Token)
	case PreviewLoadResultAction:
		r.applyPreviewResult(state, a)

	// ===== MISC =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
	case StatusAction:
		state.SetStatus(a.Level, "%s", a.Text)
	}

	return state, nil
}

func (r *StateReducer) moveCursor(state *AppState, delta int) error {
	cur := state.ActiveTab().Current()
	if cur == nil {
		return nil
	}
	cur.MoveCursor(delta)
	r.updatePreview(state)
	return nil
}

// navigate changes the active tab's directory and records it in history.
func (r *StateReducer) navigate(state *AppState, target string) error {
	tab := state.ActiveTab()
	if err := tab.ChangeDirectory(target); err != nil {
		return err
	}
	tab.History.Push(tab.Cwd)
	r.afterDirectoryChange(state)
	return nil
}

func (r *StateReducer) stepHistory(state *AppState, delta int) error {
	tab := state.ActiveTab()
	target, ok := tab.History.Peek(delta)
	if !ok {
		return nil
	}
	if err := tab.ChangeDirectory(target); err != nil {
		return err
	}
	tab.History.Move(delta)
	r.afterDirectoryChange(state)
	return nil
}

func (r *StateReducer) afterDirectoryChange(state *AppState) {
	state.Mode = ModeNormal
	state.Input = ""
	tab := state.ActiveTab()
	if err := tab.LoadVisible(); err != nil {
		logging.Warn("cannot load every pane", logging.String("path", tab.Cwd), logging.Err(err))
	}
	r.updatePreview(state)
}

// goToPath jumps to a typed path. A file puts the cursor on it in its
// directory.
func (r *StateReducer) goToPath(state *AppState, raw string) error {
	target, err := expandPath(raw, state.ActiveTab().Cwd)
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		return fsutil.Classify("goto", target, err)
	}
	if info.IsDir() {
		return r.navigate(state, target)
	}

	if err := r.navigate(state, filepath.Dir(target)); err != nil {
		return err
	}
	if cur := state.ActiveTab().Current(); cur != nil && cur.SelectName(filepath.Base(target)) {
		r.updatePreview(state)
	}
	return nil
}

func expandPath(raw, cwd string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cwd, nil
	}
	if raw == "~" || strings.HasPrefix(raw, "~/") || strings.HasPrefix(raw, `~\`) {
		home, err := userHomeDirFn()
		if err != nil {
			return "", fmt.Errorf("home directory: %w", err)
		}
		return filepath.Join(home, raw[1:]), nil
	}
	if !filepath.IsAbs(raw) {
		return filepath.Join(cwd, raw), nil
	}
	return filepath.Clean(raw), nil
}

// resort invalidates the active tab's cache and reloads what is on screen.
// Other directories are re-sorted lazily when next shown.
func (r *StateReducer) resort(state *AppState) error {
	tab := state.ActiveTab()
	tab.Cache.MarkAllStale()
	err := tab.LoadVisible()
	r.updatePreview(state)
	return err
}

func nextSortMethod(current dircache.SortMethod) dircache.SortMethod {
	all := dircache.AllSortMethods()
	for i, m := range all {
		if m == current {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (r *StateReducer) setFilter(state *AppState, f dircache.Filter) error {
	err := state.ActiveTab().SetFilter(f)
	r.updatePreview(state)
	return err
}

// applyFilterInput filters while typing. Patterns that do not parse yet
// (an unfinished regex) keep the previous filter.
func (r *StateReducer) applyFilterInput(state *AppState) {
	f, err := dircache.ParseFilter(state.Input)
	if err != nil {
		return
	}
	if err := r.setFilter(state, f); err != nil {
		state.SetError(err)
	}
}

func (r *StateReducer) confirmInput(state *AppState) error {
	mode, input := state.Mode, state.Input
	state.Mode = ModeNormal
	state.Input = ""

	switch mode {
	case ModeFilter:
		f, err := dircache.ParseFilter(input)
		if err != nil {
			return err
		}
		return r.setFilter(state, f)
	case ModeGoto:
		return r.goToPath(state, input)
	}
	return nil
}

func (r *StateReducer) switchTab(state *AppState) error {
	state.Mode = ModeNormal
	state.Input = ""
	tab := state.ActiveTab()
	tab.ensureCwd()
	err := tab.LoadVisible()
	state.Preview = nil
	r.updatePreview(state)
	return err
}

// markChanged flags path and its parent as stale in every tab. Nothing is
// re-read here; the visible panes refresh after the watch debounce.
func (r *StateReducer) markChanged(state *AppState, path string) {
	if path == "" {
		return
	}
	path = dircache.Canonical(path)
	parent := filepath.Dir(path)
	marked := false
	for _, tab := range state.Tabs {
		if tab.Cache.MarkStale(path) {
			marked = true
		}
		if parent != path && tab.Cache.MarkStale(parent) {
			marked = true
		}
	}
	if marked {
		r.scheduleRefresh(state)
	}
}
