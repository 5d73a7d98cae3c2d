// Package state holds everything the UI shows and the reducer that changes it.
// AppState is owned by the control goroutine; other goroutines talk to it only
// by dispatching actions.
package state

import (
	"fmt"
	"time"

	"github.com/kk-code-lab/rfm/internal/config"
	"github.com/kk-code-lab/rfm/internal/iotask"
)

// StatusLevel colours a status message.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusError
)

// StatusMessage is the one-line, non-modal feedback shown in the status bar.
type StatusMessage struct {
	Level StatusLevel
	Text  string
	At    time.Time
}

// PasteBuffer holds the paths picked with copy or cut.
type PasteBuffer struct {
	Op    iotask.Operation
	Paths []string
}

// Empty reports whether there is nothing to paste.
func (b PasteBuffer) Empty() bool {
	return len(b.Paths) == 0
}

// InputMode says where typed runes go.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeFilter
	ModeGoto
)

// AppState represents the complete application state
type AppState struct {
	Tabs   []*Tab
	Active int

	Queue  *iotask.Queue
	Config *config.Config

	Status StatusMessage
	Paste  PasteBuffer

	Mode  InputMode
	Input string

	// Preview of the regular file under the cursor; directories are
	// previewed straight from the tab's cache.
	Preview       *PreviewData
	PreviewLoader PreviewLoader

	ScreenWidth  int
	ScreenHeight int

	ClipboardAvailable bool
	EditorAvailable    bool
	LastYankTime       time.Time

	dispatchAction func(Action)

	previewTokenSeq    int
	previewPending     int
	previewPendingPath string
	previewActive      int
	previewTimer       *time.Timer

	refreshPending bool
	refreshTimer   *time.Timer
}

// NewAppState opens a single tab at startPath using cfg for its options.
func NewAppState(cfg *config.Config, startPath string) (*AppState, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	tab, err := NewTab(startPath, cfg.SortOptions(), cfg.DisplayOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", startPath, err)
	}
	s := &AppState{
		Tabs:   []*Tab{tab},
		Queue:  iotask.NewQueue(),
		Config: cfg,
	}
	if err := tab.LoadVisible(); err != nil {
		s.SetError(err)
	}
	return s, nil
}

// ActiveTab returns the tab that receives input.
func (s *AppState) ActiveTab() *Tab {
	if len(s.Tabs) == 0 {
		return nil
	}
	if s.Active < 0 || s.Active >= len(s.Tabs) {
		s.Active = 0
	}
	return s.Tabs[s.Active]
}

// CurrentPath is the active tab's working directory.
func (s *AppState) CurrentPath() string {
	if tab := s.ActiveTab(); tab != nil {
		return tab.Cwd
	}
	return ""
}

// CurrentFilePath is the full path of the entry under the cursor.
func (s *AppState) CurrentFilePath() string {
	if tab := s.ActiveTab(); tab != nil {
		if entry := tab.CursorEntry(); entry != nil {
			return entry.FullPath
		}
	}
	return ""
}

// CursorIsDir reports whether the cursor entry is a directory.
func (s *AppState) CursorIsDir() bool {
	if tab := s.ActiveTab(); tab != nil {
		if entry := tab.CursorEntry(); entry != nil {
			return entry.IsDir()
		}
	}
	return false
}

// WatchedPaths are the directories the filesystem watcher should follow.
func (s *AppState) WatchedPaths() []string {
	if s.Config != nil && !s.Config.Watch.Enabled {
		return nil
	}
	tab := s.ActiveTab()
	if tab == nil {
		return nil
	}
	var paths []string
	for _, p := range tab.VisiblePaths() {
		if tab.Cache.Contains(p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// SetStatus replaces the status message.
func (s *AppState) SetStatus(level StatusLevel, format string, args ...any) {
	s.Status = StatusMessage{Level: level, Text: fmt.Sprintf(format, args...), At: time.Now()}
}

// SetError shows err in the status line.
func (s *AppState) SetError(err error) {
	if err == nil {
		return
	}
	s.SetStatus(StatusError, "%v", err)
}

// SetDispatch installs the function background work uses to post actions.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.dispatchAction = fn
}

func (s *AppState) getDispatch() func(Action) {
	return s.dispatchAction
}

// taskSink turns worker events into actions.
func (s *AppState) taskSink() iotask.Sink {
	dispatch := s.getDispatch()
	return func(ev iotask.Event) {
		if dispatch == nil {
			return
		}
		if done, ok := ev.(iotask.DoneEvent); ok {
			dispatch(TaskDoneAction{Event: done})
			return
		}
		dispatch(TaskProgressAction{Event: ev})
	}
}

func (s *AppState) previewMaxBytes() int64 {
	if s.Config == nil || s.Config.Preview.MaxBytes <= 0 {
		return defaultPreviewBytes
	}
	return s.Config.Preview.MaxBytes
}

func (s *AppState) refreshDebounce() time.Duration {
	if s.Config == nil {
		return 250 * time.Millisecond
	}
	return s.Config.Watch.Debounce
}

// pageSize is how many rows a page jump moves: the list height minus the
// header and status lines.
func (s *AppState) pageSize() int {
	if s.ScreenHeight > 3 {
		return s.ScreenHeight - 3
	}
	return 1
}
