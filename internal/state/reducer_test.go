package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/rfm/internal/dircache"
)

func TestCursorMovementAndSelection(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"})

	state, r := newTestState(t, root)
	tab := state.ActiveTab()

	reduce(t, r, state, CursorDownAction{}, CursorDownAction{})
	assert.Equal(t, "c", tab.CursorEntry().Name)
	reduce(t, r, state, CursorBottomAction{})
	assert.Equal(t, "d", tab.CursorEntry().Name)
	reduce(t, r, state, CursorDownAction{})
	assert.Equal(t, "d", tab.CursorEntry().Name, "cursor stops at the end")
	reduce(t, r, state, PageUpAction{})
	assert.Equal(t, "a", tab.CursorEntry().Name)

	reduce(t, r, state, ToggleSelectAction{}, ToggleSelectAction{})
	assert.Equal(t, "c", tab.CursorEntry().Name, "toggling advances the cursor")
	assert.Equal(t, 2, tab.Current().SelectedCount())

	reduce(t, r, state, InvertSelectionAction{})
	assert.Equal(t, []string{filepath.Join(root, "c"), filepath.Join(root, "d")}, tab.Current().SelectedPaths())

	reduce(t, r, state, ClearSelectionAction{})
	assert.Zero(t, tab.Current().SelectedCount())
}

func TestToggleHiddenReloadsOnlyActiveTab(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".secret": "s", "plain": "p"})

	state, r := newTestState(t, root)
	reduce(t, r, state, NewTabAction{})
	other := state.Tabs[0]
	active := state.ActiveTab()
	assert.Equal(t, []string{"plain"}, entryNames(t, active, root))

	reduce(t, r, state, ToggleHiddenFilesAction{})
	assert.Equal(t, []string{".secret", "plain"}, entryNames(t, active, root))
	assert.Equal(t, []string{"plain"}, entryNames(t, other, root), "other tabs keep their own options")

	// Every cached directory of the active tab was invalidated, but only the
	// visible ones were read again.
	for _, p := range active.Cache.Paths() {
		s, _ := active.Cache.Get(p)
		visible := p == root || p == filepath.Dir(root)
		assert.Equal(t, !visible, s.Stale, p)
	}
}

func TestSortTogglesReorderVisiblePanes(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "zdir")
	writeFiles(t, root, map[string]string{"big.txt": "0123456789", "a.txt": "0"})

	state, r := newTestState(t, root)
	tab := state.ActiveTab()
	assert.Equal(t, []string{"zdir", "a.txt", "big.txt"}, entryNames(t, tab, root))

	reduce(t, r, state, ToggleDirectoriesFirstAction{})
	assert.Equal(t, []string{"a.txt", "big.txt", "zdir"}, entryNames(t, tab, root))

	reduce(t, r, state, ToggleSortReverseAction{})
	assert.Equal(t, []string{"zdir", "big.txt", "a.txt"}, entryNames(t, tab, root))
	assert.Contains(t, state.Status.Text, "sort:")

	reduce(t, r, state, CycleSortAction{})
	assert.Equal(t, dircache.SortLexical, tab.Sort.Primary())
	reduce(t, r, state, CycleSortAction{})
	assert.Equal(t, dircache.SortSize, tab.Sort.Primary())
	assert.Equal(t, []dircache.SortMethod{dircache.SortSize, dircache.SortLexical, dircache.SortNatural}, tab.Sort.Methods)
}

func TestFilterPrompt(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"alpha.go": "", "beta.go": "", "gamma.txt": ""})

	state, r := newTestState(t, root)
	tab := state.ActiveTab()

	reduce(t, r, state, FilterStartAction{})
	assert.Equal(t, ModeFilter, state.Mode)

	for _, ch := range "*.go" {
		reduce(t, r, state, InputCharAction{Char: ch})
	}
	assert.Equal(t, []string{"alpha.go", "beta.go"}, entryNames(t, tab, root))

	reduce(t, r, state, InputConfirmAction{})
	assert.Equal(t, ModeNormal, state.Mode)
	assert.Equal(t, "*.go", tab.Current().Filter.String())

	// The filter belongs to this directory and survives a reload.
	reduce(t, r, state, RefreshAction{})
	assert.Equal(t, []string{"alpha.go", "beta.go"}, entryNames(t, tab, root))

	reduce(t, r, state, FilterStartAction{})
	assert.Equal(t, "*.go", state.Input)
	reduce(t, r, state, InputBackspaceAction{}, InputBackspaceAction{}, InputBackspaceAction{})
	assert.Equal(t, "*", state.Input)
	reduce(t, r, state, InputCancelAction{})
	assert.Equal(t, []string{"alpha.go", "beta.go", "gamma.txt"}, entryNames(t, tab, root))
	assert.False(t, tab.Current().Filter.Active())
}

func TestFilterPromptKeepsLastValidPatternWhileTyping(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a1": "", "b2": ""})

	state, r := newTestState(t, root)
	tab := state.ActiveTab()

	reduce(t, r, state, FilterStartAction{})
	for _, ch := range "re:a" {
		reduce(t, r, state, InputCharAction{Char: ch})
	}
	assert.Equal(t, []string{"a1"}, entryNames(t, tab, root))

	reduce(t, r, state, InputCharAction{Char: '('})
	assert.Equal(t, []string{"a1"}, entryNames(t, tab, root))

	_, err := r.Reduce(state, InputConfirmAction{})
	assert.Error(t, err)
	assert.Equal(t, ModeNormal, state.Mode)
}

func TestEscapeClearsSelectionBeforeFilter(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"one": "", "two": ""})

	state, r := newTestState(t, root)
	tab := state.ActiveTab()
	require.NoError(t, tab.SetFilter(dircache.Filter{Kind: dircache.FilterSubstring, Pattern: "o"}))
	reduce(t, r, state, ToggleSelectAction{})

	reduce(t, r, state, ClearSelectionAction{})
	assert.Zero(t, tab.Current().SelectedCount())
	assert.True(t, tab.Current().Filter.Active())

	reduce(t, r, state, ClearSelectionAction{})
	assert.False(t, tab.Current().Filter.Active())
}

func TestGotoPrompt(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "dest")

	state, r := newTestState(t, root)
	reduce(t, r, state, GotoStartAction{})
	for _, ch := range "dest" {
		reduce(t, r, state, InputCharAction{Char: ch})
	}
	assert.Equal(t, root, state.CurrentPath(), "typing does not navigate")

	reduce(t, r, state, InputConfirmAction{})
	assert.Equal(t, filepath.Join(root, "dest"), state.CurrentPath())
	assert.Equal(t, ModeNormal, state.Mode)
	assert.Empty(t, state.Input)
}

func TestFilesystemEventMarksStaleWithoutReading(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "sub")

	state, r := newTestState(t, root)
	tab := state.ActiveTab()
	reduce(t, r, state, NewTabAction{})
	reduce(t, r, state, PrevTabAction{})

	writeFiles(t, root, map[string]string{"new.txt": "x"})
	reduce(t, r, state, FilesystemEventAction{Path: filepath.Join(root, "new.txt")})

	for _, tb := range state.Tabs {
		s, ok := tb.Cache.Get(root)
		require.True(t, ok)
		assert.True(t, s.Stale)
		assert.NotContains(t, entryNames(t, tb, root), "new.txt")
	}

	reduce(t, r, state, RefreshVisibleAction{})
	assert.Contains(t, entryNames(t, tab, root), "new.txt")
	s, _ := state.Tabs[1].Cache.Get(root)
	assert.True(t, s.Stale, "hidden tabs refresh when shown")

	reduce(t, r, state, NextTabAction{})
	assert.Contains(t, entryNames(t, state.Tabs[1], root), "new.txt")
}

func TestFilesystemEventSchedulesOneRefresh(t *testing.T) {
	root := t.TempDir()
	state, r := newTestState(t, root)
	ch := withMailbox(state)

	writeFiles(t, root, map[string]string{"a": "", "b": ""})
	reduce(t, r, state,
		FilesystemEventAction{Path: filepath.Join(root, "a")},
		FilesystemEventAction{Path: filepath.Join(root, "b")},
	)

	drainUntil(t, r, state, ch, func(a Action) bool {
		_, ok := a.(RefreshVisibleAction)
		return ok
	})
	assert.Equal(t, []string{"a", "b"}, entryNames(t, state.ActiveTab(), root))

	select {
	case a := <-ch:
		t.Fatalf("unexpected second action %T", a)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFilesystemEventForUncachedPathIsIgnored(t *testing.T) {
	root := t.TempDir()
	state, r := newTestState(t, root)
	ch := withMailbox(state)

	reduce(t, r, state, FilesystemEventAction{Path: filepath.Join(t.TempDir(), "elsewhere", "x")})
	assert.False(t, state.refreshPending)
	assert.Empty(t, ch)
}

func TestResizeAndStatus(t *testing.T) {
	state, r := newTestState(t, t.TempDir())
	reduce(t, r, state, ResizeAction{Width: 120, Height: 40}, StatusAction{Level: StatusError, Text: "boom"})
	assert.Equal(t, 120, state.ScreenWidth)
	assert.Equal(t, 37, state.pageSize())
	assert.Equal(t, StatusError, state.Status.Level)
	assert.Equal(t, "boom", state.Status.Text)
	assert.False(t, state.Status.At.IsZero())
}
