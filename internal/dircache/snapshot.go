package dircache

import (
	"time"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	"golang.org/x/text/unicode/norm"
)

// listDirFn performs the actual directory read; overridable in tests so they
// can count listings.
var listDirFn = fsutil.ListDir

// statDirModTimeFn reports a directory's mtime without listing it.
var statDirModTimeFn = fsutil.DirModTime

// Snapshot is the sorted, filtered listing of one directory at a point in time.
type Snapshot struct {
	Path        string
	Entries     []fsutil.Entry
	Stale       bool
	DirModified time.Time

	// Filter is an interactive filter that applies to this directory only and
	// survives reloads.
	Filter Filter

	cursor int
}

// Read lists path and builds a fresh snapshot.
func Read(path string, sortOpts SortOptions, display DisplayOptions) (*Snapshot, error) {
	entries, modified, err := readEntries(path, sortOpts, display, Filter{})
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Path:        path,
		Entries:     entries,
		DirModified: modified,
		cursor:      -1,
	}
	if len(entries) > 0 {
		s.cursor = 0
	}
	return s, nil
}

// Reload re-reads the directory, keeping the cursor on the same name when it
// still exists and keeping selections by name. On error the snapshot is left
// untouched.
func (s *Snapshot) Reload(sortOpts SortOptions, display DisplayOptions) error {
	entries, modified, err := readEntries(s.Path, sortOpts, display, s.Filter)
	if err != nil {
		return err
	}

	prevName := ""
	if entry := s.CursorEntry(); entry != nil {
		prevName = entry.Name
	}
	prevIndex := s.cursor

	selected := make(map[string]struct{})
	for _, e := range s.Entries {
		if e.Selected {
			selected[e.Name] = struct{}{}
		}
	}
	if len(selected) > 0 {
		for i := range entries {
			if _, ok := selected[entries[i].Name]; ok {
				entries[i].Selected = true
			}
		}
	}

	s.Entries = entries
	s.DirModified = modified
	s.Stale = false
	s.restoreCursor(prevName, prevIndex)
	return nil
}

func (s *Snapshot) restoreCursor(prevName string, prevIndex int) {
	if len(s.Entries) == 0 {
		s.cursor = -1
		return
	}
	if prevName != "" {
		if idx := s.IndexOf(prevName); idx >= 0 {
			s.cursor = idx
			return
		}
	}
	switch {
	case prevIndex < 0:
		s.cursor = 0
	case prevIndex >= len(s.Entries):
		s.cursor = len(s.Entries) - 1
	default:
		s.cursor = prevIndex
	}
}

// NeedsReload reports whether the snapshot was invalidated or the directory
// changed on disk since it was read.
func (s *Snapshot) NeedsReload() bool {
	if s.Stale {
		return true
	}
	modified, err := statDirModTimeFn(s.Path)
	if err != nil {
		return true
	}
	return modified.After(s.DirModified)
}

// Cursor returns the cursor index; ok is false for an empty listing.
func (s *Snapshot) Cursor() (int, bool) {
	if s.cursor < 0 || s.cursor >= len(s.Entries) {
		return -1, false
	}
	return s.cursor, true
}

// SetCursor moves the cursor, clamping to the listing bounds.
func (s *Snapshot) SetCursor(idx int) {
	switch {
	case len(s.Entries) == 0:
		s.cursor = -1
	case idx < 0:
		s.cursor = 0
	case idx >= len(s.Entries):
		s.cursor = len(s.Entries) - 1
	default:
		s.cursor = idx
	}
}

// MoveCursor shifts the cursor by delta entries.
func (s *Snapshot) MoveCursor(delta int) {
	idx, ok := s.Cursor()
	if !ok {
		return
	}
	s.SetCursor(idx + delta)
}

// CursorEntry returns the entry under the cursor, or nil.
func (s *Snapshot) CursorEntry() *fsutil.Entry {
	idx, ok := s.Cursor()
	if !ok {
		return nil
	}
	return &s.Entries[idx]
}

// IndexOf returns the index of the entry named name, or -1.
func (s *Snapshot) IndexOf(name string) int {
	for i := range s.Entries {
		if s.Entries[i].Name == name {
			return i
		}
	}
	return -1
}

// SelectName places the cursor on name if present.
func (s *Snapshot) SelectName(name string) bool {
	idx := s.IndexOf(norm.NFC.String(name))
	if idx < 0 {
		return false
	}
	s.cursor = idx
	return true
}

// ToggleSelected flips the selection mark of the cursor entry.
func (s *Snapshot) ToggleSelected() {
	if entry := s.CursorEntry(); entry != nil {
		entry.Selected = !entry.Selected
	}
}

// InvertSelection flips the selection mark of every entry.
func (s *Snapshot) InvertSelection() {
	for i := range s.Entries {
		s.Entries[i].Selected = !s.Entries[i].Selected
	}
}

// ClearSelection removes every selection mark.
func (s *Snapshot) ClearSelection() {
	for i := range s.Entries {
		s.Entries[i].Selected = false
	}
}

// SelectedPaths lists selected entries, falling back to the cursor entry.
func (s *Snapshot) SelectedPaths() []string {
	var paths []string
	for _, e := range s.Entries {
		if e.Selected {
			paths = append(paths, e.FullPath)
		}
	}
	if len(paths) == 0 {
		if entry := s.CursorEntry(); entry != nil {
			paths = append(paths, entry.FullPath)
		}
	}
	return paths
}

// SelectedCount returns how many entries carry a selection mark.
func (s *Snapshot) SelectedCount() int {
	n := 0
	for _, e := range s.Entries {
		if e.Selected {
			n++
		}
	}
	return n
}

func readEntries(path string, sortOpts SortOptions, display DisplayOptions, local Filter) ([]fsutil.Entry, time.Time, error) {
	listing, err := listDirFn(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	visible := make([]fsutil.Entry, 0, len(listing.Entries))
	for _, entry := range listing.Entries {
		if !display.Visible(entry) || !local.Match(entry.Name) {
			continue
		}
		visible = append(visible, entry)
	}

	SortEntries(visible, sortOpts)
	return visible, listing.DirModified, nil
}
