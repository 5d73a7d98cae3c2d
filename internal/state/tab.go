package state

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kk-code-lab/rfm/internal/dircache"
	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	"github.com/kk-code-lab/rfm/internal/logging"
)

// ErrLastTab is returned when closing the only open tab.
var ErrLastTab = errors.New("cannot close the last tab")

// Tab is one independent view: a working directory, its own snapshot cache,
// sort and display options and a history.
type Tab struct {
	ID      uuid.UUID
	Cwd     string
	Cache   *dircache.Cache
	Sort    dircache.SortOptions
	Display dircache.DisplayOptions
	History *NavHistory
}

// NewTab opens a tab at path and caches every ancestor so the parent pane
// and going up work straight away.
func NewTab(path string, sortOpts dircache.SortOptions, display dircache.DisplayOptions) (*Tab, error) {
	cwd := dircache.Canonical(path)
	t := &Tab{
		ID:      uuid.New(),
		Cache:   dircache.NewCache(),
		Sort:    sortOpts.Clone(),
		Display: display,
	}
	if _, err := t.Cache.GetOrCreate(cwd, t.Sort, t.Display); err != nil {
		return nil, err
	}
	if err := t.Cache.PopulateToRoot(cwd, t.Sort, t.Display); err != nil {
		logging.Warn("cannot read every ancestor", logging.String("path", cwd), logging.Err(err))
	}
	t.Cwd = cwd
	t.History = NewNavHistory(cwd)
	return t, nil
}

// clone opens a second tab at the same place with the same options.
func (t *Tab) clone() (*Tab, error) {
	return NewTab(t.Cwd, t.Sort, t.Display)
}

// Current is the snapshot of the working directory. No I/O.
func (t *Tab) Current() *dircache.Snapshot {
	s, _ := t.Cache.Get(t.Cwd)
	return s
}

// ParentPath is the working directory's parent, or "" at the root.
func (t *Tab) ParentPath() string {
	parent := filepath.Dir(t.Cwd)
	if parent == t.Cwd {
		return ""
	}
	return parent
}

// Parent is the snapshot of the parent directory, if cached.
func (t *Tab) Parent() *dircache.Snapshot {
	parent := t.ParentPath()
	if parent == "" {
		return nil
	}
	s, _ := t.Cache.Get(parent)
	return s
}

// CursorEntry returns the entry under the cursor in the working directory.
func (t *Tab) CursorEntry() *fsutil.Entry {
	if cur := t.Current(); cur != nil {
		return cur.CursorEntry()
	}
	return nil
}

// PreviewPath is the directory shown in the preview pane, or "" when the
// cursor is not on a directory.
func (t *Tab) PreviewPath() string {
	entry := t.CursorEntry()
	if entry == nil || !entry.IsDir() {
		return ""
	}
	return entry.FullPath
}

// PreviewDir is the cached snapshot of PreviewPath.
func (t *Tab) PreviewDir() *dircache.Snapshot {
	path := t.PreviewPath()
	if path == "" {
		return nil
	}
	s, _ := t.Cache.Get(path)
	return s
}

// VisiblePaths lists the directories shown in the three panes.
func (t *Tab) VisiblePaths() []string {
	paths := make([]string, 0, 3)
	if parent := t.ParentPath(); parent != "" {
		paths = append(paths, parent)
	}
	paths = append(paths, t.Cwd)
	if preview := t.PreviewPath(); preview != "" {
		paths = append(paths, preview)
	}
	return paths
}

// ChangeDirectory makes target the working directory. The snapshot is taken
// out of the cache while cursors are repositioned and put back afterwards. A
// target that is neither the parent nor a child of the current directory is a
// jump, and its ancestors are cached on the way.
func (t *Tab) ChangeDirectory(target string) error {
	target = dircache.Canonical(target)
	prev := t.Cwd

	next, err := t.Cache.PopOrCreate(target, t.Sort, t.Display)
	if err != nil {
		return err
	}

	switch {
	case target == prev:
	case filepath.Dir(prev) == target:
		next.SelectName(filepath.Base(prev))
	case filepath.Dir(target) == prev:
		if parent, ok := t.Cache.Get(prev); ok {
			parent.SelectName(filepath.Base(target))
		}
	default:
		if err := t.Cache.PopulateToRoot(target, t.Sort, t.Display); err != nil {
			logging.Warn("cannot read every ancestor", logging.String("path", target), logging.Err(err))
		}
	}

	t.Cache.PutBack(next)
	t.Cwd = target
	return nil
}

// LoadVisible makes sure the parent and preview panes are cached and fresh.
// The working directory itself is refreshed too. Errors from the preview
// directory are ignored: the pane just stays empty.
func (t *Tab) LoadVisible() error {
	var errs []error
	if _, err := t.Cache.GetOrCreate(t.Cwd, t.Sort, t.Display); err != nil {
		errs = append(errs, err)
	}
	if parent := t.ParentPath(); parent != "" {
		s, err := t.Cache.GetOrCreate(parent, t.Sort, t.Display)
		if err != nil {
			errs = append(errs, err)
		}
		if s != nil {
			s.SelectName(filepath.Base(t.Cwd))
		}
	}
	t.LoadPreviewDir()
	return errors.Join(errs...)
}

// LoadPreviewDir caches the directory under the cursor, if any.
func (t *Tab) LoadPreviewDir() {
	preview := t.PreviewPath()
	if preview == "" {
		return
	}
	if _, err := t.Cache.GetOrCreate(preview, t.Sort, t.Display); err != nil {
		logging.Debug("preview directory unavailable", logging.String("path", preview), logging.Err(err))
	}
}

// ReloadVisible forces a re-read of every visible pane.
func (t *Tab) ReloadVisible() error {
	var errs []error
	for _, path := range t.VisiblePaths() {
		if !t.Cache.Contains(path) {
			continue
		}
		if err := t.Cache.Reload(path, t.Sort, t.Display); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, t.LoadVisible())
	return errors.Join(errs...)
}

// SetFilter applies f to the working directory only.
func (t *Tab) SetFilter(f dircache.Filter) error {
	cur := t.Current()
	if cur == nil {
		return nil
	}
	cur.Filter = f
	return cur.Reload(t.Sort, t.Display)
}

// ensureCwd moves to the nearest existing ancestor when the working
// directory was removed underneath the tab.
func (t *Tab) ensureCwd() {
	dir := t.Cwd
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
	if dir == t.Cwd {
		return
	}
	if err := t.ChangeDirectory(dir); err != nil {
		logging.Warn("cannot leave removed directory", logging.String("path", t.Cwd), logging.Err(err))
		return
	}
	t.History.Push(t.Cwd)
}
