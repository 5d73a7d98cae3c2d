// Package dircache keeps sorted directory snapshots keyed by path so that
// navigating back and forth does not re-read directories that did not change.
//
// A Cache is owned by exactly one goroutine. Background work never touches it;
// it sends messages to the owner, which then calls MarkStale, Reload or Remove.
package dircache

import (
	"errors"
	"path/filepath"
	"sort"

	"github.com/kk-code-lab/rfm/internal/logging"
)

// Cache maps canonical directory paths to snapshots.
type Cache struct {
	snapshots map[string]*Snapshot
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{snapshots: make(map[string]*Snapshot)}
}

// Canonical returns the key used for path: absolute and cleaned. Symlinks are
// kept as typed so a directory reached through a link is listed under it.
func Canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// GetOrCreate returns the snapshot for path, reading it on a miss and
// reloading it when it is stale or changed on disk. When a reload fails the
// previous snapshot is returned alongside the error and stays cached.
func (c *Cache) GetOrCreate(path string, sortOpts SortOptions, display DisplayOptions) (*Snapshot, error) {
	key := Canonical(path)
	if s, ok := c.snapshots[key]; ok {
		if s.NeedsReload() {
			if err := s.Reload(sortOpts, display); err != nil {
				s.Stale = true
				logging.Warn("reload failed", logging.String("path", key), logging.Err(err))
				return s, err
			}
		}
		return s, nil
	}

	s, err := Read(key, sortOpts, display)
	if err != nil {
		return nil, err
	}
	c.snapshots[key] = s
	return s, nil
}

// PopOrCreate removes and returns the snapshot for path, reading it when
// absent. The caller owns it until PutBack. A failed reload of a cached
// snapshot leaves it in the cache.
func (c *Cache) PopOrCreate(path string, sortOpts SortOptions, display DisplayOptions) (*Snapshot, error) {
	key := Canonical(path)
	if s, ok := c.snapshots[key]; ok {
		if s.NeedsReload() {
			if err := s.Reload(sortOpts, display); err != nil {
				s.Stale = true
				return nil, err
			}
		}
		delete(c.snapshots, key)
		return s, nil
	}
	return Read(key, sortOpts, display)
}

// PutBack stores s under its own path, replacing whatever is there.
func (c *Cache) PutBack(s *Snapshot) {
	if s == nil {
		return
	}
	s.Path = Canonical(s.Path)
	c.snapshots[s.Path] = s
}

// Get returns the cached snapshot without any I/O.
func (c *Cache) Get(path string) (*Snapshot, bool) {
	s, ok := c.snapshots[Canonical(path)]
	return s, ok
}

// Contains reports whether path is cached.
func (c *Cache) Contains(path string) bool {
	_, ok := c.snapshots[Canonical(path)]
	return ok
}

// MarkStale flags path for re-reading on next access. No I/O.
func (c *Cache) MarkStale(path string) bool {
	s, ok := c.snapshots[Canonical(path)]
	if ok {
		s.Stale = true
	}
	return ok
}

// MarkAllStale flags every cached snapshot.
func (c *Cache) MarkAllStale() {
	for _, s := range c.snapshots {
		s.Stale = true
	}
}

// Reload re-reads path if it is cached. Uncached paths are ignored.
func (c *Cache) Reload(path string, sortOpts SortOptions, display DisplayOptions) error {
	s, ok := c.snapshots[Canonical(path)]
	if !ok {
		return nil
	}
	if err := s.Reload(sortOpts, display); err != nil {
		s.Stale = true
		return err
	}
	return nil
}

// Remove evicts path.
func (c *Cache) Remove(path string) {
	delete(c.snapshots, Canonical(path))
}

// RemoveTree evicts path and every cached descendant of it.
func (c *Cache) RemoveTree(path string) {
	root := Canonical(path)
	prefix := root + string(filepath.Separator)
	for key := range c.snapshots {
		if key == root || (len(key) > len(prefix) && key[:len(prefix)] == prefix) {
			delete(c.snapshots, key)
		}
	}
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	return len(c.snapshots)
}

// Paths lists cached paths in sorted order.
func (c *Cache) Paths() []string {
	paths := make([]string, 0, len(c.snapshots))
	for key := range c.snapshots {
		paths = append(paths, key)
	}
	sort.Strings(paths)
	return paths
}

// PopulateToRoot makes sure every ancestor of target is cached with its
// cursor on the child the walk came from. Ancestors that cannot be read are
// skipped and their errors returned together.
func (c *Cache) PopulateToRoot(target string, sortOpts SortOptions, display DisplayOptions) error {
	child := Canonical(target)
	var errs []error
	for {
		parent := filepath.Dir(child)
		if parent == child {
			break
		}

		s, err := c.GetOrCreate(parent, sortOpts, display)
		if err != nil {
			errs = append(errs, err)
		}
		if s != nil {
			s.SelectName(filepath.Base(child))
		}
		child = parent
	}
	return errors.Join(errs...)
}
