// Package iotask runs bulk file operations (copy, cut, symlink, delete) on a
// background goroutine, one task at a time, reporting progress through a Sink.
package iotask

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
)

// Operation is the kind of work a Task performs.
type Operation int

const (
	OpCopy Operation = iota
	OpCut
	OpSymlink
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpCut:
		return "move"
	case OpSymlink:
		return "link"
	case OpDelete:
		return "delete"
	default:
		return "copy"
	}
}

// Options tune how a Task treats existing destinations and deletions.
type Options struct {
	// Overwrite replaces an existing destination instead of picking a new name.
	Overwrite bool
	// SkipExisting leaves sources alone whose destination already exists.
	SkipExisting bool
	// Permanently deletes instead of moving to the trash.
	Permanently bool
	// RelativeSymlink makes symlink targets relative to the link's directory.
	RelativeSymlink bool
}

// Task describes one queued operation. It is not modified after Enqueue.
type Task struct {
	ID      uuid.UUID
	Op      Operation
	Options Options
	Sources []string
	Dest    string
}

// NewTask builds a task with a fresh ID and cleaned paths.
func NewTask(op Operation, opts Options, sources []string, dest string) Task {
	cleaned := make([]string, 0, len(sources))
	for _, src := range sources {
		cleaned = append(cleaned, filepath.Clean(src))
	}
	if dest != "" {
		dest = filepath.Clean(dest)
	}
	return Task{
		ID:      uuid.New(),
		Op:      op,
		Options: opts,
		Sources: cleaned,
		Dest:    dest,
	}
}

func (t Task) clone() Task {
	t.Sources = slices.Clone(t.Sources)
	return t
}

// SourceDirs returns the distinct parent directories of the sources.
func (t Task) SourceDirs() []string {
	var dirs []string
	for _, src := range t.Sources {
		dir := filepath.Dir(src)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// AffectedDirs lists every directory whose listing the task can change.
func (t Task) AffectedDirs() []string {
	dirs := t.SourceDirs()
	if t.Op != OpDelete && t.Dest != "" && !slices.Contains(dirs, t.Dest) {
		dirs = append(dirs, t.Dest)
	}
	return dirs
}

// RemovedPaths lists sources that no longer exist after a successful run.
func (t Task) RemovedPaths() []string {
	if t.Op != OpCut && t.Op != OpDelete {
		return nil
	}
	return slices.Clone(t.Sources)
}

// Describe is a short human label such as "copy 3 items".
func (t Task) Describe() string {
	if len(t.Sources) == 1 {
		return fmt.Sprintf("%s %s", t.Op, filepath.Base(t.Sources[0]))
	}
	return fmt.Sprintf("%s %d items", t.Op, len(t.Sources))
}
