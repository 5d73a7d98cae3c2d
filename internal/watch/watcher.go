// Package watch reports changes inside the directories currently on screen.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/kk-code-lab/rfm/internal/logging"
)

// Handler receives the path named by a filesystem event. It is called from
// the watcher goroutine and must not block.
type Handler func(path string)

// Watcher keeps an fsnotify watch on a changing set of directories.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	watched map[string]struct{}
	handler Handler

	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a watcher with nothing watched yet.
func New(handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fsw:     fsw,
		watched: make(map[string]struct{}),
		handler: handler,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

// Sync makes the watched set equal to paths. Directories that cannot be
// watched are skipped; their errors are returned together.
func (w *Watcher) Sync(paths []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	want := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		want[filepath.Clean(p)] = struct{}{}
	}

	var errs []error
	for p := range w.watched {
		if _, keep := want[p]; keep {
			continue
		}
		// The directory may already be gone, which drops the watch by itself.
		_ = w.fsw.Remove(p)
		delete(w.watched, p)
	}
	for p := range want {
		if _, ok := w.watched[p]; ok {
			continue
		}
		if err := w.fsw.Add(p); err != nil {
			logging.Debug("cannot watch directory", logging.String("path", p), logging.Err(err))
			errs = append(errs, err)
			continue
		}
		w.watched[p] = struct{}{}
	}
	return errors.Join(errs...)
}

// Watched lists the directories under watch, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.watched))
	for p := range w.watched {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Permission bits alone do not change what a listing shows.
			if event.Op == fsnotify.Chmod {
				continue
			}
			if w.handler != nil {
				w.handler(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("watcher error", logging.Err(err))
		case <-ctx.Done():
			return
		}
	}
}
