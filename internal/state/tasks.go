package state

import (
	"os"

	"github.com/kk-code-lab/rfm/internal/iotask"
	"github.com/kk-code-lab/rfm/internal/logging"
)

// fillPasteBuffer remembers the selection (or the cursor entry) for a later
// paste and clears the selection marks.
func (r *StateReducer) fillPasteBuffer(state *AppState, op iotask.Operation) {
	tab := state.ActiveTab()
	cur := tab.Current()
	if cur == nil {
		return
	}
	paths := cur.SelectedPaths()
	if len(paths) == 0 {
		return
	}
	state.Paste = PasteBuffer{Op: op, Paths: paths}
	cur.ClearSelection()

	verb := "copied"
	if op == iotask.OpCut {
		verb = "cut"
	}
	state.SetStatus(StatusInfo, "%d item(s) %s", len(paths), verb)
}

// paste queues the paste buffer into the working directory.
func (r *StateReducer) paste(state *AppState, op iotask.Operation, opts iotask.Options) {
	if state.Paste.Empty() {
		state.SetStatus(StatusError, "nothing to paste")
		return
	}
	task := iotask.NewTask(op, opts, state.Paste.Paths, state.ActiveTab().Cwd)
	if op == iotask.OpCut {
		// The sources are gone once the move runs.
		state.Paste = PasteBuffer{}
	}
	r.enqueue(state, task)
}

func (r *StateReducer) deleteSelection(state *AppState, permanently bool) {
	cur := state.ActiveTab().Current()
	if cur == nil {
		return
	}
	paths := cur.SelectedPaths()
	if len(paths) == 0 {
		return
	}
	cur.ClearSelection()
	r.enqueue(state, iotask.NewTask(iotask.OpDelete, iotask.Options{Permanently: permanently}, paths, ""))
}

func (r *StateReducer) enqueue(state *AppState, task iotask.Task) {
	task = state.Queue.Enqueue(task)
	if !state.Queue.StartNext(state.taskSink()) {
		state.SetStatus(StatusInfo, "queued: %s", task.Describe())
	}
}

// completeTask refreshes every cache the finished task touched, reports the
// outcome and starts the next task.
func (r *StateReducer) completeTask(state *AppState, ev iotask.DoneEvent) {
	task, ok := state.Queue.Finish(ev)
	if !ok {
		return
	}

	removed := task.RemovedPaths()
	dirs := task.AffectedDirs()
	for _, tab := range state.Tabs {
		for _, p := range removed {
			if !pathExists(p) {
				tab.Cache.RemoveTree(p)
			}
		}
		for _, dir := range dirs {
			if !pathExists(dir) {
				tab.Cache.RemoveTree(dir)
				continue
			}
			if err := tab.Cache.Reload(dir, tab.Sort, tab.Display); err != nil {
				logging.Warn("reload after task failed", logging.String("path", dir), logging.Err(err))
			}
		}
		tab.ensureCwd()
	}

	switch {
	case ev.Err != nil:
		state.SetStatus(StatusError, "%s failed: %v", task.Describe(), ev.Err)
	case ev.Skipped > 0:
		state.SetStatus(StatusSuccess, "%s done (%d skipped)", task.Describe(), ev.Skipped)
	default:
		state.SetStatus(StatusSuccess, "%s done", task.Describe())
	}

	state.Queue.StartNext(state.taskSink())

	if tab := state.ActiveTab(); tab != nil {
		if err := tab.LoadVisible(); err != nil {
			logging.Warn("cannot refresh panes", logging.String("path", tab.Cwd), logging.Err(err))
		}
	}
	state.Preview = nil
	r.updatePreview(state)
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
