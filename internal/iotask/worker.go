package iotask

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	"github.com/kk-code-lab/rfm/internal/logging"
)

// Swapped in tests: the trash location and the device checks behind the
// rename fast path of a cut.
var (
	openTrashFn  = OpenTrash
	sameDeviceFn = fsutil.SameDevice
	renameFn     = os.Rename
)

// Worker executes one Task on the calling goroutine. The first error aborts
// the task; work already done is not rolled back.
type Worker struct {
	task    Task
	sink    Sink
	totals  []sourceTotals
	skipped int
}

// NewWorker prepares a worker for t. sink may be nil.
func NewWorker(t Task, sink Sink) *Worker {
	return &Worker{task: t, sink: sink}
}

// Run performs the task, emits its DoneEvent and returns it.
func (w *Worker) Run() DoneEvent {
	start := time.Now()
	err := w.run()
	done := DoneEvent{Task: w.task, Err: err, Skipped: w.skipped, Elapsed: time.Since(start)}
	w.emit(done)
	return done
}

func (w *Worker) emit(ev Event) {
	if w.sink != nil {
		w.sink(ev)
	}
}

func (w *Worker) run() error {
	if w.task.Op != OpDelete {
		if err := checkDestDir(w.task.Dest); err != nil {
			return err
		}
	}

	totals, err := measure(w.task)
	if err != nil {
		return err
	}
	w.totals = totals
	files, bytes := sumTotals(totals)
	w.emit(TotalsEvent{TaskID: w.task.ID, Files: files, Bytes: bytes})

	for i, src := range w.task.Sources {
		var err error
		switch w.task.Op {
		case OpCopy:
			err = w.copyOne(i, src)
		case OpCut:
			err = w.moveOne(i, src)
		case OpSymlink:
			err = w.linkOne(src)
		case OpDelete:
			err = w.deleteOne(i, src)
		default:
			err = fmt.Errorf("unknown operation %d", w.task.Op)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func checkDestDir(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		return fsutil.Classify("stat", dest, err)
	}
	if !info.IsDir() {
		return &fsutil.Error{Kind: fsutil.KindOther, Op: "stat", Path: dest, Err: fmt.Errorf("%s is not a directory", dest)}
	}
	return nil
}

// skip counts src as done without touching it.
func (w *Worker) skip(i int, src string) {
	w.skipped++
	st := w.totals[i]
	w.emit(FileCompleteEvent{TaskID: w.task.ID, Path: src, Files: st.files, Size: st.bytes})
}

func (w *Worker) newCopier() *copier {
	c := newCopier()
	c.started = func(path string) {
		w.emit(FileStartEvent{TaskID: w.task.ID, Path: path})
	}
	c.done = func(path string, size int64) {
		w.emit(FileCompleteEvent{TaskID: w.task.ID, Path: path, Files: 1, Size: size})
	}
	return c
}

func (w *Worker) copyOne(i int, src string) error {
	target, skip, err := destination(src, w.task.Dest, w.task.Options)
	if err != nil {
		return err
	}
	if skip {
		w.skip(i, src)
		return nil
	}
	if within(target, src) {
		return &fsutil.Error{Kind: fsutil.KindOther, Op: "copy", Path: src, Err: errCopyIntoSelf}
	}
	return w.newCopier().copyTree(src, target)
}

func (w *Worker) moveOne(i int, src string) error {
	if filepath.Dir(src) == w.task.Dest {
		w.skip(i, src)
		return nil
	}

	target, skip, err := destination(src, w.task.Dest, w.task.Options)
	if err != nil {
		return err
	}
	if skip {
		w.skip(i, src)
		return nil
	}
	if within(target, src) {
		return &fsutil.Error{Kind: fsutil.KindOther, Op: "move", Path: src, Err: errCopyIntoSelf}
	}

	if sameDeviceFn(src, w.task.Dest) {
		w.emit(FileStartEvent{TaskID: w.task.ID, Path: src})
		err := renameFn(src, target)
		if err == nil {
			st := w.totals[i]
			w.emit(FileCompleteEvent{TaskID: w.task.ID, Path: src, Files: st.files, Size: st.bytes})
			return nil
		}
		err = fsutil.Classify("rename", src, err)
		if !fsutil.IsKind(err, fsutil.KindCrossDevice) {
			return err
		}
		logging.Debug("rename crossed devices, copying", logging.String("path", src))
	}

	if err := w.newCopier().copyTree(src, target); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return fsutil.Classify("remove", src, err)
	}
	return nil
}

func (w *Worker) linkOne(src string) error {
	target, skip, err := destination(src, w.task.Dest, w.task.Options)
	if err != nil {
		return err
	}
	if skip {
		w.skipped++
		w.emit(FileCompleteEvent{TaskID: w.task.ID, Path: src, Files: 1})
		return nil
	}

	linkTarget := src
	if w.task.Options.RelativeSymlink {
		if rel, err := filepath.Rel(filepath.Dir(target), src); err == nil {
			linkTarget = rel
		}
	}

	w.emit(FileStartEvent{TaskID: w.task.ID, Path: src})
	if err := os.Symlink(linkTarget, target); err != nil {
		return fsutil.Classify("symlink", target, err)
	}
	w.emit(FileCompleteEvent{TaskID: w.task.ID, Path: src, Files: 1})
	return nil
}

func (w *Worker) deleteOne(i int, src string) error {
	w.emit(FileStartEvent{TaskID: w.task.ID, Path: src})

	if w.task.Options.Permanently {
		if err := os.RemoveAll(src); err != nil {
			return fsutil.Classify("remove", src, err)
		}
	} else {
		trash, err := openTrashFn()
		if err != nil {
			return err
		}
		if _, err := trash.Move(src); err != nil {
			logging.Warn("trash failed", logging.String("path", src), logging.Err(err))
			return err
		}
	}

	st := w.totals[i]
	w.emit(FileCompleteEvent{TaskID: w.task.ID, Path: src, Files: st.files, Size: st.bytes})
	return nil
}
