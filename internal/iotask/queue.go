package iotask

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/kk-code-lab/rfm/internal/logging"
)

// TaskState tracks a task through the queue.
type TaskState int

const (
	StateQueued TaskState = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s TaskState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "queued"
	}
}

// Progress of the running task.
type Progress struct {
	CurrentFile    string
	FilesProcessed int
	TotalFiles     int
	BytesProcessed int64
	TotalBytes     int64
}

// Percent is the byte-based completion, falling back to file counts for
// tasks that move no data.
func (p Progress) Percent() int {
	switch {
	case p.TotalBytes > 0:
		return int(p.BytesProcessed * 100 / p.TotalBytes)
	case p.TotalFiles > 0:
		return p.FilesProcessed * 100 / p.TotalFiles
	default:
		return 0
	}
}

// Result records how the most recent task ended.
type Result struct {
	Task    Task
	State   TaskState
	Err     error
	Skipped int
	Elapsed time.Duration
}

// startWorker launches a task; replaced in tests to run synchronously or not at all.
var startWorker = func(t Task, sink Sink) {
	go NewWorker(t, sink).Run()
}

// Queue holds pending tasks and at most one running task. It is owned by the
// control goroutine; workers only talk to it through events.
type Queue struct {
	pending  []Task
	running  *Task
	progress Progress
	last     *Result

	status      string
	statusDirty bool
}

// NewQueue returns an idle queue.
func NewQueue() *Queue {
	return &Queue{statusDirty: true}
}

// Enqueue appends t and returns the stored copy.
func (q *Queue) Enqueue(t Task) Task {
	t = t.clone()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	q.pending = append(q.pending, t)
	q.statusDirty = true
	logging.Debug("task queued", logging.String("task", t.ID.String()), logging.String("op", t.Op.String()), logging.Int("sources", len(t.Sources)))
	return t
}

// StartNext starts the oldest pending task when nothing is running.
func (q *Queue) StartNext(sink Sink) bool {
	if q.running != nil || len(q.pending) == 0 {
		return false
	}

	next := q.pending[0]
	q.pending = q.pending[1:]
	q.running = &next
	q.progress = Progress{}
	q.statusDirty = true

	logging.Info("task started", logging.String("task", next.ID.String()), logging.String("op", next.Op.String()), logging.String("dest", next.Dest))
	startWorker(next, sink)
	return true
}

// ApplyProgress folds a worker event into the running task's progress. Events
// for anything other than the running task are ignored.
func (q *Queue) ApplyProgress(ev Event) bool {
	if q.running == nil || ev.taskID() != q.running.ID {
		return false
	}

	switch e := ev.(type) {
	case TotalsEvent:
		q.progress.TotalFiles = e.Files
		q.progress.TotalBytes = e.Bytes
	case FileStartEvent:
		q.progress.CurrentFile = e.Path
	case FileCompleteEvent:
		q.progress.FilesProcessed += e.Files
		q.progress.BytesProcessed += e.Size
	default:
		return false
	}
	q.statusDirty = true
	return true
}

// Finish clears the running task when ev belongs to it.
func (q *Queue) Finish(ev DoneEvent) (Task, bool) {
	if q.running == nil || ev.Task.ID != q.running.ID {
		return Task{}, false
	}

	done := *q.running
	state := StateCompleted
	if ev.Err != nil {
		state = StateFailed
		logging.Error("task failed", logging.String("task", done.ID.String()), logging.Err(ev.Err))
	} else {
		logging.Info("task finished", logging.String("task", done.ID.String()), logging.Duration("elapsed", ev.Elapsed))
	}

	q.last = &Result{Task: done, State: state, Err: ev.Err, Skipped: ev.Skipped, Elapsed: ev.Elapsed}
	q.running = nil
	q.progress = Progress{}
	q.statusDirty = true
	return done, true
}

// CancelPending drops every queued task. The running task is left alone.
func (q *Queue) CancelPending() int {
	n := len(q.pending)
	q.pending = nil
	if n > 0 {
		q.statusDirty = true
	}
	return n
}

// Running returns the running task, if any.
func (q *Queue) Running() (Task, bool) {
	if q.running == nil {
		return Task{}, false
	}
	return *q.running, true
}

// Pending returns a copy of the queued tasks in start order.
func (q *Queue) Pending() []Task {
	out := make([]Task, len(q.pending))
	copy(out, q.pending)
	return out
}

// Progress of the running task; zero when idle.
func (q *Queue) Progress() Progress {
	return q.progress
}

// LastResult reports how the most recently finished task ended.
func (q *Queue) LastResult() (Result, bool) {
	if q.last == nil {
		return Result{}, false
	}
	return *q.last, true
}

// Idle reports whether nothing is running or queued.
func (q *Queue) Idle() bool {
	return q.running == nil && len(q.pending) == 0
}

// StatusLine renders the running task for the status bar. The string is
// rebuilt only after the queue changed.
func (q *Queue) StatusLine() string {
	if !q.statusDirty {
		return q.status
	}
	q.status = q.buildStatus()
	q.statusDirty = false
	return q.status
}

func (q *Queue) buildStatus() string {
	if q.running == nil {
		if len(q.pending) > 0 {
			return fmt.Sprintf("%d task(s) queued", len(q.pending))
		}
		return ""
	}

	p := q.progress
	var b strings.Builder
	b.WriteString(q.running.Describe())
	if p.TotalFiles > 0 {
		fmt.Fprintf(&b, " %d/%d", p.FilesProcessed, p.TotalFiles)
	}
	if p.TotalBytes > 0 {
		fmt.Fprintf(&b, " %s/%s (%d%%)",
			humanize.Bytes(uint64(p.BytesProcessed)),
			humanize.Bytes(uint64(p.TotalBytes)),
			p.Percent())
	}
	if p.CurrentFile != "" {
		b.WriteString(" ")
		b.WriteString(filepath.Base(p.CurrentFile))
	}
	if len(q.pending) > 0 {
		fmt.Fprintf(&b, " [+%d queued]", len(q.pending))
	}
	return b.String()
}
