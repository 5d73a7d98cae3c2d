package iotask

import (
	"time"

	"github.com/google/uuid"
)

// Event is something a worker reports about the task it runs.
type Event interface {
	taskID() uuid.UUID
}

// Sink receives worker events. Implementations must not block.
type Sink func(Event)

// TotalsEvent carries the size of the work, computed before any file is touched.
type TotalsEvent struct {
	TaskID uuid.UUID
	Files  int
	Bytes  int64
}

// FileStartEvent is sent before a file is processed.
type FileStartEvent struct {
	TaskID uuid.UUID
	Path   string
}

// FileCompleteEvent is sent after a file (or a whole renamed tree) is done.
type FileCompleteEvent struct {
	TaskID uuid.UUID
	Path   string
	Files  int
	Size   int64
}

// DoneEvent is the last event of every task.
type DoneEvent struct {
	Task    Task
	Err     error
	Skipped int
	Elapsed time.Duration
}

func (e TotalsEvent) taskID() uuid.UUID       { return e.TaskID }
func (e FileStartEvent) taskID() uuid.UUID    { return e.TaskID }
func (e FileCompleteEvent) taskID() uuid.UUID { return e.TaskID }
func (e DoneEvent) taskID() uuid.UUID         { return e.Task.ID }
