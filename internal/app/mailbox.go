package app

import (
	"sync"

	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

// mailbox is an unbounded FIFO of actions feeding the event loop. Push never
// blocks, so the worker, preview loader, watcher and timers can post while
// the loop is busy.
type mailbox struct {
	mu     sync.Mutex
	queue  []statepkg.Action
	ready  chan struct{}
	closed bool
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

// Push appends an action. Pushes after Close are dropped.
func (m *mailbox) Push(action statepkg.Action) {
	if action == nil {
		return
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, action)
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Ready fires at least once after any Push since the last Drain.
func (m *mailbox) Ready() <-chan struct{} {
	return m.ready
}

// Drain hands back everything queued so far, oldest first.
func (m *mailbox) Drain() []statepkg.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.queue
	m.queue = nil
	return out
}

func (m *mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close discards queued actions and ignores later pushes.
func (m *mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.queue = nil
}
