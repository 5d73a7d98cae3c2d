package state

// maxHistory bounds every tab's history; the oldest entries go first.
const maxHistory = 100

// NavHistory is a browser-style list of visited directories.
type NavHistory struct {
	paths []string
	index int
}

// NewNavHistory starts a history at start.
func NewNavHistory(start string) *NavHistory {
	h := &NavHistory{index: -1}
	if start != "" {
		h.paths = []string{start}
		h.index = 0
	}
	return h
}

// Push records a visit to path. Revisiting the entry right before or after the
// current one only moves the index; anything else drops the forward entries.
func (h *NavHistory) Push(path string) {
	if h.index > 0 && h.paths[h.index-1] == path {
		h.index--
		return
	}
	if h.index < len(h.paths)-1 && h.paths[h.index+1] == path {
		h.index++
		return
	}

	if h.index < len(h.paths)-1 {
		h.paths = h.paths[:h.index+1]
	}
	if len(h.paths) > 0 && h.paths[len(h.paths)-1] == path {
		return
	}

	h.paths = append(h.paths, path)
	if len(h.paths) > maxHistory {
		drop := len(h.paths) - maxHistory
		h.paths = append([]string(nil), h.paths[drop:]...)
	}
	h.index = len(h.paths) - 1
}

// Peek returns the entry delta steps away from the current one.
func (h *NavHistory) Peek(delta int) (string, bool) {
	i := h.index + delta
	if i < 0 || i >= len(h.paths) {
		return "", false
	}
	return h.paths[i], true
}

// Move shifts the index by delta, staying within bounds.
func (h *NavHistory) Move(delta int) {
	i := h.index + delta
	if i < 0 || i >= len(h.paths) {
		return
	}
	h.index = i
}

// Current returns the entry at the index.
func (h *NavHistory) Current() string {
	p, _ := h.Peek(0)
	return p
}

func (h *NavHistory) Index() int { return h.index }
func (h *NavHistory) Len() int   { return len(h.paths) }

// Entries returns a copy of the recorded paths, oldest first.
func (h *NavHistory) Entries() []string {
	return append([]string(nil), h.paths...)
}
