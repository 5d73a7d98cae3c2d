package state

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// PreviewLoader builds file previews off the control goroutine.
type PreviewLoader interface {
	Start(req PreviewLoadRequest)
	Cancel(token int)
}

// PreviewLoadRequest describes the preview to build.
type PreviewLoadRequest struct {
	Token    int
	Path     string
	MaxBytes int64
	Callback func(PreviewLoadResult)
}

// PreviewLoadResult carries the generated preview or any error.
type PreviewLoadResult struct {
	Token int
	Path  string
	Data  *PreviewData
	Err   error
}

// NewAsyncPreviewLoader returns a loader that reads on background goroutines.
// Concurrent requests for the same file share one read, and a cancelled
// request never calls back.
func NewAsyncPreviewLoader() PreviewLoader {
	return &asyncPreviewLoader{live: make(map[int]struct{})}
}

type asyncPreviewLoader struct {
	reads singleflight.Group

	mu   sync.Mutex
	live map[int]struct{}
}

func (l *asyncPreviewLoader) Start(req PreviewLoadRequest) {
	if req.Token == 0 || req.Path == "" || req.Callback == nil {
		return
	}
	l.mu.Lock()
	l.live[req.Token] = struct{}{}
	l.mu.Unlock()

	key := strconv.FormatInt(req.MaxBytes, 10) + ":" + req.Path
	done := l.reads.DoChan(key, func() (any, error) {
		return buildPreview(req.Path, req.MaxBytes)
	})

	go func() {
		res := <-done
		if !l.take(req.Token) {
			return
		}
		data, _ := res.Val.(*PreviewData)
		req.Callback(PreviewLoadResult{Token: req.Token, Path: req.Path, Data: data, Err: res.Err})
	}()
}

func (l *asyncPreviewLoader) Cancel(token int) {
	l.mu.Lock()
	delete(l.live, token)
	l.mu.Unlock()
}

// take reports whether token is still wanted and forgets it.
func (l *asyncPreviewLoader) take(token int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.live[token]
	delete(l.live, token)
	return ok
}
