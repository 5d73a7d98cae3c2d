package state

import "time"

// PreviewLoading reports whether a file preview is scheduled or running.
func (s *AppState) PreviewLoading() bool {
	return s.previewPending != 0 || s.previewActive != 0
}

// updatePreview points the preview at the entry under the cursor. Directory
// previews come from the tab's cache; regular files are loaded after a short
// debounce so holding a cursor key does not read every file on the way.
func (r *StateReducer) updatePreview(state *AppState) {
	tab := state.ActiveTab()
	if tab == nil {
		return
	}
	tab.LoadPreviewDir()

	entry := tab.CursorEntry()
	if entry == nil || entry.IsDir() {
		r.cancelPreview(state)
		state.Preview = nil
		return
	}

	path := entry.FullPath
	if p := state.Preview; p != nil && p.Path == path && !entry.IsSymlink() &&
		p.Size == entry.Meta.Size && p.Modified.Equal(entry.Meta.Modified) {
		r.cancelPreview(state)
		return
	}
	if state.previewPending != 0 && state.previewPendingPath == path {
		return
	}
	r.cancelPreview(state)

	dispatch := state.getDispatch()
	if state.PreviewLoader == nil || dispatch == nil {
		preview, err := buildPreview(path, state.previewMaxBytes())
		if err != nil {
			state.Preview = nil
			return
		}
		state.Preview = preview
		return
	}

	state.previewTokenSeq++
	token := state.previewTokenSeq
	state.previewPending = token
	state.previewPendingPath = path
	state.previewTimer = time.AfterFunc(previewDebounceDelay, func() {
		dispatch(PreviewLoadStartAction{Token: token})
	})
}

// cancelPreview drops the scheduled load and cancels the running one.
func (r *StateReducer) cancelPreview(state *AppState) {
	if state.previewTimer != nil {
		state.previewTimer.Stop()
		state.previewTimer = nil
	}
	if state.previewActive != 0 && state.PreviewLoader != nil {
		state.PreviewLoader.Cancel(state.previewActive)
	}
	state.previewPending = 0
	state.previewPendingPath = ""
	state.previewActive = 0
}

func (r *StateReducer) startPreviewLoad(state *AppState, token int) {
	if token == 0 || token != state.previewPending {
		return
	}
	path := state.previewPendingPath
	state.previewPending = 0
	state.previewPendingPath = ""
	state.previewTimer = nil

	dispatch := state.getDispatch()
	if state.PreviewLoader == nil || dispatch == nil {
		return
	}
	state.previewActive = token
	state.PreviewLoader.Start(PreviewLoadRequest{
		Token:    token,
		Path:     path,
		MaxBytes: state.previewMaxBytes(),
		Callback: func(result PreviewLoadResult) {
			dispatch(PreviewLoadResultAction{
				Token:   result.Token,
				Path:    result.Path,
				Preview: result.Data,
				Err:     result.Err,
			})
		},
	})
}

func (r *StateReducer) applyPreviewResult(state *AppState, a PreviewLoadResultAction) {
	if a.Token == 0 || a.Token != state.previewActive {
		return
	}
	state.previewActive = 0
	if a.Err != nil {
		state.Preview = nil
		return
	}
	state.Preview = a.Preview
}

// scheduleRefresh posts a RefreshVisibleAction once the watch debounce has
// passed. Further events before then are folded into the same refresh.
func (r *StateReducer) scheduleRefresh(state *AppState) {
	if state.refreshPending {
		return
	}
	dispatch := state.getDispatch()
	if dispatch == nil {
		return
	}
	state.refreshPending = true
	state.refreshTimer = time.AfterFunc(state.refreshDebounce(), func() {
		dispatch(RefreshVisibleAction{})
	})
}
