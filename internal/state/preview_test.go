package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPreviewText(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"notes.txt": "first\r\nsecond\n\tthird\n"})

	p, err := buildPreview(filepath.Join(dir, "notes.txt"), 1024)
	require.NoError(t, err)
	assert.False(t, p.Binary)
	assert.False(t, p.Truncated)
	assert.Equal(t, []string{"first", "second", "\tthird"}, p.Lines)
	assert.Equal(t, "notes.txt", p.Name)
	assert.Equal(t, int64(21), p.Size)
}

func TestBuildPreviewTruncatesAtLimit(t *testing.T) {
	dir := t.TempDir()
	// "é" is two bytes; the limit cuts it in half.
	writeFiles(t, dir, map[string]string{"long.txt": "abcé and more"})

	p, err := buildPreview(filepath.Join(dir, "long.txt"), 4)
	require.NoError(t, err)
	assert.True(t, p.Truncated)
	assert.False(t, p.Binary)
	assert.Equal(t, []string{"abc"}, p.Lines)
}

func TestBuildPreviewDetectsBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02}, 0o644))

	p, err := buildPreview(path, 1024)
	require.NoError(t, err)
	assert.True(t, p.Binary)
	assert.Empty(t, p.Lines)
	assert.Equal(t, int64(7), p.Size)
}

func TestBuildPreviewDecodesUTF16(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.ini")
	content := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00, '\r', 0x00, '\n', 0x00, 'x', 0x00}
	require.NoError(t, os.WriteFile(path, content, 0o644))

	p, err := buildPreview(path, 1024)
	require.NoError(t, err)
	assert.False(t, p.Binary)
	assert.Equal(t, []string{"hi", "x"}, p.Lines)
}

func TestBuildPreviewLegacyEncodingStaysText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin1.txt")
	require.NoError(t, os.WriteFile(path, []byte("caf\xe9 au lait"), 0o644))

	p, err := buildPreview(path, 1024)
	require.NoError(t, err)
	assert.False(t, p.Binary)
	require.Len(t, p.Lines, 1)
	assert.True(t, strings.HasPrefix(p.Lines[0], "caf"))
}

func TestPreviewFollowsCursorSynchronously(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "adir")
	writeFiles(t, root, map[string]string{"b.txt": "bee", "c.txt": "sea", "adir/inside": ""})

	state, r := newTestState(t, root)
	r.RefreshPreview(state)
	assert.Nil(t, state.Preview, "directories preview from the cache")
	assert.NotNil(t, state.ActiveTab().PreviewDir())

	reduce(t, r, state, CursorDownAction{})
	require.NotNil(t, state.Preview)
	assert.Equal(t, []string{"bee"}, state.Preview.Lines)

	reduce(t, r, state, CursorDownAction{})
	assert.Equal(t, []string{"sea"}, state.Preview.Lines)
	assert.Nil(t, state.ActiveTab().PreviewDir())
}

func TestPreviewLoadsAsynchronouslyAfterDebounce(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "one", "b.txt": "two"})

	state, r := newTestState(t, root)
	state.PreviewLoader = NewAsyncPreviewLoader()
	ch := withMailbox(state)

	r.RefreshPreview(state)
	assert.True(t, state.PreviewLoading())
	assert.Nil(t, state.Preview)

	// Moving on before the debounce fires replaces the pending load.
	reduce(t, r, state, CursorDownAction{})
	drainUntil(t, r, state, ch, func(a Action) bool {
		_, ok := a.(PreviewLoadResultAction)
		return ok
	})

	require.NotNil(t, state.Preview)
	assert.Equal(t, filepath.Join(root, "b.txt"), state.Preview.Path)
	assert.Equal(t, []string{"two"}, state.Preview.Lines)
	assert.False(t, state.PreviewLoading())
}

func TestStalePreviewResultsAreDropped(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "one"})

	state, r := newTestState(t, root)
	reduce(t, r, state,
		PreviewLoadStartAction{Token: 42},
		PreviewLoadResultAction{Token: 7, Preview: &PreviewData{Path: "/elsewhere"}},
	)
	assert.Nil(t, state.Preview)
}

func TestAsyncPreviewLoaderAnswersEveryLiveToken(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"shared.txt": "same"})
	path := filepath.Join(dir, "shared.txt")

	loader := NewAsyncPreviewLoader()
	results := make(chan PreviewLoadResult, 2)
	for _, token := range []int{1, 2} {
		loader.Start(PreviewLoadRequest{Token: token, Path: path, MaxBytes: 1024, Callback: func(r PreviewLoadResult) {
			results <- r
		}})
	}

	seen := map[int]bool{}
	for i := 0; i < 2; i++ {
		select {
		case r := <-results:
			require.NoError(t, r.Err)
			require.NotNil(t, r.Data)
			assert.Equal(t, []string{"same"}, r.Data.Lines)
			seen[r.Token] = true
		case <-time.After(2 * time.Second):
			t.Fatal("preview loader did not call back")
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, seen)
}
