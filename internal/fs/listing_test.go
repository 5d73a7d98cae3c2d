package fs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDirReadsChildrenWithMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("0123456789"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	listing, err := ListDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, listing.Path)
	assert.False(t, listing.DirModified.IsZero())
	require.Len(t, listing.Entries, 2)

	byName := map[string]Entry{}
	for _, e := range listing.Entries {
		byName[e.Name] = e
		assert.Equal(t, dir, filepath.Dir(e.FullPath))
	}
	assert.Equal(t, int64(10), byName["a.txt"].Meta.Size)
	assert.Equal(t, TypeRegular, byName["a.txt"].Meta.Type)
	assert.True(t, byName["sub"].IsDir())
}

func TestListDirResolvesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "target"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "target"), filepath.Join(dir, "good")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken")))

	listing, err := ListDir(dir)
	require.NoError(t, err)

	byName := map[string]Entry{}
	for _, e := range listing.Entries {
		byName[e.Name] = e
	}

	good := byName["good"]
	assert.True(t, good.IsSymlink())
	assert.True(t, good.Meta.LinkValid)
	assert.True(t, good.IsDir())
	assert.Equal(t, filepath.Join(dir, "target"), good.Meta.LinkTarget)

	broken := byName["broken"]
	assert.True(t, broken.IsSymlink())
	assert.False(t, broken.Meta.LinkValid)
	assert.False(t, broken.IsDir())
}

func TestListDirMissingDirectoryIsNotFound(t *testing.T) {
	_, err := ListDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))

	var fsErr *Error
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, "stat", fsErr.Op)
}

func TestListDirOnFileFails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := ListDir(file)
	require.Error(t, err)
	assert.Equal(t, KindOther, KindOf(err))
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify("op", "/x", nil))

	tests := []struct {
		err  error
		kind ErrorKind
	}{
		{os.ErrNotExist, KindNotFound},
		{os.ErrPermission, KindPermissionDenied},
		{os.ErrExist, KindAlreadyExists},
		{&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EXDEV}, KindCrossDevice},
		{errors.New("boom"), KindOther},
	}
	for _, tt := range tests {
		err := Classify("op", "/x", tt.err)
		assert.Equal(t, tt.kind, KindOf(err), "error %v", tt.err)
		assert.ErrorIs(t, err, tt.err)
	}

	once := Classify("first", "/a", os.ErrNotExist)
	assert.Same(t, once, Classify("second", "/b", once))
}
