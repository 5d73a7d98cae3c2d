package iotask

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskAffectedDirs(t *testing.T) {
	copyTask := NewTask(OpCopy, Options{}, []string{"/a/x", "/a/y", "/b/z/"}, "/dest")
	assert.Equal(t, []string{"/a", "/b"}, copyTask.SourceDirs())
	assert.Equal(t, []string{"/a", "/b", "/dest"}, copyTask.AffectedDirs())
	assert.Nil(t, copyTask.RemovedPaths())
	assert.Equal(t, "copy 3 items", copyTask.Describe())

	cut := NewTask(OpCut, Options{}, []string{"/a/x"}, "/a")
	assert.Equal(t, []string{"/a"}, cut.AffectedDirs())
	assert.Equal(t, []string{"/a/x"}, cut.RemovedPaths())
	assert.Equal(t, "move x", cut.Describe())

	del := NewTask(OpDelete, Options{}, []string{"/a/x"}, "")
	assert.Equal(t, []string{"/a"}, del.AffectedDirs())
	assert.Equal(t, []string{"/a/x"}, del.RemovedPaths())
}

func TestUniqueName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.txt"), "")
	writeFile(t, filepath.Join(dir, "x.txt_0"), "")

	got, err := uniqueName(dir, "x.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x.txt_1"), got)
}

func TestDestinationOverwriteNeverRemovesSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), "a")

	target, skip, err := destination(filepath.Join(dir, "a"), dir, Options{Overwrite: true})
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Equal(t, filepath.Join(dir, "a_0"), target)
	assert.FileExists(t, filepath.Join(dir, "a"))
}

func TestTrashMoveWritesInfoAndAvoidsClashes(t *testing.T) {
	root := useTempTrash(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "my file.txt")
	writeFile(t, first, "1")

	trash, err := OpenTrash()
	require.NoError(t, err)
	dst, err := trash.Move(first)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "files", "my file.txt"), dst)

	info, err := os.ReadFile(filepath.Join(root, "info", "my file.txt.trashinfo"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(info)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[Trash Info]", lines[0])
	assert.Equal(t, "Path="+strings.ReplaceAll(filepath.ToSlash(first), " ", "%20"), lines[1])
	require.True(t, strings.HasPrefix(lines[2], "DeletionDate="))
	_, err = time.Parse("2006-01-02T15:04:05", strings.TrimPrefix(lines[2], "DeletionDate="))
	assert.NoError(t, err)

	writeFile(t, first, "2")
	dst, err = trash.Move(first)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "files", "my file.txt_0"), dst)
	assert.FileExists(t, filepath.Join(root, "info", "my file.txt_0.trashinfo"))
}

func TestTrashMoveMissingFileLeavesNoInfo(t *testing.T) {
	root := useTempTrash(t)
	trash, err := OpenTrash()
	require.NoError(t, err)

	_, err = trash.Move(filepath.Join(t.TempDir(), "ghost"))
	require.Error(t, err)

	infos, err := os.ReadDir(filepath.Join(root, "info"))
	require.NoError(t, err)
	assert.Empty(t, infos)
}
