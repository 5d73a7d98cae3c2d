package iotask

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	"github.com/kk-code-lab/rfm/internal/logging"
)

const copyBufferSize = 256 * 1024

var errCopyIntoSelf = errors.New("cannot copy a directory into itself")

// copier copies trees file by file, reporting each file to optional hooks.
type copier struct {
	buf     []byte
	started func(path string)
	done    func(path string, size int64)
}

func newCopier() *copier {
	return &copier{buf: make([]byte, copyBufferSize)}
}

func (c *copier) notifyStart(path string) {
	if c.started != nil {
		c.started(path)
	}
}

func (c *copier) notifyDone(path string, size int64) {
	if c.done != nil {
		c.done(path, size)
	}
}

// copyTree copies src to dst. Directories are recreated, symlinks copied as
// links, and special files skipped.
func (c *copier) copyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fsutil.Classify("lstat", src, err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return c.copySymlink(src, dst)
	case info.IsDir():
		return c.copyDir(src, dst, info)
	case info.Mode().IsRegular():
		return c.copyFile(src, dst, info)
	default:
		logging.Warn("skipping special file", logging.String("path", src))
		c.notifyDone(src, 0)
		return nil
	}
}

func (c *copier) copyDir(src, dst string, info os.FileInfo) error {
	if err := os.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return fsutil.Classify("mkdir", dst, err)
	}

	children, err := os.ReadDir(src)
	if err != nil {
		return fsutil.Classify("readdir", src, err)
	}
	for _, child := range children {
		if err := c.copyTree(filepath.Join(src, child.Name()), filepath.Join(dst, child.Name())); err != nil {
			return err
		}
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fsutil.Classify("chmod", dst, err)
	}
	return nil
}

func (c *copier) copyFile(src, dst string, info os.FileInfo) error {
	c.notifyStart(src)

	in, err := os.Open(src)
	if err != nil {
		return fsutil.Classify("open", src, err)
	}
	defer in.Close()

	// The user keeps write permission so a later overwrite does not fail.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()|0o200)
	if err != nil {
		return fsutil.Classify("create", dst, err)
	}
	defer out.Close()

	written, err := io.CopyBuffer(out, in, c.buf)
	if err != nil {
		return fsutil.Classify("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return fsutil.Classify("close", dst, err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fsutil.Classify("chtimes", dst, err)
	}

	c.notifyDone(src, written)
	return nil
}

func (c *copier) copySymlink(src, dst string) error {
	c.notifyStart(src)
	target, err := os.Readlink(src)
	if err != nil {
		return fsutil.Classify("readlink", src, err)
	}
	if err := os.Symlink(target, dst); err != nil {
		return fsutil.Classify("symlink", dst, err)
	}
	c.notifyDone(src, 0)
	return nil
}

// within reports whether path is root or lies beneath it.
func within(path, root string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
