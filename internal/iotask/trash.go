package iotask

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	"github.com/kk-code-lab/rfm/internal/logging"
)

// trashRootFn locates the home trash; overridable in tests.
var trashRootFn = defaultTrashRoot

func defaultTrashRoot() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate trash: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// Trash is a freedesktop.org home trash: deleted items live in files/ and
// their origin is recorded in info/<name>.trashinfo.
type Trash struct {
	Root string
}

// OpenTrash returns the home trash, creating its directories when missing.
func OpenTrash() (*Trash, error) {
	root, err := trashRootFn()
	if err != nil {
		return nil, err
	}
	t := &Trash{Root: root}
	for _, dir := range []string{t.filesDir(), t.infoDir()} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fsutil.Classify("mkdir", dir, err)
		}
	}
	return t, nil
}

func (t *Trash) filesDir() string { return filepath.Join(t.Root, "files") }
func (t *Trash) infoDir() string  { return filepath.Join(t.Root, "info") }

// Move puts path into the trash and returns where it ended up. A failure
// leaves path where it was.
func (t *Trash) Move(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("trash %s: %w", path, err)
	}

	name, infoPath, err := t.reserve(abs)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(t.filesDir(), name)

	if err := os.Rename(abs, dst); err != nil {
		classified := fsutil.Classify("rename", abs, err)
		if !fsutil.IsKind(classified, fsutil.KindCrossDevice) {
			_ = os.Remove(infoPath)
			return "", classified
		}
		if err := moveAcrossDevices(abs, dst); err != nil {
			_ = os.Remove(infoPath)
			return "", err
		}
	}

	logging.Debug("moved to trash", logging.String("path", abs), logging.String("trash", dst))
	return dst, nil
}

// reserve claims a free name by creating its .trashinfo file exclusively.
func (t *Trash) reserve(abs string) (string, string, error) {
	base := filepath.Base(abs)
	for i := -1; i < maxSuffix; i++ {
		name := base
		if i >= 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}

		if taken, err := pathExists(filepath.Join(t.filesDir(), name)); err != nil {
			return "", "", err
		} else if taken {
			continue
		}

		infoPath := filepath.Join(t.infoDir(), name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fsutil.Classify("create", infoPath, err)
		}

		_, writeErr := f.WriteString(trashInfo(abs, time.Now()))
		closeErr := f.Close()
		if err := errors.Join(writeErr, closeErr); err != nil {
			_ = os.Remove(infoPath)
			return "", "", fsutil.Classify("write", infoPath, err)
		}
		return name, infoPath, nil
	}
	return "", "", &fsutil.Error{Kind: fsutil.KindAlreadyExists, Op: "trash", Path: abs, Err: fs.ErrExist}
}

func trashInfo(abs string, deleted time.Time) string {
	escaped := (&url.URL{Path: filepath.ToSlash(abs)}).EscapedPath()
	return fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", escaped, deleted.Format("2006-01-02T15:04:05"))
}

func moveAcrossDevices(src, dst string) error {
	if err := newCopier().copyTree(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return fsutil.Classify("remove", src, err)
	}
	return nil
}
