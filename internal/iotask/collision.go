package iotask

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
)

// maxSuffix bounds the search for a free "name_N".
const maxSuffix = 10000

// destination resolves where src lands inside destDir. skip is true when the
// target exists and opts asks to leave it alone. With Overwrite the existing
// target is removed first, unless src is the target or lives inside it.
func destination(src, destDir string, opts Options) (target string, skip bool, err error) {
	name := filepath.Base(src)
	target = filepath.Join(destDir, name)

	exists, err := pathExists(target)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return target, false, nil
	}

	if opts.SkipExisting {
		return target, true, nil
	}
	if opts.Overwrite && !within(src, target) {
		if err := os.RemoveAll(target); err != nil {
			return "", false, fsutil.Classify("remove", target, err)
		}
		return target, false, nil
	}

	target, err = uniqueName(destDir, name)
	return target, false, err
}

// uniqueName finds the first free name_0, name_1, ... in dir.
func uniqueName(dir, name string) (string, error) {
	for i := 0; i < maxSuffix; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d", name, i))
		exists, err := pathExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", &fsutil.Error{
		Kind: fsutil.KindAlreadyExists,
		Op:   "rename",
		Path: filepath.Join(dir, name),
		Err:  fs.ErrExist,
	}
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fsutil.Classify("lstat", path, err)
	}
}
