package iotask

import (
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
)

// measureParallelism bounds concurrent tree walks while computing totals.
const measureParallelism = 4

type sourceTotals struct {
	files int
	bytes int64
}

// measure walks every source of t and returns per-source totals in order.
// Symlink tasks never read the sources, so each counts as one empty file.
func measure(t Task) ([]sourceTotals, error) {
	totals := make([]sourceTotals, len(t.Sources))
	if t.Op == OpSymlink {
		for i := range totals {
			totals[i] = sourceTotals{files: 1}
		}
		return totals, nil
	}

	var g errgroup.Group
	g.SetLimit(measureParallelism)
	for i, src := range t.Sources {
		i, src := i, src
		g.Go(func() error {
			st, err := measureTree(src)
			if err != nil {
				return err
			}
			totals[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return totals, nil
}

// measureTree counts non-directory entries under root without following
// symlinks. Unreadable subdirectories are skipped; only a missing root fails.
func measureTree(root string) (sourceTotals, error) {
	if _, err := os.Lstat(root); err != nil {
		return sourceTotals{}, fsutil.Classify("lstat", root, err)
	}

	var st sourceTotals
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		st.files++
		if d.Type().IsRegular() {
			if info, infoErr := d.Info(); infoErr == nil {
				st.bytes += info.Size()
			}
		}
		return nil
	})
	return st, err
}

func sumTotals(totals []sourceTotals) (int, int64) {
	files, bytes := 0, int64(0)
	for _, st := range totals {
		files += st.files
		bytes += st.bytes
	}
	return files, bytes
}
