//go:build !windows

package fs

import (
	"os"
	"syscall"
)

// SameDevice reports whether a and b live on the same filesystem, which makes
// a rename between them possible without copying data.
func SameDevice(a, b string) bool {
	devA, okA := deviceOf(a)
	devB, okB := deviceOf(b)
	return okA && okB && devA == devB
}

func deviceOf(path string) (uint64, bool) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, false
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(st.Dev), true
}
