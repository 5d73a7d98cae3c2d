//go:build windows

package fs

import (
	"path/filepath"
	"strings"
)

// SameDevice compares volume names; a rename across volumes fails with a
// cross-device error that callers already handle by copying.
func SameDevice(a, b string) bool {
	volA := filepath.VolumeName(a)
	volB := filepath.VolumeName(b)
	return volA != "" && strings.EqualFold(volA, volB)
}
