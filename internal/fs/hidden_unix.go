//go:build !windows

package fs

import "strings"

// IsHidden reports dot-files as hidden.
func IsHidden(_ string, name string) bool { return strings.HasPrefix(name, ".") }

// ShouldHideFromListing always lists everything outside Windows.
func ShouldHideFromListing(_, _ string) bool { return false }
