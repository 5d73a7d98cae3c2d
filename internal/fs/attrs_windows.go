//go:build windows

package fs

import "golang.org/x/sys/windows"

// fileAttributes reads the Windows attribute bits of path, retrying with the
// bare name when the full path cannot be resolved.
func fileAttributes(path, name string) (uint32, bool) {
	for _, candidate := range []string{path, name} {
		if candidate == "" {
			continue
		}
		p, err := windows.UTF16PtrFromString(candidate)
		if err != nil {
			continue
		}
		if attrs, err := windows.GetFileAttributes(p); err == nil {
			return attrs, true
		}
	}
	return 0, false
}

// IsHidden treats dot-files and entries with the hidden attribute as hidden.
func IsHidden(path string, name string) bool {
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	attrs, ok := fileAttributes(path, name)
	return ok && attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}

// ShouldHideFromListing drops system reparse points such as the legacy
// "Application Data" junctions, which are never listable.
func ShouldHideFromListing(path, name string) bool {
	attrs, ok := fileAttributes(path, name)
	if !ok {
		return false
	}
	const junction = windows.FILE_ATTRIBUTE_SYSTEM | windows.FILE_ATTRIBUTE_REPARSE_POINT
	return attrs&junction == junction
}
