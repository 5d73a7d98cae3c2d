//go:build windows

package shellsetup

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// DetectParentShellName returns the image name of the parent process, such as
// "pwsh" for pwsh.exe, or "" when it cannot be queried.
func DetectParentShellName() string {
	ppid := os.Getppid()
	if ppid <= 0 {
		return ""
	}
	proc, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(ppid))
	if err != nil {
		return ""
	}
	defer func() { _ = windows.CloseHandle(proc) }()

	buf := make([]uint16, windows.MAX_LONG_PATH)
	n := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(proc, 0, &buf[0], &n); err != nil {
		return ""
	}
	image := windows.UTF16ToString(buf[:n])
	if i := strings.LastIndexAny(image, `\/`); i >= 0 {
		image = image[i+1:]
	}
	return canonicalShellName(normalizeShellName(image))
}
