package fs

import (
	"os"
	"time"
)

// FileType tags the kind of filesystem object an Entry describes.
type FileType int

const (
	TypeRegular FileType = iota
	TypeDirectory
	TypeSymlink
	TypeSocket
	TypeBlockDevice
	TypeCharDevice
	TypeFIFO
)

func (t FileType) String() string {
	switch t {
	case TypeDirectory:
		return "dir"
	case TypeSymlink:
		return "symlink"
	case TypeSocket:
		return "socket"
	case TypeBlockDevice:
		return "block"
	case TypeCharDevice:
		return "char"
	case TypeFIFO:
		return "fifo"
	default:
		return "file"
	}
}

// Metadata is the lstat view of a directory child.
type Metadata struct {
	Size     int64
	Modified time.Time
	Mode     os.FileMode
	Type     FileType

	// Symlink details; only meaningful when Type == TypeSymlink.
	LinkTarget string
	LinkValid  bool
	LinkIsDir  bool
}

// Entry represents a single file or directory on disk.
type Entry struct {
	Name     string
	FullPath string
	Meta     Metadata
	Selected bool
}

// IsDir reports whether the entry is a directory or a symlink to one.
func (e Entry) IsDir() bool {
	if e.Meta.Type == TypeSymlink {
		return e.Meta.LinkIsDir
	}
	return e.Meta.Type == TypeDirectory
}

// IsSymlink reports whether the entry itself is a symbolic link.
func (e Entry) IsSymlink() bool {
	return e.Meta.Type == TypeSymlink
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.FullPath, e.Name)
}

func fileTypeOf(mode os.FileMode) FileType {
	switch {
	case mode&os.ModeSymlink != 0:
		return TypeSymlink
	case mode.IsDir():
		return TypeDirectory
	case mode&os.ModeSocket != 0:
		return TypeSocket
	case mode&os.ModeNamedPipe != 0:
		return TypeFIFO
	case mode&os.ModeCharDevice != 0:
		return TypeCharDevice
	case mode&os.ModeDevice != 0:
		return TypeBlockDevice
	default:
		return TypeRegular
	}
}
