package fs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kk-code-lab/rfm/internal/logging"
	"golang.org/x/text/unicode/norm"
)

// Listing is the raw, unsorted result of reading one directory.
type Listing struct {
	Path        string
	Entries     []Entry
	DirModified time.Time
}

// ListDir reads the immediate children of dirPath. Children whose metadata
// cannot be read are logged and dropped; only a failure to open dirPath itself
// is returned as an error.
func ListDir(dirPath string) (Listing, error) {
	dirInfo, err := os.Stat(dirPath)
	if err != nil {
		return Listing{}, Classify("stat", dirPath, err)
	}
	if !dirInfo.IsDir() {
		return Listing{}, &Error{Kind: KindOther, Op: "readdir", Path: dirPath, Err: errNotDirectory}
	}

	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return Listing{}, Classify("readdir", dirPath, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		rawName := de.Name()
		fullPath := filepath.Join(dirPath, rawName)

		if ShouldHideFromListing(fullPath, rawName) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			logging.Warn("dropping unreadable entry",
				logging.String("path", fullPath), logging.Err(err))
			continue
		}

		entries = append(entries, Entry{
			Name:     norm.NFC.String(rawName),
			FullPath: fullPath,
			Meta:     metadataFor(fullPath, info),
		})
	}

	return Listing{
		Path:        dirPath,
		Entries:     entries,
		DirModified: dirInfo.ModTime(),
	}, nil
}

// Lstat builds an Entry for a single path.
func Lstat(path string) (Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, Classify("lstat", path, err)
	}
	return Entry{
		Name:     norm.NFC.String(filepath.Base(path)),
		FullPath: path,
		Meta:     metadataFor(path, info),
	}, nil
}

// DirModTime returns the modification time of a directory.
func DirModTime(dirPath string) (time.Time, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return time.Time{}, Classify("stat", dirPath, err)
	}
	return info.ModTime(), nil
}

func metadataFor(fullPath string, info os.FileInfo) Metadata {
	meta := Metadata{
		Size:     info.Size(),
		Modified: info.ModTime(),
		Mode:     info.Mode(),
		Type:     fileTypeOf(info.Mode()),
	}
	if meta.Type != TypeSymlink {
		return meta
	}

	if target, err := os.Readlink(fullPath); err == nil {
		meta.LinkTarget = target
	}
	if targetInfo, err := os.Stat(fullPath); err == nil {
		meta.LinkValid = true
		meta.LinkIsDir = targetInfo.IsDir()
	}
	return meta
}
