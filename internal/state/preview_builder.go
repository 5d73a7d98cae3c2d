package state

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	unicodeenc "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultPreviewBytes  int64 = 64 * 1024
	textDetectionSample        = 8 * 1024
	previewDebounceDelay       = 150 * time.Millisecond
)

// PreviewData is the preview of one regular file.
type PreviewData struct {
	Path     string
	Name     string
	Size     int64
	Modified time.Time
	Mode     os.FileMode

	// Binary is set for files that are not text; only the metadata is shown.
	Binary    bool
	Lines     []string
	Truncated bool
	Shown     int64 // bytes read from the head of the file
}

// buildPreview reads at most maxBytes of path.
func buildPreview(path string, maxBytes int64) (*PreviewData, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	preview := &PreviewData{
		Path:     path,
		Name:     norm.NFC.String(info.Name()),
		Size:     info.Size(),
		Modified: info.ModTime(),
		Mode:     info.Mode(),
	}
	if !info.Mode().IsRegular() {
		preview.Binary = true
		return preview, nil
	}

	content, err := readFileHead(path, maxBytes)
	if err != nil {
		return nil, err
	}
	preview.Shown = int64(len(content))
	preview.Truncated = info.Size() > preview.Shown

	text, ok := decodeText(content, preview.Truncated)
	if !ok {
		preview.Binary = true
		return preview, nil
	}
	preview.Lines = splitLines(text)
	return preview, nil
}

func readFileHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return io.ReadAll(io.LimitReader(f, limit))
}

// decodeText returns content as UTF-8 text, or false when it looks binary.
// A byte order mark selects UTF-16 or UTF-8.
func decodeText(content []byte, truncated bool) (string, bool) {
	if len(content) == 0 {
		return "", true
	}

	if hasUTF16BOM(content) {
		if truncated && len(content)%2 == 1 {
			content = content[:len(content)-1]
		}
		decoded, _, err := transform.Bytes(unicodeenc.BOMOverride(unicodeenc.UTF8.NewDecoder()), content)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	}
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	sample := content
	if len(sample) > textDetectionSample {
		sample = sample[:textDetectionSample]
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return "", false
	}

	if truncated {
		content = trimPartialRune(content)
	}
	if utf8.Valid(content) {
		return string(content), true
	}

	// Mostly printable bytes in some legacy encoding still read as text.
	bad := 0
	for _, b := range sample {
		if !isCommonTextByte(b) {
			bad++
		}
	}
	if bad*10 > len(sample) {
		return "", false
	}
	return strings.ToValidUTF8(string(content), "�"), true
}

func hasUTF16BOM(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF))
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off by the read limit.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if !utf8.RuneStart(b[start]) {
			continue
		}
		if !utf8.FullRune(b[start:]) {
			return b[:start]
		}
		break
	}
	return b
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == '\t' || b == '\n' || b == '\r':
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	case b == 0x1B:
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
