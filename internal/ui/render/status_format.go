package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

// entrySizeLabel is the right-aligned size column of the current pane.
func entrySizeLabel(entry fsutil.Entry) string {
	if entry.IsDir() || entry.IsSymlink() {
		return ""
	}
	return humanize.Bytes(uint64(entry.Meta.Size))
}

// formatStatusMessage picks the left side of the status line: an error, the
// running task, the last message, or details of the entry under the cursor.
func formatStatusMessage(state *statepkg.AppState) (string, statepkg.StatusLevel) {
	status := state.Status
	if status.Text != "" && (status.Level == statepkg.StatusError || state.Queue == nil || state.Queue.Idle()) {
		return status.Text, status.Level
	}
	if state.Queue != nil {
		if line := state.Queue.StatusLine(); line != "" {
			return line, statepkg.StatusInfo
		}
	}
	if status.Text != "" {
		return status.Text, status.Level
	}
	return formatEntryDetails(state.ActiveTab().CursorEntry()), statepkg.StatusInfo
}

func formatEntryDetails(entry *fsutil.Entry) string {
	if entry == nil {
		return ""
	}
	parts := []string{entry.Meta.Mode.String()}
	if !entry.IsDir() {
		parts = append(parts, humanize.Bytes(uint64(entry.Meta.Size)))
	}
	if !entry.Meta.Modified.IsZero() {
		parts = append(parts, humanize.Time(entry.Meta.Modified))
	}
	if entry.IsSymlink() {
		target := "→ " + entry.Meta.LinkTarget
		if !entry.Meta.LinkValid {
			target += " (broken)"
		}
		parts = append(parts, target)
	}
	return strings.Join(parts, "  ")
}

// formatStatusSummary builds the right side of the status line.
func formatStatusSummary(state *statepkg.AppState) string {
	tab := state.ActiveTab()
	cur := tab.Current()

	var parts []string
	if cur != nil {
		if n := cur.SelectedCount(); n > 0 {
			parts = append(parts, fmt.Sprintf("%d selected", n))
		}
	}
	if !state.Paste.Empty() {
		parts = append(parts, fmt.Sprintf("%d to %s", len(state.Paste.Paths), state.Paste.Op))
	}
	if state.Queue != nil {
		queued := len(state.Queue.Pending())
		if _, running := state.Queue.Running(); running {
			queued++
		}
		if queued > 0 {
			parts = append(parts, fmt.Sprintf("tasks: %d", queued))
		}
	}
	if cur != nil {
		if idx, ok := cur.Cursor(); ok {
			parts = append(parts, fmt.Sprintf("%d/%d", idx+1, len(cur.Entries)))
		} else {
			parts = append(parts, "0/0")
		}
	}
	parts = append(parts, tab.Sort.Label())
	return strings.Join(parts, " · ")
}
