package render

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

const previewInnerPadding = 1

// drawPreview fills the right-hand column: the child listing for a directory,
// or the loaded preview for a file.
func (r *Renderer) drawPreview(state *statepkg.AppState, startX, width, top, rows int) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.PreviewFg)
	tab := state.ActiveTab()
	entry := tab.CursorEntry()

	if entry != nil && entry.IsDir() {
		r.drawListing(tab.PreviewDir(), startX, width, top, rows, panePreview)
		return
	}

	var lines []string
	style := base
	switch p := state.Preview; {
	case entry == nil:
	case p == nil || p.Path != entry.FullPath:
		if state.PreviewLoading() {
			lines = []string{"loading…"}
			style = base.Foreground(r.theme.MutedFg)
		}
	case p.Binary:
		lines = binaryPreviewLines(p)
		style = base.Foreground(r.theme.MutedFg)
	default:
		lines = p.Lines
	}

	innerX := startX + previewInnerPadding
	innerW := width - previewInnerPadding
	y := top
	for _, line := range lines {
		if y >= top+rows {
			break
		}
		r.fillRow(startX, innerX, y, base)
		text := r.expandTabs(sanitizeTerminalText(line), previewTabWidth)
		x := r.drawTextLine(innerX, y, innerW, text, style)
		r.fillRow(x, startX+width, y, base)
		y++
	}
	if p := state.Preview; entry != nil && p != nil && p.Path == entry.FullPath && p.Truncated && !p.Binary && y < top+rows {
		msg := fmt.Sprintf("… first %s of %s shown", humanize.IBytes(uint64(p.Shown)), humanize.IBytes(uint64(p.Size)))
		x := r.drawTextLine(innerX, y, innerW, msg, base.Foreground(r.theme.MutedFg))
		r.fillRow(startX, innerX, y, base)
		r.fillRow(x, startX+width, y, base)
		y++
	}
	for ; y < top+rows; y++ {
		r.fillRow(startX, startX+width, y, base)
	}
}

// binaryPreviewLines describes a file whose contents are not shown.
func binaryPreviewLines(p *statepkg.PreviewData) []string {
	kind := "binary file"
	if !p.Mode.IsRegular() {
		kind = "special file"
	}
	lines := []string{
		p.Name,
		"",
		kind,
		fmt.Sprintf("size      %s (%s bytes)", humanize.Bytes(uint64(p.Size)), humanize.Comma(p.Size)),
		fmt.Sprintf("mode      %s", p.Mode),
	}
	if !p.Modified.IsZero() {
		lines = append(lines, fmt.Sprintf("modified  %s (%s)", humanize.Time(p.Modified), p.Modified.Format("2006-01-02 15:04")))
	}
	return lines
}
