package render

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rfm/internal/dircache"
	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

const yankFlashDuration = 100 * time.Millisecond

// Renderer handles all UI rendering
type Renderer struct {
	screen       tcell.Screen
	theme        ColorTheme
	asciiWidth   [128]int // width+1, 0 means not cached yet
	asciiWidthMu sync.RWMutex
	wideWidth    sync.Map
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if state == nil || state.ActiveTab() == nil || w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	if h > 2 {
		r.drawPanes(state, w, 1, h-1)
	}
	if h > 1 {
		r.drawFooter(state, w, h-1)
	}
	r.screen.Show()
}

// drawHeader renders the tab strip followed by the current path.
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	activeStyle := tcell.StyleDefault.Background(r.theme.TabActiveBg).Foreground(r.theme.TabActiveFg).Bold(true)

	x := 0
	if len(state.Tabs) > 1 {
		for i, tab := range state.Tabs {
			label := fmt.Sprintf(" %d:%s ", i+1, sanitizeTerminalText(tabLabel(tab.Cwd)))
			tabStyle := style
			if i == state.Active {
				tabStyle = activeStyle
			}
			x = r.drawTextLine(x, 0, w-x, r.truncateTextToWidth(label, w/2-x), tabStyle)
		}
		if x < w {
			r.screen.SetContent(x, 0, ' ', nil, style)
			x++
		}
	}

	suffix := ""
	if cur := state.ActiveTab().Current(); cur != nil && cur.Filter.Active() {
		suffix = fmt.Sprintf("  [filter: %s]", sanitizeTerminalText(cur.Filter.String()))
	}
	suffixWidth := r.measureTextWidth(suffix)

	path := sanitizeTerminalText(state.CurrentPath())
	pathWidth := w - x - suffixWidth
	if pathWidth < 1 {
		suffix, pathWidth = "", w-x
	}
	x = r.drawTextLine(x, 0, w-x, r.truncateLeft(path, pathWidth), style.Bold(true))
	x = r.drawTextLine(x, 0, w-x, suffix, style.Foreground(r.theme.MutedFg))
	r.fillRow(x, w, 0, style)
}

func tabLabel(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return path
	}
	return base
}

// drawPanes renders parent, current and preview columns between top and
// bottom (exclusive).
func (r *Renderer) drawPanes(state *statepkg.AppState, w, top, bottom int) {
	cols := computeColumns(w)
	tab := state.ActiveTab()
	rows := bottom - top

	if cols.parentW > 0 {
		r.drawListing(tab.Parent(), cols.parentX, cols.parentW, top, rows, paneParent)
	}
	r.drawListing(tab.Current(), cols.currentX, cols.currentW, top, rows, paneCurrent)
	if cols.previewW > 0 {
		r.drawPreview(state, cols.previewX, cols.previewW, top, rows)
	}
}

type paneRole int

const (
	paneParent paneRole = iota
	paneCurrent
	panePreview
)

// drawListing renders a directory snapshot as one column.
func (r *Renderer) drawListing(snap *dircache.Snapshot, startX, width, top, rows int, role paneRole) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	if width <= 0 || rows <= 0 {
		return
	}

	y := top
	switch {
	case snap == nil:
		if role == paneParent {
			break
		}
		y = r.drawMessage(startX, width, y, "not readable", base.Foreground(r.theme.ErrorFg))
	case len(snap.Entries) == 0:
		label := "empty"
		if snap.Filter.Active() {
			label = "no matches"
		}
		y = r.drawMessage(startX, width, y, label, base.Foreground(r.theme.MutedFg))
	default:
		cursor, _ := snap.Cursor()
		start := scrollOffset(cursor, len(snap.Entries), rows)
		end := min(start+rows, len(snap.Entries))
		for i := start; i < end; i++ {
			r.drawEntry(snap.Entries[i], startX, width, y, i == cursor, role, base)
			y++
		}
	}

	for ; y < top+rows; y++ {
		r.fillRow(startX, startX+width, y, base)
	}
}

func (r *Renderer) drawMessage(startX, width, y int, text string, style tcell.Style) int {
	x := r.drawTextLine(startX, y, width, " "+text, style)
	r.fillRow(x, startX+width, y, style)
	return y + 1
}

func (r *Renderer) drawEntry(entry fsutil.Entry, startX, width, y int, isCursor bool, role paneRole, base tcell.Style) {
	rowStyle := r.entryStyle(entry, base)
	if isCursor {
		switch role {
		case paneCurrent:
			rowStyle = tcell.StyleDefault.Background(r.theme.CursorBg).Foreground(r.theme.CursorFg)
		default:
			rowStyle = tcell.StyleDefault.Background(r.theme.ParentBg).Foreground(r.theme.ParentFg)
		}
	}

	mark := ' '
	if entry.Selected {
		mark = '*'
		if !isCursor {
			rowStyle = rowStyle.Foreground(r.theme.SelectedFg).Bold(true)
		}
	}
	prefix := fmt.Sprintf("%c%c ", mark, entryIcon(entry))

	info := ""
	if role == paneCurrent && width >= 24 {
		info = entrySizeLabel(entry)
	}
	infoWidth := r.measureTextWidth(info)
	nameWidth := width - r.measureTextWidth(prefix) - infoWidth - 1
	if nameWidth < 1 {
		info, infoWidth = "", 0
		nameWidth = width - r.measureTextWidth(prefix)
	}

	name := r.truncateTextToWidth(sanitizeTerminalText(entry.Name), nameWidth)
	x := r.drawTextLine(startX, y, width, prefix+name, rowStyle)
	if info != "" {
		infoX := startX + width - infoWidth - 1
		r.fillRow(x, infoX, y, rowStyle)
		x = r.drawTextLine(infoX, y, infoWidth, info, rowStyle)
	}
	r.fillRow(x, startX+width, y, rowStyle)
}

func (r *Renderer) entryStyle(entry fsutil.Entry, base tcell.Style) tcell.Style {
	style := base.Foreground(r.theme.FileFg)
	switch {
	case entry.IsSymlink() && !entry.Meta.LinkValid:
		style = base.Foreground(r.theme.BrokenFg)
	case entry.IsSymlink():
		style = base.Foreground(r.theme.SymlinkFg)
	case entry.IsDir():
		style = base.Foreground(r.theme.DirectoryFg).Bold(true)
	}
	if entry.IsHidden() {
		style = style.Foreground(r.theme.HiddenFg)
	}
	return style
}

// entryIcon: '/' for directories, '@' for symlinks.
func entryIcon(entry fsutil.Entry) rune {
	switch {
	case entry.IsSymlink():
		return '@'
	case entry.IsDir():
		return '/'
	default:
		return ' '
	}
}

// drawFooter renders the prompt when one is open, otherwise the status line.
func (r *Renderer) drawFooter(state *statepkg.AppState, w, y int) {
	base := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	if state.Mode != statepkg.ModeNormal {
		r.drawPrompt(state, w, y, base)
		return
	}

	summary := " " + formatStatusSummary(state) + " "
	summaryWidth := r.measureTextWidth(summary)
	if summaryWidth > w/2 {
		summary, summaryWidth = "", 0
	}

	text, level := formatStatusMessage(state)
	style := r.statusStyle(base, level)
	if !state.LastYankTime.IsZero() && time.Since(state.LastYankTime) < yankFlashDuration {
		style = base.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	}

	leftWidth := w - summaryWidth
	x := r.drawTextLine(0, y, leftWidth, r.truncateTextToWidth(" "+sanitizeTerminalText(text), leftWidth), style)
	r.fillRow(x, leftWidth, y, base)
	x = r.drawTextLine(leftWidth, y, summaryWidth, summary, base.Foreground(r.theme.MutedFg))
	r.fillRow(x, w, y, base)
}

func (r *Renderer) statusStyle(base tcell.Style, level statepkg.StatusLevel) tcell.Style {
	switch level {
	case statepkg.StatusError:
		return base.Foreground(r.theme.ErrorFg).Bold(true)
	case statepkg.StatusSuccess:
		return base.Foreground(r.theme.SuccessFg)
	default:
		return base.Foreground(r.theme.InfoFg)
	}
}

func (r *Renderer) drawPrompt(state *statepkg.AppState, w, y int, base tcell.Style) {
	cursorStyle := base.Background(r.theme.CursorBg).Foreground(r.theme.CursorFg)

	help := buildPromptHelpText(state)
	if help != "" {
		help = "  " + help + " "
	}
	helpWidth := r.measureTextWidth(help)
	if helpWidth > w/2 {
		help, helpWidth = "", 0
	}

	promptWidth := w - helpWidth - 1
	line := promptPrefix(state.Mode) + sanitizeTerminalText(state.Input)
	x := r.drawTextLine(0, y, promptWidth, r.truncateLeft(line, promptWidth), base.Bold(true))
	if x < w {
		r.screen.SetContent(x, y, ' ', nil, cursorStyle)
		x++
	}
	r.fillRow(x, w-helpWidth, y, base)
	x = r.drawTextLine(w-helpWidth, y, helpWidth, help, base.Foreground(r.theme.MutedFg))
	r.fillRow(x, w, y, base)
}
