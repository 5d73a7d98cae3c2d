package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// runeWidth returns the terminal width of ru; combining marks report 0.
func (r *Renderer) runeWidth(ru rune) int {
	if ru < 128 {
		r.asciiWidthMu.RLock()
		width := r.asciiWidth[ru]
		r.asciiWidthMu.RUnlock()
		if width > 0 {
			return width - 1
		}

		actual := max(runewidth.RuneWidth(ru), 0)
		r.asciiWidthMu.Lock()
		r.asciiWidth[ru] = actual + 1
		r.asciiWidthMu.Unlock()
		return actual
	}

	if cached, ok := r.wideWidth.Load(ru); ok {
		return cached.(int)
	}
	width := max(runewidth.RuneWidth(ru), 0)
	r.wideWidth.Store(ru, width)
	return width
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.runeWidth(ru)
	}
	return width
}

// truncateTextToWidth keeps the head of text and marks the cut with an
// ellipsis.
func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if r.measureTextWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 1 {
		return ellipsis
	}

	available := maxWidth - 1
	var b strings.Builder
	width := 0
	for _, ru := range text {
		w := r.runeWidth(ru)
		if width+w > available {
			break
		}
		b.WriteRune(ru)
		width += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// truncateLeft keeps the tail of text, which is the useful end of a path.
func (r *Renderer) truncateLeft(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if r.measureTextWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 1 {
		return ellipsis
	}

	runes := []rune(text)
	available := maxWidth - 1
	width := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		w := r.runeWidth(runes[i])
		if width+w > available {
			break
		}
		width += w
		start = i
	}
	return ellipsis + string(runes[start:])
}

func (r *Renderer) expandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + tabWidth)
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			spaces := tabWidth - (column % tabWidth)
			b.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		b.WriteRune(ru)
		column += max(r.runeWidth(ru), 1)
	}
	return b.String()
}

// drawTextLine draws text from startX, clipped to maxWidth cells, and returns
// the column after the last drawn cell.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	for i := 0; i < len(runes); {
		mainc := runes[i]
		i++
		var combc []rune
		for i < len(runes) && r.runeWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		w := r.runeWidth(mainc)
		if x-startX+w > maxWidth {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}
	return x
}

// fillRow pads the rest of a row segment with style.
func (r *Renderer) fillRow(fromX, toX, y int, style tcell.Style) {
	for x := fromX; x < toX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
