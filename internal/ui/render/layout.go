package render

// columns holds the x offset and width of the three panes.
type columns struct {
	parentX, parentW   int
	currentX, currentW int
	previewX, previewW int
}

const (
	parentRatio  = 1
	currentRatio = 2
	previewRatio = 3

	// Below this width the parent pane is dropped; below the next the
	// preview goes too.
	minThreePaneWidth = 60
	minTwoPaneWidth   = 36
	columnGap         = 1
	previewTabWidth   = 4
)

// computeColumns splits w cells between parent, current and preview panes in
// a 1:2:3 ratio, collapsing panes on narrow terminals.
func computeColumns(w int) columns {
	if w <= 0 {
		return columns{}
	}

	switch {
	case w >= minThreePaneWidth:
		usable := w - 2*columnGap
		unit := usable / (parentRatio + currentRatio + previewRatio)
		c := columns{parentW: unit * parentRatio, currentW: unit * currentRatio}
		c.currentX = c.parentW + columnGap
		c.previewX = c.currentX + c.currentW + columnGap
		c.previewW = w - c.previewX
		return c
	case w >= minTwoPaneWidth:
		usable := w - columnGap
		unit := usable / (currentRatio + previewRatio)
		c := columns{currentW: unit * currentRatio}
		c.previewX = c.currentW + columnGap
		c.previewW = w - c.previewX
		return c
	default:
		return columns{currentW: w, previewX: w}
	}
}

// scrollOffset keeps cursor inside a window of rows lines, centring it when
// the listing is longer than the window.
func scrollOffset(cursor, total, rows int) int {
	if rows <= 0 || total <= rows || cursor < 0 {
		return 0
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start > total-rows {
		start = total - rows
	}
	return start
}
