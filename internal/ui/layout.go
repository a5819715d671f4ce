package ui

// GridSize is the puzzle geometry the layout has to fit.
type GridSize struct {
	Rows int
	Cols int
}

const (
	// header, clue bar and status line
	chromeRows    = 3
	cluePanelMinW = 30
)

func cellSize(mode LayoutMode) (w, h int) {
	if mode == LayoutWide {
		return 4, 2
	}
	return 3, 1
}

// gridPanelSize includes the panel border.
func gridPanelSize(g GridSize, mode LayoutMode) (w, h int) {
	cw, ch := cellSize(mode)
	return g.Cols*cw + 2, g.Rows*ch + 2
}

// DetermineLayoutMode picks two-line cells with a clue panel when both fit,
// one-line cells when only the grid fits, and LayoutTooSmall otherwise.
func DetermineLayoutMode(cols, rows int, g GridSize) LayoutMode {
	w, h := gridPanelSize(g, LayoutWide)
	if cols >= w+cluePanelMinW && rows >= h+chromeRows {
		return LayoutWide
	}
	w, h = gridPanelSize(g, LayoutCompact)
	if cols >= w && rows >= h+chromeRows {
		return LayoutCompact
	}
	return LayoutTooSmall
}

// MinimumSize is the smallest terminal that can show the grid.
func MinimumSize(g GridSize) (cols, rows int) {
	w, h := gridPanelSize(g, LayoutCompact)
	return w, h + chromeRows
}
