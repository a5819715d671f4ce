package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"crossword/internal/puzzle"
)

// gridGeometry maps screen coordinates back to cells. x0/y0 is the top-left
// screen cell of grid square (0,0) as last rendered.
type gridGeometry struct {
	x0, y0       int
	cellW, cellH int
	rows, cols   int
}

func (g gridGeometry) cellAt(x, y int) (row, col int, ok bool) {
	if g.cellW <= 0 || g.cellH <= 0 || x < g.x0 || y < g.y0 {
		return 0, 0, false
	}
	col = (x - g.x0) / g.cellW
	row = (y - g.y0) / g.cellH
	if row >= g.rows || col >= g.cols {
		return 0, 0, false
	}
	return row, col, true
}

// clueHit is one clickable clue line: screen row y, columns [x0, x1).
type clueHit struct {
	y, x0, x1 int
	id        puzzle.ClueID
}

func (r *Root) renderPlaying() string {
	r.grid = gridGeometry{}
	r.clueHits = r.clueHits[:0]

	if r.ix == nil {
		return r.theme.Muted.Render("Loading puzzle...")
	}
	if r.layout == LayoutTooSmall {
		return r.renderTooSmall()
	}

	header := r.headerText()
	clueBar := r.clueBarText()
	status := r.statusText()

	bodyH := max(1, r.rows-chromeRows)
	gridW, gridH := gridPanelSize(r.gridSize(), r.layout)
	gridPanel := r.drawPanel(r.gridTitle(), r.gridLines(), gridW, min(gridH, bodyH))
	cw, ch := cellSize(r.layout)
	r.grid = gridGeometry{x0: 1, y0: 3, cellW: cw, cellH: ch, rows: r.ix.Grid().Rows, cols: r.ix.Grid().Cols}

	body := gridPanel
	if clueW := r.cols - gridW; clueW >= cluePanelMinW {
		cluePanel := r.renderCluePanel(clueW, bodyH, gridW, 2)
		body = lipgloss.JoinHorizontal(lipgloss.Top, gridPanel, cluePanel)
	}
	return strings.Join([]string{header, clueBar, body, status}, "\n")
}

func (r *Root) renderTooSmall() string {
	needCols, needRows := MinimumSize(r.gridSize())
	lines := []string{
		r.theme.Accent.Render(r.ix.Definition().Title),
		"",
		fmt.Sprintf("Terminal too small: need at least %dx%d, have %dx%d.", needCols, needRows, r.cols, r.rows),
		"Resize the window to keep solving. Ctrl+Q quits.",
	}
	for i := range lines {
		lines[i] = trimForWidth(lines[i], max(1, r.cols-1))
	}
	return strings.Join(lines, "\n")
}

func (r *Root) gridTitle() string {
	if r.board.IsComplete {
		return "Solved"
	}
	return "Grid"
}

func (r *Root) headerText() string {
	def := r.ix.Definition()
	sep := " · "
	if r.ascii {
		sep = " - "
	}
	parts := []string{def.Title}
	if def.Date != "" {
		parts = append(parts, def.Date)
	}
	if def.Author != "" {
		parts = append(parts, "by "+def.Author)
	}
	left := strings.Join(parts, sep)

	clock := FormatClock(r.board.ElapsedSeconds)
	if r.board.IsPaused {
		clock += " paused"
	}
	right := fmt.Sprintf("%s %d/%d  %s", r.fill.ViewAs(r.fillPercent()), r.board.Filled, r.total(), clock)

	width := max(1, r.cols-2)
	room := width - ansi.StringWidth(right) - 1
	if room < 8 {
		return r.theme.Header.Width(max(1, r.cols)).Render(trimForWidth(left, width))
	}
	left = trimForWidth(left, room)
	gap := strings.Repeat(" ", max(1, width-ansi.StringWidth(left)-ansi.StringWidth(right)))
	return r.theme.Header.Width(max(1, r.cols)).Render(left + gap + right)
}

func (r *Root) total() int {
	if r.board.Total > 0 {
		return r.board.Total
	}
	return r.ix.Grid().Len()
}

func (r *Root) fillPercent() float64 {
	total := r.total()
	if total == 0 {
		return 0
	}
	return float64(r.board.Filled) / float64(total)
}

func (r *Root) clueBarText() string {
	text := r.board.ClueText
	if text == "" && r.board.State != nil {
		if c, ok := r.ix.Clue(r.board.State.ClueNumber, r.board.State.Direction); ok {
			text = c.Label()
		}
	}
	return r.theme.ClueBar.Render(trimForWidth(text, max(1, r.cols-2)))
}

func (r *Root) statusText() string {
	keys := r.help.View(r.keymap)
	if keys == "" {
		keys = "F1 Help  F2 Check  F3 Reveal  F5 Pause  F6 Restart  Ctrl+Q Quit"
	}
	if n := len(r.board.IncorrectCells); n > 0 {
		keys += " | " + r.theme.Fail.Render(fmt.Sprintf("%s %d to fix", strings.TrimSpace(r.checkSpin.View()), n))
	}
	if r.statusFlash != "" {
		keys += " | " + r.statusFlash
	}
	keys = trimForWidth(keys, max(1, r.cols-1))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) gridLines() []string {
	g := r.ix.Grid()
	cw, ch := cellSize(r.layout)
	lines := make([]string, 0, g.Rows*ch)
	for row := 0; row < g.Rows; row++ {
		var top, bottom strings.Builder
		for col := 0; col < g.Cols; col++ {
			p := puzzle.Position{Row: row, Col: col}
			t, b := r.cellText(p, cw)
			style := r.cellStyle(p)
			top.WriteString(style.Render(t))
			bottom.WriteString(style.Render(b))
		}
		if ch == 2 {
			lines = append(lines, top.String())
		}
		lines = append(lines, bottom.String())
	}
	return lines
}

// cellText returns the number line and the letter line of one square. The
// active square is bracketed and a marked-wrong square gets bangs, so the
// grid reads without color.
func (r *Root) cellText(p puzzle.Position, cw int) (top, bottom string) {
	cell, ok := r.ix.Grid().At(p)
	if !ok {
		fill := "█"
		if r.ascii {
			fill = "#"
		}
		s := strings.Repeat(fill, cw)
		return s, s
	}
	top = strings.Repeat(" ", cw)
	if cell.Number > 0 {
		top = padRune(strconv.Itoa(cell.Number), cw)
	}

	st := r.board.State
	letter := " "
	if ch := st.Letter(p); ch != 0 {
		letter = string(ch)
	}
	left, right := " ", " "
	switch {
	case p == st.Active:
		left, right = "[", "]"
	case st.Incorrect.Has(p):
		left, right = "!", "!"
	}
	return top, padRune(left+letter+right, cw)
}

func (r *Root) cellStyle(p puzzle.Position) lipgloss.Style {
	if !r.ix.Grid().Playable(p) {
		return r.theme.CellBlocked
	}
	st := r.board.State
	switch {
	case st.Incorrect.Has(p):
		return r.theme.CellIncorrect
	case p == st.Active:
		return r.theme.CellActive
	case st.Revealed.Has(p):
		return r.theme.CellRevealed
	case r.inActiveWord(p):
		return r.theme.CellWord
	case st.Complete:
		return r.theme.CellSolved
	}
	return r.theme.CellEmpty
}

func (r *Root) inActiveWord(p puzzle.Position) bool {
	if r.hasBoard {
		return r.board.InActiveWord(p)
	}
	st := r.board.State
	for _, q := range r.ix.CellsOf(st.ClueNumber, st.Direction) {
		if q == p {
			return true
		}
	}
	return false
}

type clueLine struct {
	text  string
	id    puzzle.ClueID
	clue  bool
	style lipgloss.Style
}

func (r *Root) clueLines(width int) []clueLine {
	st := r.board.State
	active := st.ActiveClue()
	activeMark, doneMark := "▸ ", "✓ "
	if r.ascii {
		activeMark, doneMark = "> ", "* "
	}

	var out []clueLine
	for i, dir := range []puzzle.Direction{puzzle.Across, puzzle.Down} {
		if i > 0 {
			out = append(out, clueLine{})
		}
		out = append(out, clueLine{text: dir.String(), style: r.theme.PanelTitle})
		for _, c := range r.ix.Clues(dir) {
			mark, style := "  ", r.theme.PanelBody
			switch {
			case c.ID() == active:
				mark, style = activeMark, r.theme.Accent
			case st.Completed.Has(c.ID()):
				mark, style = doneMark, r.theme.Muted
			}
			text := trimForWidth(fmt.Sprintf("%s%2d %s", mark, c.Number, c.Text), width)
			out = append(out, clueLine{text: text, id: c.ID(), clue: true, style: style})
		}
	}
	return out
}

// renderCluePanel draws the clue lists at screen origin (x, y), scrolled so
// the active clue stays visible, and records the clickable rows.
func (r *Root) renderCluePanel(width, height, x, y int) string {
	innerW := max(1, width-2)
	innerH := max(1, height-2)
	lines := r.clueLines(innerW)

	offset := 0
	active := r.board.State.ActiveClue()
	for i, l := range lines {
		if l.clue && l.id == active && i >= innerH {
			offset = i - innerH + 1
			break
		}
	}

	rendered := make([]string, 0, innerH)
	for i := offset; i < len(lines) && len(rendered) < innerH; i++ {
		l := lines[i]
		if l.clue {
			r.clueHits = append(r.clueHits, clueHit{
				y:  y + 1 + len(rendered),
				x0: x + 1,
				x1: x + 1 + innerW,
				id: l.id,
			})
		}
		rendered = append(rendered, l.style.Render(l.text))
	}
	return r.drawPanel("Clues", rendered, width, height)
}
