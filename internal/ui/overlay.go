package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"crossword/internal/solve"
)

var (
	menuScopes     = []solve.Scope{solve.ScopeLetter, solve.ScopeWord, solve.ScopePuzzle}
	menuLabels     = []string{"Letter  (l)", "Word    (w)", "Puzzle  (p)"}
	menuShortcuts  = map[string]solve.Scope{"l": solve.ScopeLetter, "w": solve.ScopeWord, "p": solve.ScopePuzzle}
	restartLabels  = []string{"Cancel", "Restart"}
	enterBinding   = key.NewBinding(key.WithKeys("enter"))
	escBinding     = key.NewBinding(key.WithKeys("esc"))
	upBinding      = key.NewBinding(key.WithKeys("up", "left", "shift+tab"))
	downBinding    = key.NewBinding(key.WithKeys("down", "right", "tab"))
	playBinding    = key.NewBinding(key.WithKeys("enter", "space"))
	confirmBinding = key.NewBinding(key.WithKeys("y"))
)

// menuItemRow is the overlay line index of the first menu entry.
const menuItemRow = 2

func (r *Root) topOverlay() string {
	switch {
	case r.ix == nil:
		return ""
	case r.restartOpen:
		return "restart"
	case r.checkOpen:
		return "check"
	case r.revealOpen:
		return "reveal"
	case !r.board.Started:
		return "landing"
	case r.board.IsPaused:
		return "paused"
	case r.completionOpen:
		return "completion"
	}
	return ""
}

func (r *Root) overlayActive() bool {
	return r.topOverlay() != ""
}

func (r *Root) closeTopOverlay() {
	switch r.topOverlay() {
	case "restart":
		r.restartOpen = false
	case "check":
		r.checkOpen = false
	case "reveal":
		r.revealOpen = false
	case "completion":
		r.completionOpen = false
	}
}

func (r *Root) handleOverlayKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch top := r.topOverlay(); top {
	case "landing":
		if key.Matches(msg, playBinding) {
			r.dispatchController(func(c Controller) { c.OnPlay() })
		}
	case "paused":
		if key.Matches(msg, r.keymap.Pause, enterBinding, escBinding) {
			r.dispatchController(func(c Controller) { c.OnTogglePause() })
		}
	case "check", "reveal":
		switch {
		case key.Matches(msg, escBinding):
			r.closeTopOverlay()
		case key.Matches(msg, upBinding):
			r.menuIndex = wrapIndex(r.menuIndex-1, len(menuScopes))
		case key.Matches(msg, downBinding):
			r.menuIndex = wrapIndex(r.menuIndex+1, len(menuScopes))
		case key.Matches(msg, enterBinding):
			r.activateMenu(top, menuScopes[wrapIndex(r.menuIndex, len(menuScopes))])
		default:
			if scope, ok := menuShortcuts[msg.String()]; ok {
				r.activateMenu(top, scope)
			}
		}
	case "restart":
		switch {
		case key.Matches(msg, escBinding):
			r.restartOpen = false
		case key.Matches(msg, upBinding, downBinding):
			r.restartIndex = wrapIndex(r.restartIndex+1, len(restartLabels))
		case key.Matches(msg, confirmBinding):
			r.confirmRestart()
		case key.Matches(msg, enterBinding):
			if r.restartIndex == 1 {
				r.confirmRestart()
			} else {
				r.restartOpen = false
			}
		}
	case "completion":
		switch {
		case key.Matches(msg, enterBinding, escBinding):
			r.completionOpen = false
		case key.Matches(msg, r.keymap.Restart):
			r.restartOpen = true
			r.restartIndex = 0
		}
	}
	return r, nil
}

func (r *Root) activateMenu(which string, scope solve.Scope) {
	r.checkOpen = false
	r.revealOpen = false
	if which == "check" {
		r.dispatchController(func(c Controller) { c.OnCheck(scope) })
		return
	}
	r.dispatchController(func(c Controller) { c.OnReveal(scope) })
}

func (r *Root) confirmRestart() {
	r.restartOpen = false
	r.completionOpen = false
	r.dispatchController(func(c Controller) { c.OnRestart() })
}

func (r *Root) handleOverlayMouseClick(x, y int) (tea.Model, tea.Cmd) {
	top := r.topOverlay()
	box, ok := r.overlaySpec(top)
	if !ok {
		return r, nil
	}
	if x <= box.startCol || x >= box.startCol+box.width-1 {
		return r, nil
	}
	line := y - box.startRow - 1
	switch top {
	case "check", "reveal":
		if i := line - menuItemRow; i >= 0 && i < len(menuScopes) {
			r.menuIndex = i
			r.activateMenu(top, menuScopes[i])
		}
	case "restart":
		if i := line - menuItemRow; i >= 0 && i < len(restartLabels) {
			r.restartIndex = i
			if i == 1 {
				r.confirmRestart()
			} else {
				r.restartOpen = false
			}
		}
	}
	return r, nil
}

func (r *Root) renderOverlay() string {
	box, ok := r.overlaySpec(r.topOverlay())
	if !ok {
		return ""
	}
	return r.drawPanel(box.title, box.lines, box.width, box.height)
}

type overlaySpec struct {
	title    string
	lines    []string
	width    int
	height   int
	startRow int
	startCol int
}

func (r *Root) overlaySpec(top string) (overlaySpec, bool) {
	if top == "" {
		return overlaySpec{}, false
	}
	def := r.ix.Definition()
	w := min(64, max(24, r.cols-4))
	var title string
	var lines []string

	switch top {
	case "landing":
		title = def.Title
		lines = r.renderMarkdown(def.NotesMD)
		lines = append(lines, "")
		if def.Author != "" {
			lines = append(lines, "by "+def.Author)
		}
		if def.Date != "" {
			lines = append(lines, def.Date)
		}
		lines = append(lines, "", "Enter: Play   Ctrl+Q: Quit")
	case "paused":
		title = "Paused"
		lines = []string{
			fmt.Sprintf("Timer stopped at %s.", FormatClock(r.board.ElapsedSeconds)),
			"",
			"F5/Enter: Resume",
		}
		w = min(w, 40)
	case "check", "reveal":
		title = "Check"
		prompt := "Check which squares?"
		if top == "reveal" {
			title = "Reveal"
			prompt = "Reveal which squares?"
		}
		lines = []string{prompt, ""}
		for i, label := range menuLabels {
			prefix := "  "
			if i == r.menuIndex {
				prefix = "> "
			}
			lines = append(lines, prefix+label)
		}
		lines = append(lines, "", "Enter: Choose  Esc: Close")
		w = min(w, 40)
	case "restart":
		title = "Restart Puzzle"
		lines = []string{"Clear every square and reset the timer?", ""}
		for i, label := range restartLabels {
			prefix := "  "
			if i == r.restartIndex {
				prefix = "> "
			}
			lines = append(lines, prefix+label)
		}
		lines = append(lines, "", "y: Restart  Esc: Cancel")
		w = min(w, 48)
	case "completion":
		title = "Puzzle Complete"
		lines = r.renderMarkdown(def.CompletionMD)
		lines = append(lines, "", "Completed in "+FormatDuration(r.board.ElapsedSeconds), "", "Enter: Close  F6: Restart")
		pos := r.overlayPos
		if r.motionLevel == "off" {
			pos = 1
		}
		w = max(12, int(float64(w)*clampUnit(pos)))
	default:
		return overlaySpec{}, false
	}
	w = min(w, r.cols)
	h := min(len(lines)+2, max(3, r.rows-2))
	return overlaySpec{
		title:    title,
		lines:    lines,
		width:    w,
		height:   h,
		startRow: (r.rows - h) / 2,
		startCol: (r.cols - w) / 2,
	}, true
}

// renderMarkdown renders md to plain lines; the overlay compositor strips
// color anyway.
func (r *Root) renderMarkdown(md string) []string {
	md = strings.TrimSpace(md)
	if md == "" {
		return nil
	}
	if cached, ok := r.mdCache[md]; ok {
		return append([]string(nil), cached...)
	}
	out := md
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(md); err == nil {
			out = ansi.Strip(rendered)
		}
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	r.mdCache[md] = lines
	return append([]string(nil), lines...)
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + trimForWidth(title, innerW-2) + " "
		runes := []rune(top)
		for i, ch := range []rune(t) {
			pos := 1 + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(fitWidth(line, innerW))+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	ow := 1
	for _, line := range overlayLines {
		if lw := len([]rune(line)); lw > ow {
			ow = lw
		}
	}
	ow = min(ow, cols)
	oh := min(len(overlayLines), rows)
	startRow := (rows - oh) / 2
	startCol := max(0, (cols-ow)/2)

	for i := 0; i < oh; i++ {
		row := startRow + i
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

// fitWidth is padRune for styled text.
func fitWidth(s string, width int) string {
	s = ansi.Truncate(strings.ReplaceAll(s, "\t", "    "), width, "")
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = 0
	}
	return i
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
