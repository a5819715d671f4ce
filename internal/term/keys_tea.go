package term

import (
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"

	"crossword/internal/solve"
)

// KeyIdentifier converts a Bubble Tea key press into the key identifier the
// solve session understands ("a", "Backspace", "ArrowUp", "Tab", " ").
// Presses carrying ctrl or alt are never puzzle input and report ok=false.
func KeyIdentifier(ev tea.KeyPressMsg) (key string, shift bool, ok bool) {
	k := ev.Key()
	if k.Mod&(tea.ModCtrl|tea.ModAlt|tea.ModMeta|tea.ModSuper) != 0 {
		return "", false, false
	}
	shift = k.Mod&tea.ModShift != 0

	switch k.Code {
	case tea.KeyUp:
		return solve.KeyArrowUp, shift, true
	case tea.KeyDown:
		return solve.KeyArrowDown, shift, true
	case tea.KeyLeft:
		return solve.KeyArrowLeft, shift, true
	case tea.KeyRight:
		return solve.KeyArrowRight, shift, true
	case tea.KeyTab:
		return solve.KeyTab, shift, true
	case tea.KeyBackspace:
		return solve.KeyBackspace, shift, true
	case tea.KeyDelete:
		return solve.KeyDelete, shift, true
	case tea.KeySpace:
		return solve.KeySpace, shift, true
	}

	if k.Text != "" && utf8.RuneCountInString(k.Text) == 1 {
		if k.Text == " " {
			return solve.KeySpace, shift, true
		}
		return k.Text, shift, true
	}
	return "", false, false
}
