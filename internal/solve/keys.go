package solve

// Key identifiers follow the browser KeyboardEvent.key names so the terminal
// and HTTP front ends share one vocabulary.
const (
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyTab        = "Tab"
	KeySpace      = " "
)

// ParseKey maps a key identifier to a navigation event. Single alphanumeric
// characters become character input; anything unrecognised reports false.
func ParseKey(key string, shift bool) (Event, bool) {
	switch key {
	case KeyBackspace:
		return BackspaceEvent(), true
	case KeyDelete:
		return DeleteEvent(), true
	case KeyArrowUp:
		return ArrowEvent(ArrowUp), true
	case KeyArrowDown:
		return ArrowEvent(ArrowDown), true
	case KeyArrowLeft:
		return ArrowEvent(ArrowLeft), true
	case KeyArrowRight:
		return ArrowEvent(ArrowRight), true
	case KeyTab:
		return TabEvent(shift), true
	case KeySpace, "Space":
		return SpaceEvent(), true
	}
	r := []rune(key)
	if len(r) == 1 && isEntryRune(r[0]) {
		return CharEvent(r[0]), true
	}
	return Event{}, false
}

// ParseText handles composed text from soft keyboards and pastes: a backward
// deletion becomes Backspace, otherwise the last alphanumeric character of
// data is entered.
func ParseText(data string, deleteBackward bool) (Event, bool) {
	if deleteBackward {
		return BackspaceEvent(), true
	}
	r := []rune(data)
	for i := len(r) - 1; i >= 0; i-- {
		if isEntryRune(r[i]) {
			return CharEvent(r[i]), true
		}
	}
	return Event{}, false
}
