package solve

import (
	"unicode"

	"crossword/internal/puzzle"
)

// Effect describes what an event changed, so callers can persist, redraw or
// celebrate without inspecting the state themselves.
type Effect uint8

const (
	EffectInput Effect = 1 << iota
	EffectMoved
	EffectCompleted
	EffectMarks
	EffectTimer
	EffectRestart
)

func (e Effect) Has(f Effect) bool { return e&f != 0 }

type EventKind int

const (
	EventNone EventKind = iota
	EventChar
	EventBackspace
	EventDelete
	EventArrow
	EventTab
	EventSpace
	EventCellClick
	EventClueClick
)

type Arrow int

const (
	ArrowUp Arrow = iota
	ArrowDown
	ArrowLeft
	ArrowRight
)

func (a Arrow) axis() puzzle.Direction {
	if a == ArrowUp || a == ArrowDown {
		return puzzle.Down
	}
	return puzzle.Across
}

func (a Arrow) delta() (int, int) {
	switch a {
	case ArrowUp:
		return -1, 0
	case ArrowDown:
		return 1, 0
	case ArrowLeft:
		return 0, -1
	default:
		return 0, 1
	}
}

// Event is one discrete input for the navigation engine.
type Event struct {
	Kind     EventKind
	Char     rune
	Arrow    Arrow
	Backward bool
	Pos      puzzle.Position
	Clue     puzzle.ClueID
}

func CharEvent(r rune) Event       { return Event{Kind: EventChar, Char: r} }
func BackspaceEvent() Event        { return Event{Kind: EventBackspace} }
func DeleteEvent() Event           { return Event{Kind: EventDelete} }
func ArrowEvent(a Arrow) Event     { return Event{Kind: EventArrow, Arrow: a} }
func TabEvent(backward bool) Event { return Event{Kind: EventTab, Backward: backward} }
func SpaceEvent() Event            { return Event{Kind: EventSpace} }
func CellClickEvent(row, col int) Event {
	return Event{Kind: EventCellClick, Pos: puzzle.Position{Row: row, Col: col}}
}
func ClueClickEvent(number int, dir puzzle.Direction) Event {
	return Event{Kind: EventClueClick, Clue: puzzle.ClueID{Direction: dir, Number: number}}
}

// Apply runs one event against s. Once the puzzle is complete the grid is
// frozen and every navigation event is a no-op.
func Apply(ix *puzzle.Index, s *State, ev Event) Effect {
	if s.Complete {
		return 0
	}
	switch ev.Kind {
	case EventChar:
		return applyChar(ix, s, ev.Char)
	case EventBackspace:
		return applyBackspace(ix, s)
	case EventDelete:
		return applyDelete(ix, s)
	case EventArrow:
		return applyArrow(ix, s, ev.Arrow)
	case EventTab:
		return applyTab(ix, s, ev.Backward)
	case EventSpace:
		return toggleDirection(ix, s)
	case EventCellClick:
		return applyCellClick(ix, s, ev.Pos)
	case EventClueClick:
		return applyClueClick(ix, s, ev.Clue)
	}
	return 0
}

func applyChar(ix *puzzle.Index, s *State, r rune) Effect {
	if !isEntryRune(r) || !ix.Grid().Playable(s.Active) {
		return 0
	}
	s.setLetter(s.Active, unicode.ToUpper(r))
	delete(s.Incorrect, s.Active)
	eff := EffectInput | refreshCompletion(ix, s)
	if eff.Has(EffectCompleted) {
		return eff
	}

	cells, idx := activeWord(ix, s)
	if idx < 0 {
		return eff
	}
	for i := idx + 1; i < len(cells); i++ {
		if s.Letter(cells[i]) == 0 {
			return eff | moveTo(ix, s, cells[i])
		}
	}
	if idx+1 < len(cells) {
		return eff | moveTo(ix, s, cells[idx+1])
	}
	return eff
}

// applyBackspace clears the active square when it holds a letter. From an
// empty square it walks back to the nearest filled square of the word and
// clears that one, so every press deletes a letter while one remains behind
// the cursor; with nothing behind it only steps back one square. Clearing
// rather than stopping on an earlier empty square keeps one letter per press.
func applyBackspace(ix *puzzle.Index, s *State) Effect {
	if s.Letter(s.Active) != 0 {
		return clearCell(ix, s, s.Active)
	}
	cells, idx := activeWord(ix, s)
	if idx <= 0 {
		return 0
	}
	for i := idx - 1; i >= 0; i-- {
		if s.Letter(cells[i]) != 0 {
			return moveTo(ix, s, cells[i]) | clearCell(ix, s, cells[i])
		}
	}
	return moveTo(ix, s, cells[idx-1])
}

func applyDelete(ix *puzzle.Index, s *State) Effect {
	if s.Letter(s.Active) == 0 {
		return 0
	}
	return clearCell(ix, s, s.Active)
}

func applyArrow(ix *puzzle.Index, s *State, a Arrow) Effect {
	axis := a.axis()
	if axis != s.Direction {
		n, ok := ix.ClueAt(s.Active, axis)
		if !ok {
			return 0
		}
		s.Direction, s.ClueNumber = axis, n
		return EffectMoved
	}
	dr, dc := a.delta()
	g := ix.Grid()
	p := s.Active
	for {
		p = puzzle.Position{Row: p.Row + dr, Col: p.Col + dc}
		if !g.InBounds(p) {
			return 0
		}
		if g.Playable(p) {
			break
		}
	}
	return moveTo(ix, s, p)
}

func applyTab(ix *puzzle.Index, s *State, backward bool) Effect {
	clues := ix.Clues(s.Direction)
	idx := -1
	for i, c := range clues {
		if c.Number == s.ClueNumber {
			idx = i
			break
		}
	}
	var target puzzle.Clue
	switch {
	case !backward && idx < len(clues)-1:
		target = clues[idx+1]
	case backward && idx > 0:
		target = clues[idx-1]
	default:
		other := ix.Clues(s.Direction.Other())
		if len(other) == 0 {
			return 0
		}
		target = other[0]
		if backward {
			target = other[len(other)-1]
		}
	}
	s.Active = puzzle.Position{Row: target.Row, Col: target.Col}
	s.Direction, s.ClueNumber = target.Direction, target.Number
	return EffectMoved
}

func toggleDirection(ix *puzzle.Index, s *State) Effect {
	next := s.Direction.Other()
	n, ok := ix.ClueAt(s.Active, next)
	if !ok {
		return 0
	}
	s.Direction, s.ClueNumber = next, n
	return EffectMoved
}

func applyCellClick(ix *puzzle.Index, s *State, p puzzle.Position) Effect {
	if !ix.Grid().Playable(p) {
		return 0
	}
	if p == s.Active {
		return toggleDirection(ix, s)
	}
	return moveTo(ix, s, p)
}

func applyClueClick(ix *puzzle.Index, s *State, id puzzle.ClueID) Effect {
	cells := ix.CellsOf(id.Number, id.Direction)
	if len(cells) == 0 {
		return 0
	}
	target := cells[0]
	for _, p := range cells {
		if s.Letter(p) == 0 {
			target = p
			break
		}
	}
	s.Active = target
	s.Direction, s.ClueNumber = id.Direction, id.Number
	return EffectMoved
}

// moveTo sets the active square and re-resolves the clue, preferring the
// current direction.
func moveTo(ix *puzzle.Index, s *State, p puzzle.Position) Effect {
	s.Active = p
	resolveActive(ix, s, s.Direction)
	return EffectMoved
}

func clearCell(ix *puzzle.Index, s *State, p puzzle.Position) Effect {
	s.setLetter(p, 0)
	delete(s.Incorrect, p)
	return EffectInput | refreshCompletion(ix, s)
}

// activeWord returns the active clue's span and the active square's index
// within it, or -1 when the square is not part of it.
func activeWord(ix *puzzle.Index, s *State) ([]puzzle.Position, int) {
	cells := ix.CellsOf(s.ClueNumber, s.Direction)
	for i, p := range cells {
		if p == s.Active {
			return cells, i
		}
	}
	return cells, -1
}

func isEntryRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
