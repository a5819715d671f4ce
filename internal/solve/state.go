package solve

import (
	"sort"

	"crossword/internal/puzzle"
)

// CellSet is a set of grid positions.
type CellSet map[puzzle.Position]struct{}

func (s CellSet) Has(p puzzle.Position) bool {
	_, ok := s[p]
	return ok
}

// Sorted lists the set in row-major order.
func (s CellSet) Sorted() []puzzle.Position {
	out := make([]puzzle.Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func (s CellSet) clone() CellSet {
	out := make(CellSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// ClueSet is a set of clue ids.
type ClueSet map[puzzle.ClueID]struct{}

func (s ClueSet) Has(id puzzle.ClueID) bool {
	_, ok := s[id]
	return ok
}

// Sorted lists across ids before down ids, each by number.
func (s ClueSet) Sorted() []puzzle.ClueID {
	out := make([]puzzle.ClueID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Direction != out[j].Direction {
			return out[i].Direction < out[j].Direction
		}
		return out[i].Number < out[j].Number
	})
	return out
}

func (s ClueSet) clone() ClueSet {
	out := make(ClueSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// State is the mutable solve session. Input holds 0 for empty squares.
// ClueNumber is 0 only when the active square has no clue at all, which a
// valid puzzle never produces.
type State struct {
	Input      [][]rune
	Active     puzzle.Position
	Direction  puzzle.Direction
	ClueNumber int

	Incorrect CellSet
	Revealed  CellSet
	Completed ClueSet

	Complete bool
	Elapsed  int
	Paused   bool
	Started  bool
}

// NewState returns the default state: first cell of the first across clue,
// direction Across, empty input, timer at zero.
func NewState(ix *puzzle.Index) *State {
	g := ix.Grid()
	s := &State{
		Input:     make([][]rune, g.Rows),
		Incorrect: CellSet{},
		Revealed:  CellSet{},
		Completed: ClueSet{},
	}
	for r := range s.Input {
		s.Input[r] = make([]rune, g.Cols)
	}
	s.Active = ix.FirstCell()
	resolveActive(ix, s, puzzle.Across)
	return s
}

func (s *State) Letter(p puzzle.Position) rune {
	if p.Row < 0 || p.Row >= len(s.Input) || p.Col < 0 || p.Col >= len(s.Input[p.Row]) {
		return 0
	}
	return s.Input[p.Row][p.Col]
}

func (s *State) setLetter(p puzzle.Position, r rune) {
	s.Input[p.Row][p.Col] = r
}

func (s *State) ActiveClue() puzzle.ClueID {
	return puzzle.ClueID{Direction: s.Direction, Number: s.ClueNumber}
}

func (s *State) Clone() *State {
	out := *s
	out.Input = make([][]rune, len(s.Input))
	for r := range s.Input {
		out.Input[r] = append([]rune(nil), s.Input[r]...)
	}
	out.Incorrect = s.Incorrect.clone()
	out.Revealed = s.Revealed.clone()
	out.Completed = s.Completed.clone()
	return &out
}

// resolveActive re-derives Direction and ClueNumber for the active square,
// keeping preferred when the square has a clue in it. Every transition that
// moves the cursor or changes direction ends here.
func resolveActive(ix *puzzle.Index, s *State, preferred puzzle.Direction) {
	if n, ok := ix.ClueAt(s.Active, preferred); ok {
		s.Direction, s.ClueNumber = preferred, n
		return
	}
	if n, ok := ix.ClueAt(s.Active, preferred.Other()); ok {
		s.Direction, s.ClueNumber = preferred.Other(), n
		return
	}
	s.Direction, s.ClueNumber = preferred, 0
}
