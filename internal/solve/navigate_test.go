package solve

import (
	"math/rand"
	"testing"

	"crossword/internal/puzzle"
)

func loadBuiltin(t *testing.T) *puzzle.Index {
	t.Helper()
	ix, err := puzzle.Load("")
	if err != nil {
		t.Fatalf("load builtin: %v", err)
	}
	return ix
}

func pos(r, c int) puzzle.Position { return puzzle.Position{Row: r, Col: c} }

func typeWord(ix *puzzle.Index, s *State, word string) {
	for _, r := range word {
		Apply(ix, s, CharEvent(r))
	}
}

func assertActive(t *testing.T, s *State, p puzzle.Position, dir puzzle.Direction, number int) {
	t.Helper()
	if s.Active != p || s.Direction != dir || s.ClueNumber != number {
		t.Fatalf("expected active %v %s-%d, got %v %s-%d", p, dir, number, s.Active, s.Direction, s.ClueNumber)
	}
}

func TestNewStateStartsAtFirstAcrossClue(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	assertActive(t, s, pos(1, 3), puzzle.Across, 3)
	if s.Complete || s.Elapsed != 0 || len(s.Revealed) != 0 {
		t.Fatalf("unexpected non-default state: %+v", s)
	}
}

func TestTypingSaltFillsWordAndAdvances(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)

	steps := []struct {
		ch   rune
		want puzzle.Position
	}{
		{'s', pos(1, 4)},
		{'a', pos(1, 5)},
		{'l', pos(1, 6)},
		{'t', pos(1, 6)},
	}
	for _, step := range steps {
		eff := Apply(ix, s, CharEvent(step.ch))
		if !eff.Has(EffectInput) {
			t.Fatalf("typing %q reported no input change", step.ch)
		}
		if s.Active != step.want {
			t.Fatalf("after %q expected active %v, got %v", step.ch, step.want, s.Active)
		}
	}
	for i, want := range "SALT" {
		if got := s.Letter(pos(1, 3+i)); got != want {
			t.Fatalf("cell (1,%d): got %q want %q", 3+i, got, want)
		}
	}
	if !s.Completed.Has(puzzle.ClueID{Direction: puzzle.Across, Number: 3}) {
		t.Fatalf("expected A-3 completed, got %v", s.Completed.Sorted())
	}
}

func TestCharacterAdvanceSkipsFilledSquares(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	s.setLetter(pos(1, 4), 'A')
	s.setLetter(pos(1, 5), 'L')

	Apply(ix, s, CharEvent('S'))
	if s.Active != pos(1, 6) {
		t.Fatalf("expected jump to next empty square (1,6), got %v", s.Active)
	}

	// With the rest of the word filled, advance to the literal next square.
	s = NewState(ix)
	typeWord(ix, s, "SALT")
	Apply(ix, s, ClueClickEvent(3, puzzle.Across))
	assertActive(t, s, pos(1, 3), puzzle.Across, 3)
	Apply(ix, s, CharEvent('S'))
	if s.Active != pos(1, 4) {
		t.Fatalf("expected literal next square (1,4), got %v", s.Active)
	}
}

func TestCharacterInputIgnoresNonAlphanumerics(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	for _, r := range []rune{'!', ' ', 'é', '-'} {
		if eff := Apply(ix, s, CharEvent(r)); eff != 0 {
			t.Fatalf("expected %q to be ignored, got effect %b", r, eff)
		}
	}
	if s.Letter(pos(1, 3)) != 0 {
		t.Fatalf("expected square to stay empty")
	}
}

func TestBackspaceDeletesOneSquarePerPress(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	typeWord(ix, s, "SALT")

	for i := 3; i >= 0; i-- {
		before := filledCount(ix, s)
		eff := Apply(ix, s, BackspaceEvent())
		if !eff.Has(EffectInput) {
			t.Fatalf("press %d deleted nothing", 4-i)
		}
		if got := filledCount(ix, s); got != before-1 {
			t.Fatalf("press %d: filled went %d -> %d", 4-i, before, got)
		}
		if s.Active != pos(1, 3+i) {
			t.Fatalf("press %d: expected active (1,%d), got %v", 4-i, 3+i, s.Active)
		}
	}
	if eff := Apply(ix, s, BackspaceEvent()); eff != 0 {
		t.Fatalf("expected no-op at word start, got %b", eff)
	}
}

func TestBackspaceFromEmptySquareSkipsGaps(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	s.setLetter(pos(1, 3), 'S')
	s.Active = pos(1, 6)

	Apply(ix, s, BackspaceEvent())
	if s.Active != pos(1, 3) || s.Letter(pos(1, 3)) != 0 {
		t.Fatalf("expected nearest filled square (1,3) cleared, active %v letter %q", s.Active, s.Letter(pos(1, 3)))
	}

	// Nothing filled behind: step back one square without deleting.
	s = NewState(ix)
	s.Active = pos(1, 5)
	eff := Apply(ix, s, BackspaceEvent())
	if eff.Has(EffectInput) || s.Active != pos(1, 4) {
		t.Fatalf("expected plain step back to (1,4), got %v effect %b", s.Active, eff)
	}
}

func TestDeleteClearsWithoutMoving(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	s.setLetter(pos(1, 3), 'S')
	Apply(ix, s, DeleteEvent())
	if s.Letter(pos(1, 3)) != 0 || s.Active != pos(1, 3) {
		t.Fatalf("expected (1,3) cleared in place")
	}
	if eff := Apply(ix, s, DeleteEvent()); eff != 0 {
		t.Fatalf("expected delete on empty square to be a no-op")
	}
}

func TestArrowKeys(t *testing.T) {
	ix := loadBuiltin(t)

	cases := []struct {
		name   string
		start  puzzle.Position
		dir    puzzle.Direction
		arrow  Arrow
		want   puzzle.Position
		wantD  puzzle.Direction
		wantN  int
		noMove bool
	}{
		{name: "along axis", start: pos(1, 3), dir: puzzle.Across, arrow: ArrowRight, want: pos(1, 4), wantD: puzzle.Across, wantN: 3},
		{name: "perpendicular switches direction", start: pos(1, 4), dir: puzzle.Across, arrow: ArrowDown, want: pos(1, 4), wantD: puzzle.Down, wantN: 2},
		{name: "perpendicular without word stays", start: pos(1, 3), dir: puzzle.Across, arrow: ArrowDown, want: pos(1, 3), wantD: puzzle.Across, wantN: 3, noMove: true},
		{name: "skips blocked squares", start: pos(1, 6), dir: puzzle.Across, arrow: ArrowRight, want: pos(1, 9), wantD: puzzle.Down, wantN: 4},
		{name: "edge is a no-op", start: pos(0, 0), dir: puzzle.Down, arrow: ArrowUp, want: pos(0, 0), wantD: puzzle.Down, wantN: 1, noMove: true},
		{name: "no playable square before edge", start: pos(2, 11), dir: puzzle.Across, arrow: ArrowRight, want: pos(2, 11), wantD: puzzle.Across, wantN: 6, noMove: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState(ix)
			s.Active = tc.start
			resolveActive(ix, s, tc.dir)
			eff := Apply(ix, s, ArrowEvent(tc.arrow))
			if tc.noMove && eff != 0 {
				t.Fatalf("expected no-op, got %b", eff)
			}
			assertActive(t, s, tc.want, tc.wantD, tc.wantN)
		})
	}
}

func TestTabCyclesClues(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)

	Apply(ix, s, TabEvent(false))
	assertActive(t, s, pos(2, 6), puzzle.Across, 6)

	Apply(ix, s, ClueClickEvent(13, puzzle.Across))
	Apply(ix, s, TabEvent(false))
	assertActive(t, s, pos(0, 0), puzzle.Down, 1)

	Apply(ix, s, TabEvent(true))
	assertActive(t, s, pos(12, 5), puzzle.Across, 13)

	Apply(ix, s, ClueClickEvent(3, puzzle.Across))
	Apply(ix, s, TabEvent(true))
	assertActive(t, s, pos(7, 1), puzzle.Down, 9)
}

func TestSpaceAndCellClickToggleDirection(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)

	// (1,3) has no down word.
	if eff := Apply(ix, s, SpaceEvent()); eff != 0 {
		t.Fatalf("expected space to be a no-op at (1,3)")
	}

	Apply(ix, s, CellClickEvent(3, 4))
	assertActive(t, s, pos(3, 4), puzzle.Across, 7)
	Apply(ix, s, CellClickEvent(3, 4))
	assertActive(t, s, pos(3, 4), puzzle.Down, 2)
	Apply(ix, s, SpaceEvent())
	assertActive(t, s, pos(3, 4), puzzle.Across, 7)

	// Clicking a down-only square flips direction.
	Apply(ix, s, CellClickEvent(5, 0))
	assertActive(t, s, pos(5, 0), puzzle.Down, 1)

	if eff := Apply(ix, s, CellClickEvent(0, 1)); eff != 0 {
		t.Fatalf("expected blocked click to be a no-op")
	}
	if eff := Apply(ix, s, CellClickEvent(40, 40)); eff != 0 {
		t.Fatalf("expected out-of-range click to be a no-op")
	}
	assertActive(t, s, pos(5, 0), puzzle.Down, 1)
}

func TestClueClickLandsOnFirstEmptySquare(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	s.setLetter(pos(1, 9), 'L')
	s.setLetter(pos(2, 9), 'O')

	Apply(ix, s, ClueClickEvent(4, puzzle.Down))
	assertActive(t, s, pos(3, 9), puzzle.Down, 4)

	if eff := Apply(ix, s, ClueClickEvent(99, puzzle.Down)); eff != 0 {
		t.Fatalf("expected unknown clue click to be a no-op")
	}
}

func TestNavigationNeverEscapesGrid(t *testing.T) {
	ix := loadBuiltin(t)
	g := ix.Grid()
	rng := rand.New(rand.NewSource(7))
	starts := g.Positions()

	for trial := 0; trial < 50; trial++ {
		s := NewState(ix)
		s.Active = starts[rng.Intn(len(starts))]
		resolveActive(ix, s, puzzle.Direction(rng.Intn(2)))
		for step := 0; step < 200; step++ {
			Apply(ix, s, ArrowEvent(Arrow(rng.Intn(4))))
			if !g.Playable(s.Active) {
				t.Fatalf("trial %d step %d: active %v is not playable", trial, step, s.Active)
			}
			if n, ok := ix.ClueAt(s.Active, s.Direction); !ok || n != s.ClueNumber {
				t.Fatalf("trial %d step %d: clue %s-%d does not own %v", trial, step, s.Direction, s.ClueNumber, s.Active)
			}
		}
	}
}

func TestCompletedPuzzleFreezesNavigation(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	Reveal(ix, s, ScopePuzzle)
	before := s.Clone()

	for _, ev := range []Event{
		CharEvent('Q'), BackspaceEvent(), DeleteEvent(), ArrowEvent(ArrowRight),
		TabEvent(false), SpaceEvent(), CellClickEvent(0, 0), ClueClickEvent(1, puzzle.Down),
	} {
		if eff := Apply(ix, s, ev); eff != 0 {
			t.Fatalf("event %+v changed a complete puzzle", ev)
		}
	}
	if s.Active != before.Active || s.Letter(pos(1, 3)) != 'S' {
		t.Fatalf("complete puzzle state changed")
	}
	if !s.Complete || !IsSolved(ix, s) {
		t.Fatalf("expected completion to stay latched")
	}
}

func filledCount(ix *puzzle.Index, s *State) int {
	n := 0
	for _, p := range ix.Grid().Positions() {
		if s.Letter(p) != 0 {
			n++
		}
	}
	return n
}
