package solve

import (
	"fmt"
	"strings"

	"crossword/internal/puzzle"
)

// Scope selects the squares a check or reveal applies to.
type Scope int

const (
	ScopeLetter Scope = iota
	ScopeWord
	ScopePuzzle
)

func (s Scope) String() string {
	switch s {
	case ScopeWord:
		return "word"
	case ScopePuzzle:
		return "puzzle"
	default:
		return "letter"
	}
}

func ParseScope(raw string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "letter", "square":
		return ScopeLetter, nil
	case "word":
		return ScopeWord, nil
	case "puzzle", "grid":
		return ScopePuzzle, nil
	}
	return ScopeLetter, fmt.Errorf("invalid scope %q", raw)
}

// IsSolved reports whether every playable square holds its solution letter.
func IsSolved(ix *puzzle.Index, s *State) bool {
	g := ix.Grid()
	for _, p := range g.Positions() {
		want, _ := ix.Solution(p)
		if s.Letter(p) != want {
			return false
		}
	}
	return true
}

// CompletedClues recomputes, from scratch, the clues whose every square
// matches the solution.
func CompletedClues(ix *puzzle.Index, s *State) ClueSet {
	out := ClueSet{}
	for _, c := range ix.AllClues() {
		if wordMatches(ix, s, ix.CellsOf(c.Number, c.Direction)) {
			out[c.ID()] = struct{}{}
		}
	}
	return out
}

func wordMatches(ix *puzzle.Index, s *State, cells []puzzle.Position) bool {
	for _, p := range cells {
		want, _ := ix.Solution(p)
		if s.Letter(p) != want {
			return false
		}
	}
	return len(cells) > 0
}

// refreshCompletion replaces Completed and latches Complete. It reports
// EffectCompleted only on the transition.
func refreshCompletion(ix *puzzle.Index, s *State) Effect {
	s.Completed = CompletedClues(ix, s)
	if s.Complete || !IsSolved(ix, s) {
		return 0
	}
	s.Complete = true
	return EffectCompleted
}

func scopeCells(ix *puzzle.Index, s *State, scope Scope) []puzzle.Position {
	switch scope {
	case ScopePuzzle:
		return ix.Grid().Positions()
	case ScopeWord:
		return ix.CellsOf(s.ClueNumber, s.Direction)
	default:
		if ix.Grid().Playable(s.Active) {
			return []puzzle.Position{s.Active}
		}
		return nil
	}
}

// Check replaces Incorrect with the filled squares in scope that disagree with
// the solution, and returns them so the caller can schedule their clear.
func Check(ix *puzzle.Index, s *State, scope Scope) CellSet {
	wrong := CellSet{}
	for _, p := range scopeCells(ix, s, scope) {
		got := s.Letter(p)
		if want, _ := ix.Solution(p); got != 0 && got != want {
			wrong[p] = struct{}{}
		}
	}
	s.Incorrect = wrong
	return wrong.clone()
}

// Reveal writes solution letters over the scope and may complete the puzzle.
// Revealing the whole puzzle always completes it.
func Reveal(ix *puzzle.Index, s *State, scope Scope) Effect {
	cells := scopeCells(ix, s, scope)
	if len(cells) == 0 {
		return 0
	}
	for _, p := range cells {
		want, _ := ix.Solution(p)
		s.setLetter(p, want)
		s.Revealed[p] = struct{}{}
		delete(s.Incorrect, p)
	}
	eff := EffectInput | EffectMarks | refreshCompletion(ix, s)
	if scope == ScopePuzzle && !s.Complete {
		s.Complete = true
		eff |= EffectCompleted
	}
	return eff
}

// Restart returns s to the defaults of a fresh session. The landing screen
// has already been dismissed, so the new session is started.
func Restart(ix *puzzle.Index, s *State) Effect {
	fresh := NewState(ix)
	fresh.Started = s.Started
	*s = *fresh
	return EffectInput | EffectMoved | EffectMarks | EffectTimer | EffectRestart
}
