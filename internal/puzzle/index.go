package puzzle

import (
	"fmt"
	"sort"
)

// Index is the read-only word lookup built once from a Definition.
type Index struct {
	def   *Definition
	grid  *Grid
	clues map[Direction][]Clue
	spans map[ClueID][]Position
}

// NewIndex validates def and derives the grid and word spans from it.
func NewIndex(def *Definition) (*Index, error) {
	def.normalize()
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("puzzle %s: %w", def.PuzzleID, err)
	}
	ix := &Index{
		def:   def,
		grid:  buildGrid(def),
		clues: map[Direction][]Clue{},
		spans: map[ClueID][]Position{},
	}
	for dir, list := range map[Direction][]Clue{Across: def.Across, Down: def.Down} {
		sorted := append([]Clue(nil), list...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })
		ix.clues[dir] = sorted
		for _, c := range sorted {
			ix.spans[c.ID()] = c.Cells()
		}
	}
	return ix, nil
}

func (ix *Index) Definition() *Definition { return ix.def }

func (ix *Index) Grid() *Grid { return ix.grid }

// CellsOf returns the ordered span of a clue, or nil when no such clue exists.
func (ix *Index) CellsOf(number int, dir Direction) []Position {
	return ix.spans[ClueID{Direction: dir, Number: number}]
}

// ClueAt returns the number of the clue in dir that passes through p.
func (ix *Index) ClueAt(p Position, dir Direction) (int, bool) {
	cell, ok := ix.grid.At(p)
	if !ok {
		return 0, false
	}
	return cell.ClueNumber(dir)
}

func (ix *Index) Clue(number int, dir Direction) (Clue, bool) {
	for _, c := range ix.clues[dir] {
		if c.Number == number {
			return c, true
		}
	}
	return Clue{}, false
}

// Clues lists the clues of one direction in increasing number order.
func (ix *Index) Clues(dir Direction) []Clue {
	return ix.clues[dir]
}

// AllClues lists across clues followed by down clues.
func (ix *Index) AllClues() []Clue {
	out := make([]Clue, 0, len(ix.clues[Across])+len(ix.clues[Down]))
	out = append(out, ix.clues[Across]...)
	return append(out, ix.clues[Down]...)
}

func (ix *Index) Solution(p Position) (rune, bool) {
	cell, ok := ix.grid.At(p)
	if !ok {
		return 0, false
	}
	return cell.Letter, true
}

// FirstCell is where a fresh session starts: the first across clue, else
// the first playable square.
func (ix *Index) FirstCell() Position {
	if across := ix.clues[Across]; len(across) > 0 {
		return Position{Row: across[0].Row, Col: across[0].Col}
	}
	if len(ix.grid.order) > 0 {
		return ix.grid.order[0]
	}
	return Position{}
}
