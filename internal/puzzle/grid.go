package puzzle

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a (row, col) coordinate on the grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// ClueID identifies a clue by direction and number; across-7 and down-7 are distinct.
type ClueID struct {
	Direction Direction
	Number    int
}

func (id ClueID) String() string {
	return id.Direction.Short() + "-" + strconv.Itoa(id.Number)
}

func (id ClueID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ClueID) UnmarshalText(b []byte) error {
	dir, num, ok := strings.Cut(string(b), "-")
	if !ok {
		return fmt.Errorf("invalid clue id %q", string(b))
	}
	d, err := ParseDirection(dir)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid clue id %q", string(b))
	}
	*id = ClueID{Direction: d, Number: n}
	return nil
}

// Cell is a playable grid square. Across/Down are 0 when no clue of that
// direction passes through; Number is 0 unless a clue starts here.
type Cell struct {
	Position
	Letter rune
	Across int
	Down   int
	Number int
}

func (c *Cell) ClueNumber(dir Direction) (int, bool) {
	n := c.Across
	if dir == Down {
		n = c.Down
	}
	return n, n > 0
}

// Grid is the immutable cell layout derived from a Definition. Blocked
// squares are nil.
type Grid struct {
	Rows  int
	Cols  int
	cells [][]*Cell
	order []Position
}

func buildGrid(def *Definition) *Grid {
	g := &Grid{Rows: def.Rows, Cols: def.Cols, cells: make([][]*Cell, def.Rows)}
	for r := range g.cells {
		g.cells[r] = make([]*Cell, def.Cols)
	}
	place := func(c Clue) {
		for i, pos := range c.Cells() {
			cell := g.cells[pos.Row][pos.Col]
			if cell == nil {
				cell = &Cell{Position: pos, Letter: rune(c.Word[i])}
				g.cells[pos.Row][pos.Col] = cell
			}
			if c.Direction == Across {
				cell.Across = c.Number
			} else {
				cell.Down = c.Number
			}
		}
	}
	for _, c := range def.Across {
		place(c)
	}
	for _, c := range def.Down {
		place(c)
	}
	// A square that starts both an across and a down clue keeps the down number.
	for _, list := range [][]Clue{def.Across, def.Down} {
		for _, c := range list {
			g.cells[c.Row][c.Col].Number = c.Number
		}
	}
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] != nil {
				g.order = append(g.order, Position{Row: r, Col: c})
			}
		}
	}
	return g
}

func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// At returns the cell at p, or false for blocked and out-of-range squares.
func (g *Grid) At(p Position) (*Cell, bool) {
	if !g.InBounds(p) {
		return nil, false
	}
	c := g.cells[p.Row][p.Col]
	return c, c != nil
}

func (g *Grid) Playable(p Position) bool {
	_, ok := g.At(p)
	return ok
}

// Positions lists every playable square in row-major order.
func (g *Grid) Positions() []Position {
	return append([]Position(nil), g.order...)
}

func (g *Grid) Len() int { return len(g.order) }
