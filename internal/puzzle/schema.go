package puzzle

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	Kind                   = "puzzle"
	SupportedSchemaVersion = 1
)

var (
	idPattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)
	wordPattern = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// Direction is the axis a clue runs along.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) Other() Direction {
	if d == Across {
		return Down
	}
	return Across
}

func (d Direction) String() string {
	if d == Down {
		return "Down"
	}
	return "Across"
}

// Short is the one-letter form used in clue ids and snapshots.
func (d Direction) Short() string {
	if d == Down {
		return "D"
	}
	return "A"
}

// Delta is the row/col step taken when walking a word in this direction.
func (d Direction) Delta() (int, int) {
	if d == Down {
		return 1, 0
	}
	return 0, 1
}

func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "a", "across":
		return Across, nil
	case "d", "down":
		return Down, nil
	}
	return Across, fmt.Errorf("invalid direction %q", raw)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.Short()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Clue is one numbered word placement.
type Clue struct {
	Number int    `yaml:"number"`
	Word   string `yaml:"word"`
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
	Text   string `yaml:"clue"`

	Direction Direction `yaml:"-"`
}

func (c Clue) ID() ClueID {
	return ClueID{Direction: c.Direction, Number: c.Number}
}

// Cells lists the positions the clue spans, start to end.
func (c Clue) Cells() []Position {
	dr, dc := c.Direction.Delta()
	out := make([]Position, 0, len(c.Word))
	for i := range len(c.Word) {
		out = append(out, Position{Row: c.Row + dr*i, Col: c.Col + dc*i})
	}
	return out
}

// Label renders the clue the way the clue bar shows it, e.g. "3 Across: Favorite mineral".
func (c Clue) Label() string {
	return fmt.Sprintf("%d %s: %s", c.Number, c.Direction, c.Text)
}

type Definition struct {
	Kind          string `yaml:"kind"`
	SchemaVersion int    `yaml:"schema_version"`
	PuzzleID      string `yaml:"puzzle_id"`
	Title         string `yaml:"title"`
	Author        string `yaml:"author"`
	Date          string `yaml:"date"`
	NotesMD       string `yaml:"notes_md"`
	CompletionMD  string `yaml:"completion_md"`
	Rows          int    `yaml:"rows"`
	Cols          int    `yaml:"cols"`
	Across        []Clue `yaml:"across"`
	Down          []Clue `yaml:"down"`

	Path string `yaml:"-"`
}

// normalize stamps directions on the clue lists and uppercases words.
func (d *Definition) normalize() {
	for i := range d.Across {
		d.Across[i].Direction = Across
		d.Across[i].Word = strings.ToUpper(strings.TrimSpace(d.Across[i].Word))
	}
	for i := range d.Down {
		d.Down[i].Direction = Down
		d.Down[i].Word = strings.ToUpper(strings.TrimSpace(d.Down[i].Word))
	}
}

func (d *Definition) Validate() error {
	if d.Kind != Kind {
		return fmt.Errorf("kind must be %q", Kind)
	}
	if d.SchemaVersion != SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d", d.SchemaVersion)
	}
	if !idPattern.MatchString(d.PuzzleID) {
		return fmt.Errorf("invalid puzzle_id %q", d.PuzzleID)
	}
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	if d.Rows <= 0 || d.Cols <= 0 {
		return fmt.Errorf("rows and cols must be positive, got %dx%d", d.Rows, d.Cols)
	}
	if len(d.Across)+len(d.Down) == 0 {
		return fmt.Errorf("at least one clue is required")
	}

	letters := map[Position]rune{}
	for _, list := range [][]Clue{d.Across, d.Down} {
		seen := map[int]bool{}
		owner := map[Position]int{}
		for _, c := range list {
			if c.Number <= 0 {
				return fmt.Errorf("%s clue has non-positive number %d", c.Direction, c.Number)
			}
			if seen[c.Number] {
				return fmt.Errorf("duplicate %s clue %d", c.Direction, c.Number)
			}
			seen[c.Number] = true
			if !wordPattern.MatchString(c.Word) {
				return fmt.Errorf("clue %s: word %q must be letters or digits", c.ID(), c.Word)
			}
			if strings.TrimSpace(c.Text) == "" {
				return fmt.Errorf("clue %s: clue text is required", c.ID())
			}
			for i, pos := range c.Cells() {
				if pos.Row < 0 || pos.Row >= d.Rows || pos.Col < 0 || pos.Col >= d.Cols {
					return fmt.Errorf("clue %s runs off the grid at %s", c.ID(), pos)
				}
				if other, ok := owner[pos]; ok {
					return fmt.Errorf("clue %s overlaps %s clue %d at %s", c.ID(), c.Direction, other, pos)
				}
				owner[pos] = c.Number
				ch := rune(c.Word[i])
				if prev, ok := letters[pos]; ok && prev != ch {
					return fmt.Errorf("clue %s: letter %q at %s conflicts with crossing %q", c.ID(), ch, pos, prev)
				}
				letters[pos] = ch
			}
		}
	}
	return nil
}
