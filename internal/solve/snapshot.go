package solve

import (
	"encoding/json"
	"fmt"
	"unicode"
	"unicode/utf8"

	"crossword/internal/puzzle"
)

// Snapshot is the persisted form of a session. Empty squares are "".
type Snapshot struct {
	UserInput       [][]string        `json:"user_input"`
	ActiveCell      puzzle.Position   `json:"active_cell"`
	ActiveDirection puzzle.Direction  `json:"active_direction"`
	ActiveClue      int               `json:"active_clue"`
	RevealedCells   []puzzle.Position `json:"revealed_cells"`
	IsComplete      bool              `json:"is_complete"`
	ElapsedSeconds  int               `json:"elapsed_seconds"`
	CompletedClues  []puzzle.ClueID   `json:"completed_clues"`
}

func (s *State) Snapshot() Snapshot {
	out := Snapshot{
		UserInput:       make([][]string, len(s.Input)),
		ActiveCell:      s.Active,
		ActiveDirection: s.Direction,
		ActiveClue:      s.ClueNumber,
		RevealedCells:   s.Revealed.Sorted(),
		IsComplete:      s.Complete,
		ElapsedSeconds:  s.Elapsed,
		CompletedClues:  s.Completed.Sorted(),
	}
	for r, row := range s.Input {
		out.UserInput[r] = make([]string, len(row))
		for c, ch := range row {
			if ch != 0 {
				out.UserInput[r][c] = string(ch)
			}
		}
	}
	return out
}

func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func DecodeSnapshot(b []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Restore rebuilds a State from snap. Completed clues are recomputed from the
// input rather than trusted, and the active clue is re-resolved for the
// stored square. A snapshot for a different grid shape is rejected.
func Restore(ix *puzzle.Index, snap Snapshot) (*State, error) {
	g := ix.Grid()
	if len(snap.UserInput) != g.Rows {
		return nil, fmt.Errorf("snapshot has %d rows, puzzle has %d", len(snap.UserInput), g.Rows)
	}
	s := NewState(ix)
	for r, row := range snap.UserInput {
		if len(row) != g.Cols {
			return nil, fmt.Errorf("snapshot row %d has %d cols, puzzle has %d", r, len(row), g.Cols)
		}
		for c, raw := range row {
			if raw == "" {
				continue
			}
			ch, size := utf8.DecodeRuneInString(raw)
			p := puzzle.Position{Row: r, Col: c}
			if size != len(raw) || !isEntryRune(ch) {
				return nil, fmt.Errorf("snapshot cell %s holds %q", p, raw)
			}
			if !g.Playable(p) {
				continue
			}
			s.setLetter(p, unicode.ToUpper(ch))
		}
	}
	for _, p := range snap.RevealedCells {
		if g.Playable(p) {
			s.Revealed[p] = struct{}{}
		}
	}
	if snap.ElapsedSeconds < 0 {
		return nil, fmt.Errorf("snapshot elapsed %d is negative", snap.ElapsedSeconds)
	}
	s.Elapsed = snap.ElapsedSeconds
	if g.Playable(snap.ActiveCell) {
		s.Active = snap.ActiveCell
		resolveActive(ix, s, snap.ActiveDirection)
	}
	s.Completed = CompletedClues(ix, s)
	s.Complete = snap.IsComplete || IsSolved(ix, s)
	s.Started = true
	return s, nil
}
