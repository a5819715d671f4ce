package solve

import "crossword/internal/puzzle"

// View is the read-only picture of a session handed to front ends. The JSON
// form is what the web adapter serves; State is a private copy for renderers.
type View struct {
	Snapshot
	IncorrectCells []puzzle.Position `json:"incorrect_cells"`
	IsPaused       bool              `json:"is_paused"`
	Started        bool              `json:"started"`
	ClueText       string            `json:"clue_text"`
	ActiveWord     []puzzle.Position `json:"active_word"`
	Filled         int               `json:"filled"`
	Total          int               `json:"total"`
	Seq            uint64            `json:"seq"`

	Effect Effect `json:"-"`
	State  *State `json:"-"`
}

func newView(ix *puzzle.Index, st *State, seq uint64, eff Effect) View {
	v := View{
		Snapshot:       st.Snapshot(),
		IncorrectCells: st.Incorrect.Sorted(),
		IsPaused:       st.Paused,
		Started:        st.Started,
		ClueText:       ClueText(ix, st),
		ActiveWord:     append([]puzzle.Position(nil), ix.CellsOf(st.ClueNumber, st.Direction)...),
		Total:          ix.Grid().Len(),
		Seq:            seq,
		Effect:         eff,
		State:          st.Clone(),
	}
	for _, p := range ix.Grid().Positions() {
		if st.Letter(p) != 0 {
			v.Filled++
		}
	}
	return v
}

// ClueText is the clue bar line for the active clue, e.g.
// "3 Across: Favorite mineral", or "" when the square has no clue.
func ClueText(ix *puzzle.Index, st *State) string {
	c, ok := ix.Clue(st.ClueNumber, st.Direction)
	if !ok {
		return ""
	}
	return c.Label()
}

// InActiveWord reports whether p lies on the active clue.
func (v View) InActiveWord(p puzzle.Position) bool {
	for _, q := range v.ActiveWord {
		if q == p {
			return true
		}
	}
	return false
}
