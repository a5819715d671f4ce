package solve

import (
	"strings"
	"testing"

	"crossword/internal/puzzle"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	typeWord(ix, s, "SAL")
	Apply(ix, s, ClueClickEvent(4, puzzle.Down))
	Reveal(ix, s, ScopeLetter)
	Apply(ix, s, ArrowEvent(ArrowDown))
	s.Elapsed = 42

	b, err := EncodeSnapshot(s.Snapshot())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	snap, err := DecodeSnapshot(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := Restore(ix, snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	for _, p := range ix.Grid().Positions() {
		if got.Letter(p) != s.Letter(p) {
			t.Fatalf("letter at %v: got %q want %q", p, got.Letter(p), s.Letter(p))
		}
	}
	assertActive(t, got, s.Active, s.Direction, s.ClueNumber)
	if len(got.Revealed) != 1 || !got.Revealed.Has(pos(1, 9)) {
		t.Fatalf("unexpected revealed %v", got.Revealed.Sorted())
	}
	if got.Complete != s.Complete || got.Elapsed != 42 {
		t.Fatalf("expected complete=%v elapsed=42, got %v %d", s.Complete, got.Complete, got.Elapsed)
	}
	if !got.Started {
		t.Fatalf("expected restored session to skip the landing screen")
	}
}

func TestSnapshotJSONFieldNames(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	typeWord(ix, s, "SALT")
	b, err := EncodeSnapshot(s.Snapshot())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := string(b)
	for _, want := range []string{`"user_input"`, `"active_cell":{"row":1,"col":6}`, `"active_direction":"A"`, `"active_clue":3`, `"completed_clues":["A-3"]`, `"elapsed_seconds":0`} {
		if !strings.Contains(raw, want) {
			t.Fatalf("expected %s in %s", want, raw)
		}
	}
}

func TestRestoreRecomputesDerivedFields(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewState(ix)
	typeWord(ix, s, "SALT")
	snap := s.Snapshot()
	// Stale derived data in storage must not win.
	snap.CompletedClues = []puzzle.ClueID{{Direction: puzzle.Down, Number: 1}}
	snap.ActiveCell = pos(1, 4)
	snap.ActiveDirection = puzzle.Down
	snap.ActiveClue = 99

	got, err := Restore(ix, snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(got.Completed) != 1 || !got.Completed.Has(puzzle.ClueID{Direction: puzzle.Across, Number: 3}) {
		t.Fatalf("expected completed {A-3}, got %v", got.Completed.Sorted())
	}
	assertActive(t, got, pos(1, 4), puzzle.Down, 2)
}

func TestRestoreRejectsMalformedSnapshots(t *testing.T) {
	ix := loadBuiltin(t)
	good := NewState(ix).Snapshot()

	cases := map[string]func(*Snapshot){
		"missing rows":   func(s *Snapshot) { s.UserInput = s.UserInput[:3] },
		"short row":      func(s *Snapshot) { s.UserInput[2] = s.UserInput[2][:5] },
		"multi-rune":     func(s *Snapshot) { s.UserInput[1][3] = "SA" },
		"punctuation":    func(s *Snapshot) { s.UserInput[1][3] = "?" },
		"negative clock": func(s *Snapshot) { s.ElapsedSeconds = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			snap := good
			snap.UserInput = make([][]string, len(good.UserInput))
			for i := range good.UserInput {
				snap.UserInput[i] = append([]string(nil), good.UserInput[i]...)
			}
			mutate(&snap)
			if _, err := Restore(ix, snap); err == nil {
				t.Fatalf("expected restore error")
			}
		})
	}

	if _, err := DecodeSnapshot([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRestoreFallsBackWhenActiveSquareIsBlocked(t *testing.T) {
	ix := loadBuiltin(t)
	snap := NewState(ix).Snapshot()
	snap.ActiveCell = pos(0, 1)

	got, err := Restore(ix, snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	assertActive(t, got, pos(1, 3), puzzle.Across, 3)
}
