package app

import (
	"fmt"

	"crossword/internal/state"
)

// Stats is what `crossword stats` prints for one puzzle.
type Stats struct {
	PuzzleID    string
	PuzzleTitle string
	Summary     state.Summary
	Progress    *state.PuzzleProgress
	LastRun     *state.LastRun
	Saved       *state.SavedSnapshot
}

// CheckResult is the outcome of one check as reported to the front end.
type CheckResult struct {
	Scope string
	Wrong int
}

func (r CheckResult) Message() string {
	switch r.Wrong {
	case 0:
		return "Check " + r.Scope + ": all correct"
	case 1:
		return "Check " + r.Scope + ": 1 square to fix"
	}
	return fmt.Sprintf("Check %s: %d squares to fix", r.Scope, r.Wrong)
}
