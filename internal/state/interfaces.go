package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	SaveSnapshot(ctx context.Context, puzzleID string, data []byte) error
	LoadSnapshot(ctx context.Context, puzzleID string) (*SavedSnapshot, error)
	ClearSnapshot(ctx context.Context, puzzleID string) error
	StartRun(ctx context.Context, run SolveRun) (int64, error)
	RecordAssist(ctx context.Context, runID int64, assist Assist) error
	IncrementRestart(ctx context.Context, runID int64) error
	FinishRun(ctx context.Context, runID int64, elapsedSeconds int, at time.Time) error
	UpsertPuzzleProgress(ctx context.Context, update PuzzleProgressUpdate) error
	GetPuzzleProgress(ctx context.Context, puzzleID string) (*PuzzleProgress, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	GetSummary(ctx context.Context) (Summary, error)
	GetLastRun(ctx context.Context) (*LastRun, error)
	Close() error
}

// SavedSnapshot is an encoded session as last written for a puzzle.
type SavedSnapshot struct {
	PuzzleID  string
	Data      []byte
	UpdatedTS time.Time
}

type SolveRun struct {
	SessionID string
	PuzzleID  string
	Mode      string
	StartTS   time.Time
}

type AssistKind string

const (
	AssistCheck  AssistKind = "check"
	AssistReveal AssistKind = "reveal"
)

// Assist is one check or reveal; Wrong counts the squares a check marked.
type Assist struct {
	Kind  AssistKind
	Scope string
	Wrong int
}

type Summary struct {
	Runs     int
	Solved   int
	Checks   int
	Reveals  int
	Restarts int
}

type LastRun struct {
	PuzzleID       string
	Mode           string
	StartTS        time.Time
	Completed      bool
	ElapsedSeconds int
	Checks         int
	Reveals        int
	Restarts       int
}

type PuzzleProgress struct {
	PuzzleID     string
	SolvedCount  int
	BestSeconds  int
	LastPlayedTS time.Time
	LastSolvedTS time.Time
}

// PuzzleProgressUpdate folds one finished run into the per-puzzle record.
// Assisted runs count as solved but never set a best time.
type PuzzleProgressUpdate struct {
	PuzzleID       string
	Solved         bool
	Assisted       bool
	ElapsedSeconds int
	LastPlayedTS   time.Time
}
