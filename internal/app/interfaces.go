package app

import (
	"context"
	"time"

	"crossword/internal/state"
)

// Store is the slice of state.Store the app writes through.
type Store interface {
	LoadSnapshot(ctx context.Context, puzzleID string) (*state.SavedSnapshot, error)
	SaveSnapshot(ctx context.Context, puzzleID string, data []byte) error
	ClearSnapshot(ctx context.Context, puzzleID string) error
	StartRun(ctx context.Context, run state.SolveRun) (int64, error)
	RecordAssist(ctx context.Context, runID int64, assist state.Assist) error
	IncrementRestart(ctx context.Context, runID int64) error
	FinishRun(ctx context.Context, runID int64, elapsedSeconds int, at time.Time) error
	UpsertPuzzleProgress(ctx context.Context, update state.PuzzleProgressUpdate) error
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	Close() error
}

// Logger is telemetry.Logger plus Close.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Close() error
}
