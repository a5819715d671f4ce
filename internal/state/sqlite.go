package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The sqlite driver allows a single writer at a time.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			puzzle_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS solve_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			puzzle_id TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'tui',
			start_ts TEXT NOT NULL,
			end_ts TEXT NOT NULL DEFAULT '',
			elapsed_seconds INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			checks INTEGER NOT NULL DEFAULT 0,
			reveals INTEGER NOT NULL DEFAULT 0,
			restarts INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS assists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			assist_ts TEXT NOT NULL DEFAULT (datetime('now')),
			kind TEXT NOT NULL,
			scope TEXT NOT NULL,
			wrong INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(run_id) REFERENCES solve_runs(id)
		);`,
		`CREATE TABLE IF NOT EXISTS puzzle_progress (
			puzzle_id TEXT PRIMARY KEY,
			solved_count INTEGER NOT NULL DEFAULT 0,
			best_seconds INTEGER NOT NULL DEFAULT 0,
			last_played_ts TEXT NOT NULL DEFAULT '',
			last_solved_ts TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, puzzleID string, data []byte) error {
	puzzleID = strings.TrimSpace(puzzleID)
	if puzzleID == "" {
		return errors.New("save snapshot: puzzle id is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots(puzzle_id, data, updated_ts) VALUES(?, ?, ?)
		ON CONFLICT(puzzle_id) DO UPDATE SET
			data = excluded.data,
			updated_ts = excluded.updated_ts
	`, puzzleID, string(data), time.Now().UTC().Format(timeLayout))
	return err
}

// LoadSnapshot returns nil without error when nothing is saved.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, puzzleID string) (*SavedSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data, updated_ts FROM snapshots WHERE puzzle_id = ?`, strings.TrimSpace(puzzleID))
	var (
		data       string
		updatedRaw string
	)
	if err := row.Scan(&data, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	out := &SavedSnapshot{PuzzleID: puzzleID, Data: []byte(data)}
	if t, err := time.Parse(timeLayout, updatedRaw); err == nil {
		out.UpdatedTS = t
	}
	return out, nil
}

func (s *SQLiteStore) ClearSnapshot(ctx context.Context, puzzleID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE puzzle_id = ?`, strings.TrimSpace(puzzleID))
	return err
}

func (s *SQLiteStore) StartRun(ctx context.Context, run SolveRun) (int64, error) {
	mode := strings.TrimSpace(run.Mode)
	if mode == "" {
		mode = "tui"
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO solve_runs(session_id, puzzle_id, mode, start_ts) VALUES(?,?,?,?)`,
		run.SessionID,
		run.PuzzleID,
		mode,
		run.StartTS.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) RecordAssist(ctx context.Context, runID int64, assist Assist) error {
	column := ""
	switch assist.Kind {
	case AssistCheck:
		column = "checks"
	case AssistReveal:
		column = "reveals"
	default:
		return fmt.Errorf("record assist: unknown kind %q", assist.Kind)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO assists(run_id, kind, scope, wrong) VALUES(?, ?, ?, ?)`,
		runID, string(assist.Kind), assist.Scope, max(0, assist.Wrong),
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE solve_runs SET `+column+` = `+column+` + 1 WHERE id = ?`, runID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) IncrementRestart(ctx context.Context, runID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE solve_runs SET restarts = restarts + 1 WHERE id = ?`, runID)
	return err
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID int64, elapsedSeconds int, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE solve_runs SET completed = 1, elapsed_seconds = ?, end_ts = ? WHERE id = ?`,
		max(0, elapsedSeconds), at.UTC().Format(timeLayout), runID,
	)
	return err
}

func (s *SQLiteStore) UpsertPuzzleProgress(ctx context.Context, update PuzzleProgressUpdate) error {
	puzzleID := strings.TrimSpace(update.PuzzleID)
	if puzzleID == "" {
		return nil
	}
	playTS := update.LastPlayedTS
	if playTS.IsZero() {
		playTS = time.Now().UTC()
	}
	solvedTS := ""
	if update.Solved {
		solvedTS = playTS.UTC().Format(timeLayout)
	}
	best := 0
	if update.Solved && !update.Assisted {
		best = max(0, update.ElapsedSeconds)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO puzzle_progress(puzzle_id, solved_count, best_seconds, last_played_ts, last_solved_ts)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(puzzle_id) DO UPDATE SET
			solved_count = puzzle_progress.solved_count + excluded.solved_count,
			best_seconds = CASE
				WHEN excluded.best_seconds > 0 AND (puzzle_progress.best_seconds = 0 OR excluded.best_seconds < puzzle_progress.best_seconds) THEN excluded.best_seconds
				ELSE puzzle_progress.best_seconds
			END,
			last_played_ts = excluded.last_played_ts,
			last_solved_ts = CASE
				WHEN excluded.last_solved_ts <> '' THEN excluded.last_solved_ts
				ELSE puzzle_progress.last_solved_ts
			END
	`,
		puzzleID,
		ifThen(update.Solved, 1, 0),
		best,
		playTS.UTC().Format(timeLayout),
		solvedTS,
	)
	return err
}

func (s *SQLiteStore) GetPuzzleProgress(ctx context.Context, puzzleID string) (*PuzzleProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT puzzle_id, solved_count, best_seconds, last_played_ts, last_solved_ts
		FROM puzzle_progress
		WHERE puzzle_id = ?
	`, strings.TrimSpace(puzzleID))
	var (
		out        PuzzleProgress
		lastPlayed string
		lastSolved string
	)
	if err := row.Scan(&out.PuzzleID, &out.SolvedCount, &out.BestSeconds, &lastPlayed, &lastSolved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if t, err := time.Parse(timeLayout, lastPlayed); err == nil {
		out.LastPlayedTS = t
	}
	if t, err := time.Parse(timeLayout, lastSolved); err == nil {
		out.LastSolvedTS = t
	}
	return &out, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO app_settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as runs,
			COALESCE(SUM(completed),0) as solved,
			COALESCE(SUM(checks),0) as checks,
			COALESCE(SUM(reveals),0) as reveals,
			COALESCE(SUM(restarts),0) as restarts
		FROM solve_runs
	`)
	if err := row.Scan(&out.Runs, &out.Solved, &out.Checks, &out.Reveals, &out.Restarts); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) GetLastRun(ctx context.Context) (*LastRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT puzzle_id, mode, start_ts, completed, elapsed_seconds, checks, reveals, restarts
		FROM solve_runs
		ORDER BY id DESC
		LIMIT 1
	`)
	var (
		out        LastRun
		startTSRaw string
		completed  int
	)
	if err := row.Scan(&out.PuzzleID, &out.Mode, &startTSRaw, &completed, &out.ElapsedSeconds, &out.Checks, &out.Reveals, &out.Restarts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if t, err := time.Parse(timeLayout, startTSRaw); err == nil {
		out.StartTS = t
	}
	out.Completed = completed == 1
	return &out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}
