package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestSnapshotSaveLoadClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.LoadSnapshot(ctx, "valentine-2026")
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no snapshot, got %+v", got)
	}

	if err := store.SaveSnapshot(ctx, "valentine-2026", []byte(`{"elapsed_seconds":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveSnapshot(ctx, "valentine-2026", []byte(`{"elapsed_seconds":2}`)); err != nil {
		t.Fatalf("save overwrite: %v", err)
	}
	got, err = store.LoadSnapshot(ctx, "valentine-2026")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || string(got.Data) != `{"elapsed_seconds":2}` {
		t.Fatalf("expected latest snapshot, got %+v", got)
	}
	if got.UpdatedTS.IsZero() {
		t.Fatalf("expected updated timestamp")
	}

	if err := store.ClearSnapshot(ctx, "valentine-2026"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = store.LoadSnapshot(ctx, "valentine-2026")
	if err != nil || got != nil {
		t.Fatalf("expected snapshot cleared, got %+v err=%v", got, err)
	}

	if err := store.SaveSnapshot(ctx, " ", []byte(`{}`)); err == nil {
		t.Fatalf("expected error for blank puzzle id")
	}
}

func TestSolveRunCountersAndSummary(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, time.February, 14, 9, 0, 0, 0, time.UTC)

	runID, err := store.StartRun(ctx, SolveRun{SessionID: "s1", PuzzleID: "valentine-2026", StartTS: start})
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	if err := store.RecordAssist(ctx, runID, Assist{Kind: AssistCheck, Scope: "word", Wrong: 2}); err != nil {
		t.Fatalf("record check: %v", err)
	}
	if err := store.RecordAssist(ctx, runID, Assist{Kind: AssistReveal, Scope: "letter"}); err != nil {
		t.Fatalf("record reveal: %v", err)
	}
	if err := store.RecordAssist(ctx, runID, Assist{Kind: "hint"}); err == nil {
		t.Fatalf("expected unknown assist kind to fail")
	}
	if err := store.IncrementRestart(ctx, runID); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := store.FinishRun(ctx, runID, 125, start.Add(125*time.Second)); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if _, err := store.StartRun(ctx, SolveRun{SessionID: "s2", PuzzleID: "valentine-2026", Mode: "web", StartTS: start.Add(time.Hour)}); err != nil {
		t.Fatalf("start second run: %v", err)
	}

	summary, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := Summary{Runs: 2, Solved: 1, Checks: 1, Reveals: 1, Restarts: 1}
	if summary != want {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}

	last, err := store.GetLastRun(ctx)
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if last == nil || last.Mode != "web" || last.Completed || !last.StartTS.Equal(start.Add(time.Hour)) {
		t.Fatalf("unexpected last run %+v", last)
	}
}

func TestPuzzleProgressKeepsBestUnassistedTime(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, time.February, 14, 10, 0, 0, 0, time.UTC)

	updates := []PuzzleProgressUpdate{
		{PuzzleID: "valentine-2026", Solved: true, ElapsedSeconds: 300, LastPlayedTS: at},
		{PuzzleID: "valentine-2026", Solved: true, Assisted: true, ElapsedSeconds: 30, LastPlayedTS: at.Add(time.Hour)},
		{PuzzleID: "valentine-2026", Solved: true, ElapsedSeconds: 200, LastPlayedTS: at.Add(2 * time.Hour)},
		{PuzzleID: "valentine-2026", Solved: false, ElapsedSeconds: 10, LastPlayedTS: at.Add(3 * time.Hour)},
	}
	for i, u := range updates {
		if err := store.UpsertPuzzleProgress(ctx, u); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	got, err := store.GetPuzzleProgress(ctx, "valentine-2026")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if got == nil {
		t.Fatalf("expected progress row")
	}
	if got.SolvedCount != 3 {
		t.Fatalf("expected solved_count=3, got %d", got.SolvedCount)
	}
	if got.BestSeconds != 200 {
		t.Fatalf("expected best of 200s ignoring the assisted run, got %d", got.BestSeconds)
	}
	if !got.LastSolvedTS.Equal(at.Add(2 * time.Hour)) {
		t.Fatalf("expected last solve at the third run, got %v", got.LastSolvedTS)
	}
	if !got.LastPlayedTS.Equal(at.Add(3 * time.Hour)) {
		t.Fatalf("expected last played at the fourth run, got %v", got.LastPlayedTS)
	}

	missing, err := store.GetPuzzleProgress(ctx, "other")
	if err != nil || missing != nil {
		t.Fatalf("expected no row for unknown puzzle, got %+v err=%v", missing, err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.SaveSettings(ctx, map[string]string{"theme": "rose", " ": "ignored"}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := store.SaveSettings(ctx, map[string]string{"theme": "mono"}); err != nil {
		t.Fatalf("overwrite settings: %v", err)
	}
	got, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if len(got) != 1 || got["theme"] != "mono" {
		t.Fatalf("unexpected settings %v", got)
	}
}
