package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"crossword/internal/puzzle"
	"crossword/internal/solve"
	"crossword/internal/state"
	"crossword/internal/telemetry"
	"crossword/internal/ui"
	"crossword/internal/web"
)

const settingTheme = "theme"

type App struct {
	cfg  Config
	mode Mode

	logger Logger
	store  Store

	ix      *puzzle.Index
	session *solve.Session
	persist *persister
	view    ui.View

	sessionID string
	runID     int64

	mu       sync.Mutex
	revealed bool
	finished bool

	now func() time.Time
}

// New opens the store and log, loads the puzzle and resumes any saved
// progress. The TUI view is only built in ModeTUI.
func New(cfg Config, mode Mode) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(cfg)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	ix, err := puzzle.Load(cfg.PuzzlePath)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	var view ui.View
	if normalizeMode(string(mode)) == ModeTUI {
		view = ui.New(ui.Options{
			ASCIIOnly:    cfg.ASCIIOnly,
			Debug:        cfg.Debug,
			StyleVariant: cfg.UI.StyleVariant,
			MotionLevel:  cfg.UI.MotionLevel,
			MouseScope:   cfg.UI.MouseScope,
		})
	}
	return newApp(cfg, mode, logger, store, ix, view), nil
}

// OpenStore opens the SQLite database under cfg.DataDir.
func OpenStore(cfg Config) (*state.SQLiteStore, error) {
	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func newApp(cfg Config, mode Mode, logger Logger, store Store, ix *puzzle.Index, view ui.View) *App {
	a := &App{
		cfg:       cfg,
		mode:      normalizeMode(string(mode)),
		logger:    logger,
		store:     store,
		ix:        ix,
		view:      view,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	ctx := context.Background()
	puzzleID := ix.Definition().PuzzleID

	a.session = solve.NewSession(ix, a.restore(ctx), solve.WithIncorrectDelay(cfg.incorrectDelay()))
	a.persist = newPersister(store, puzzleID, logger)

	runID, err := store.StartRun(ctx, state.SolveRun{
		SessionID: a.sessionID,
		PuzzleID:  puzzleID,
		Mode:      string(a.mode),
		StartTS:   a.now(),
	})
	if err != nil {
		logger.Error("store.start_run_failed", map[string]any{"error": err.Error()})
	}
	a.runID = runID
	a.revealed = len(a.session.Snapshot().RevealedCells) > 0
	a.finished = a.session.Snapshot().IsComplete

	a.session.Subscribe(a.onBoard)
	if view != nil {
		view.SetController(a)
		view.SetStyleVariant(a.themeVariant(ctx))
		view.SetPuzzle(ix)
		view.SetBoard(a.session.View())
	}
	return a
}

// restore decodes the saved snapshot. Anything unusable is dropped so the
// player gets a fresh session.
func (a *App) restore(ctx context.Context) *solve.State {
	puzzleID := a.ix.Definition().PuzzleID
	saved, err := a.store.LoadSnapshot(ctx, puzzleID)
	if err != nil {
		a.logger.Debug("session.restore_failed", map[string]any{"puzzle": puzzleID, "error": err.Error()})
		return nil
	}
	if saved == nil {
		return nil
	}
	snap, err := solve.DecodeSnapshot(saved.Data)
	if err == nil {
		var st *solve.State
		if st, err = solve.Restore(a.ix, snap); err == nil {
			a.logger.Info("session.restored", map[string]any{"puzzle": puzzleID, "elapsed": snap.ElapsedSeconds})
			return st
		}
	}
	a.logger.Debug("session.restore_failed", map[string]any{"puzzle": puzzleID, "error": err.Error()})
	if err := a.store.ClearSnapshot(ctx, puzzleID); err != nil {
		a.logger.Error("store.clear_failed", map[string]any{"puzzle": puzzleID, "error": err.Error()})
	}
	return nil
}

func (a *App) themeVariant(ctx context.Context) string {
	if a.cfg.UI.StyleVariant != "" {
		return a.cfg.UI.StyleVariant
	}
	settings, err := a.store.LoadSettings(ctx)
	if err != nil {
		a.logger.Error("store.settings_failed", map[string]any{"error": err.Error()})
		return ui.StyleValentine
	}
	if v := settings[settingTheme]; ui.ValidStyleVariant(v) {
		return v
	}
	return ui.StyleValentine
}

// Run drives the terminal UI until the player quits.
func (a *App) Run(ctx context.Context) error {
	if a.view == nil {
		return errors.New("app was not built for the terminal")
	}
	a.logger.Info("app.start", map[string]any{"session": a.sessionID, "mode": string(a.mode), "puzzle": a.ix.Definition().PuzzleID})

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.session.RunClock(gctx) })
	g.Go(func() error { return a.persist.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		a.view.Stop()
		return nil
	})

	err := a.view.Run()
	cancel()
	_ = g.Wait()
	return err
}

// Serve runs the web adapter on cfg.Addr until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	handler := web.NewServer(a, a.logger)
	defer handler.Close()
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.logger.Info("app.start", map[string]any{"session": a.sessionID, "mode": string(a.mode), "addr": a.cfg.Addr})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.session.RunClock(gctx) })
	g.Go(func() error { return a.persist.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("web.listen_failed", map[string]any{"addr": a.cfg.Addr, "error": err.Error()})
			return fmt.Errorf("listen %s: %w", a.cfg.Addr, err)
		}
		return nil
	})
	return g.Wait()
}

func (a *App) Close() {
	a.session.Close()
	a.persist.flush(context.Background())
	_ = a.store.Close()
	_ = a.logger.Close()
}

func (a *App) Puzzle() *puzzle.Index { return a.ix }

func (a *App) Board() solve.View { return a.session.View() }

func (a *App) Subscribe(l solve.Listener) func() { return a.session.Subscribe(l) }

func (a *App) onBoard(v solve.View) {
	a.persist.Offer(v)
	if a.view != nil {
		a.view.SetBoard(v)
	}
	if v.Effect.Has(solve.EffectCompleted) {
		a.finish(v)
	}
}

// finish records a completed run once. A run with reveals counts as solved
// but sets no best time.
func (a *App) finish(v solve.View) {
	a.mu.Lock()
	if a.finished {
		a.mu.Unlock()
		return
	}
	a.finished = true
	assisted := a.revealed || len(v.RevealedCells) > 0
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	puzzleID := a.ix.Definition().PuzzleID
	now := a.now()
	if a.runID != 0 {
		if err := a.store.FinishRun(ctx, a.runID, v.ElapsedSeconds, now); err != nil {
			a.logger.Error("store.finish_run_failed", map[string]any{"run": a.runID, "error": err.Error()})
		}
	}
	if err := a.store.UpsertPuzzleProgress(ctx, state.PuzzleProgressUpdate{
		PuzzleID:       puzzleID,
		Solved:         true,
		Assisted:       assisted,
		ElapsedSeconds: v.ElapsedSeconds,
		LastPlayedTS:   now,
	}); err != nil {
		a.logger.Error("store.progress_failed", map[string]any{"puzzle": puzzleID, "error": err.Error()})
	}
	a.logger.Info("puzzle.completed", map[string]any{"puzzle": puzzleID, "elapsed": v.ElapsedSeconds, "assisted": assisted})
}

func (a *App) recordAssist(assist state.Assist) {
	if a.runID == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := a.store.RecordAssist(ctx, a.runID, assist); err != nil {
		a.logger.Error("store.assist_failed", map[string]any{"run": a.runID, "kind": string(assist.Kind), "error": err.Error()})
	}
}

func (a *App) flash(msg string) {
	if a.view != nil {
		a.view.FlashStatus(msg)
	}
}

func (a *App) OnKey(key string, shift bool) {
	a.session.Key(key, shift)
}

func (a *App) OnText(data string) {
	a.OnInput(data, false)
}

// OnInput takes composed text; deleteBackward is a soft-keyboard backspace.
func (a *App) OnInput(data string, deleteBackward bool) {
	a.session.Text(data, deleteBackward)
}

func (a *App) OnCellClick(row, col int) {
	a.session.Dispatch(solve.CellClickEvent(row, col))
}

func (a *App) OnClueClick(number int, dir puzzle.Direction) {
	a.session.Dispatch(solve.ClueClickEvent(number, dir))
}

func (a *App) OnCheck(scope solve.Scope) {
	_, wrong := a.session.Check(scope)
	res := CheckResult{Scope: scope.String(), Wrong: wrong}
	a.recordAssist(state.Assist{Kind: state.AssistCheck, Scope: res.Scope, Wrong: res.Wrong})
	a.logger.Debug("puzzle.check", map[string]any{"scope": res.Scope, "wrong": res.Wrong})
	a.flash(res.Message())
}

func (a *App) OnReveal(scope solve.Scope) {
	if a.session.Reveal(scope) == 0 {
		return
	}
	a.mu.Lock()
	a.revealed = true
	a.mu.Unlock()
	a.recordAssist(state.Assist{Kind: state.AssistReveal, Scope: scope.String()})
	a.logger.Debug("puzzle.reveal", map[string]any{"scope": scope.String()})
}

// OnRestart starts the grid over within the same run; the assisted flag is
// dropped with the revealed squares.
func (a *App) OnRestart() {
	a.mu.Lock()
	a.revealed = false
	a.finished = false
	a.mu.Unlock()
	a.session.Restart()

	if a.runID != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := a.store.IncrementRestart(ctx, a.runID); err != nil {
			a.logger.Error("store.restart_failed", map[string]any{"run": a.runID, "error": err.Error()})
		}
	}
	a.logger.Info("puzzle.restart", map[string]any{"puzzle": a.ix.Definition().PuzzleID})
}

func (a *App) OnTogglePause() {
	a.session.TogglePause()
}

func (a *App) OnPlay() {
	a.session.Start()
}

func (a *App) OnStyleChanged(variant string) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := a.store.SaveSettings(ctx, map[string]string{settingTheme: variant}); err != nil {
		a.logger.Error("store.settings_failed", map[string]any{"error": err.Error()})
	}
}

func (a *App) OnQuit() {
	if a.view != nil {
		a.view.Stop()
	}
}

// ReadStats collects the history shown by `crossword stats`.
func ReadStats(ctx context.Context, cfg Config) (Stats, error) {
	ix, err := puzzle.Load(cfg.PuzzlePath)
	if err != nil {
		return Stats{}, err
	}
	store, err := OpenStore(cfg)
	if err != nil {
		return Stats{}, err
	}
	defer store.Close()

	def := ix.Definition()
	out := Stats{PuzzleID: def.PuzzleID, PuzzleTitle: def.Title}
	if out.Summary, err = store.GetSummary(ctx); err != nil {
		return Stats{}, fmt.Errorf("read summary: %w", err)
	}
	if out.Progress, err = store.GetPuzzleProgress(ctx, def.PuzzleID); err != nil {
		return Stats{}, fmt.Errorf("read progress: %w", err)
	}
	if out.LastRun, err = store.GetLastRun(ctx); err != nil {
		return Stats{}, fmt.Errorf("read last run: %w", err)
	}
	if out.Saved, err = store.LoadSnapshot(ctx, def.PuzzleID); err != nil {
		return Stats{}, fmt.Errorf("read snapshot: %w", err)
	}
	return out, nil
}

// ResetProgress drops the saved grid for the configured puzzle.
func ResetProgress(ctx context.Context, cfg Config) (string, error) {
	ix, err := puzzle.Load(cfg.PuzzlePath)
	if err != nil {
		return "", err
	}
	store, err := OpenStore(cfg)
	if err != nil {
		return "", err
	}
	defer store.Close()
	puzzleID := ix.Definition().PuzzleID
	if err := store.ClearSnapshot(ctx, puzzleID); err != nil {
		return "", fmt.Errorf("clear snapshot: %w", err)
	}
	return puzzleID, nil
}
