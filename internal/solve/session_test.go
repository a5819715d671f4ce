package solve

import (
	"context"
	"sync"
	"testing"
	"time"

	"crossword/internal/puzzle"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{d: d, f: fn}
	f.timers = append(f.timers, t)
	return t
}

// fireAll runs every timer that has not been stopped.
func (f *fakeScheduler) fireAll() {
	f.mu.Lock()
	pending := append([]*fakeTimer(nil), f.timers...)
	f.mu.Unlock()
	for _, t := range pending {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func newTestSession(t *testing.T) (*Session, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	return NewSession(loadBuiltin(t), nil, WithAfterFunc(sched.AfterFunc)), sched
}

func TestSessionCheckWordClearsAfterDelay(t *testing.T) {
	s, sched := newTestSession(t)
	s.Key("S", false)
	s.Key("X", false)
	s.Dispatch(ClueClickEvent(3, puzzle.Across))

	if _, wrong := s.Check(ScopeWord); wrong != 1 {
		t.Fatalf("expected one wrong square reported, got %d", wrong)
	}
	v := s.View()
	if len(v.IncorrectCells) != 1 || v.IncorrectCells[0] != pos(1, 4) {
		t.Fatalf("expected only (1,4) marked, got %v", v.IncorrectCells)
	}
	if len(sched.timers) != 1 || sched.timers[0].d != DefaultIncorrectDelay {
		t.Fatalf("expected one clear scheduled at %v", DefaultIncorrectDelay)
	}

	sched.fireAll()
	if got := s.View().IncorrectCells; len(got) != 0 {
		t.Fatalf("expected marks cleared after the delay, got %v", got)
	}
}

func TestSessionStaleClearDoesNotClobberNewerCheck(t *testing.T) {
	s, sched := newTestSession(t)
	s.Dispatch(CellClickEvent(0, 0))
	s.Key("X", false)

	s.Check(ScopeWord)
	stale := sched.timers[0]
	s.Check(ScopePuzzle)
	if !stale.stopped {
		t.Fatalf("expected the earlier clear to be cancelled")
	}

	// Even if the old callback runs anyway, the newer marks survive.
	stale.f()
	if got := s.View().IncorrectCells; len(got) != 1 || got[0] != pos(0, 0) {
		t.Fatalf("expected newer marks to survive a stale clear, got %v", got)
	}

	s.Restart()
	if !sched.timers[1].stopped {
		t.Fatalf("expected restart to cancel the pending clear")
	}
}

func TestSessionEditRemovesSingleMark(t *testing.T) {
	s, sched := newTestSession(t)
	s.Key("Q", false)
	s.Key("Q", false)
	s.Check(ScopeWord)
	if got := s.View().IncorrectCells; len(got) != 2 {
		t.Fatalf("expected two marks, got %v", got)
	}

	s.Dispatch(CellClickEvent(1, 3))
	s.Key("S", false)
	if got := s.View().IncorrectCells; len(got) != 1 || got[0] != pos(1, 4) {
		t.Fatalf("expected only (1,4) still marked, got %v", got)
	}
	sched.fireAll()
	if got := s.View().IncorrectCells; len(got) != 0 {
		t.Fatalf("expected remaining mark cleared, got %v", got)
	}
}

func TestSessionClockRespectsStartPauseAndCompletion(t *testing.T) {
	s, _ := newTestSession(t)

	s.Tick()
	if s.View().ElapsedSeconds != 0 {
		t.Fatalf("expected clock idle before start")
	}
	s.Start()
	s.Tick()
	s.Tick()
	if got := s.View().ElapsedSeconds; got != 2 {
		t.Fatalf("expected 2s, got %d", got)
	}
	s.TogglePause()
	s.Tick()
	if got := s.View().ElapsedSeconds; got != 2 {
		t.Fatalf("expected paused clock to hold at 2, got %d", got)
	}
	s.TogglePause()
	s.Reveal(ScopePuzzle)
	s.Tick()
	if got := s.View().ElapsedSeconds; got != 2 {
		t.Fatalf("expected complete clock to hold at 2, got %d", got)
	}

	s.Restart()
	v := s.View()
	if v.ElapsedSeconds != 0 || v.IsComplete || len(v.RevealedCells) != 0 || len(v.CompletedClues) != 0 || v.Filled != 0 {
		t.Fatalf("expected defaults after restart, got %+v", v.Snapshot)
	}
}

func TestSessionRunClockStopsWithContext(t *testing.T) {
	ix := loadBuiltin(t)
	s := NewSession(ix, nil, WithTickInterval(time.Millisecond))
	s.Start()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunClock(ctx) }()

	deadline := time.After(2 * time.Second)
	for s.View().ElapsedSeconds < 3 {
		select {
		case <-deadline:
			t.Fatalf("clock did not advance")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run clock: %v", err)
	}
}

func TestSessionListenersSeeOrderedViews(t *testing.T) {
	s, _ := newTestSession(t)
	var (
		mu    sync.Mutex
		views []View
	)
	cancel := s.Subscribe(func(v View) {
		mu.Lock()
		views = append(views, v)
		mu.Unlock()
	})

	s.Key("s", false)
	s.Key("Enter", false)
	s.Dispatch(TabEvent(false))
	cancel()
	s.Key("a", false)

	if len(views) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(views))
	}
	if views[0].Seq >= views[1].Seq {
		t.Fatalf("expected increasing seq, got %d then %d", views[0].Seq, views[1].Seq)
	}
	if views[0].ClueText != "3 Across: Favorite mineral" || views[0].Filled != 1 || views[0].Total != 87 {
		t.Fatalf("unexpected first view: %q filled=%d total=%d", views[0].ClueText, views[0].Filled, views[0].Total)
	}
	if views[1].ClueText != "6 Across: Lime-paired lager" || !views[1].InActiveWord(pos(2, 11)) {
		t.Fatalf("unexpected second view: %q %v", views[1].ClueText, views[1].ActiveWord)
	}
	if views[0].State.Letter(pos(1, 3)) != 'S' {
		t.Fatalf("expected view state copy to carry input")
	}
}

func TestSessionTextFunnel(t *testing.T) {
	s, _ := newTestSession(t)
	s.Text("xyzs", false)
	s.Text("", true)
	v := s.View()
	if v.Filled != 0 || v.ActiveCell != pos(1, 3) {
		t.Fatalf("expected composed text then deletion to leave the grid empty at (1,3), got filled=%d at %v", v.Filled, v.ActiveCell)
	}
}
