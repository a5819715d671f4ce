package solve

import (
	"context"
	"sync"
	"time"

	"crossword/internal/puzzle"
)

const (
	DefaultIncorrectDelay = 1500 * time.Millisecond
	DefaultTickInterval   = time.Second
)

// Timer is the part of *time.Timer the session needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d; the default wraps time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Listener func(View)

type Option func(*Session)

func WithIncorrectDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tick = d
		}
	}
}

func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Session) {
		if fn != nil {
			s.afterFunc = fn
		}
	}
}

// Session owns a State and is the single mutual-exclusion boundary around
// it. Listeners run after the lock is released and receive a copy; since
// two changes may notify out of order, consumers keep the highest Seq.
type Session struct {
	ix *puzzle.Index

	mu         sync.Mutex
	st         *State
	clearTimer Timer
	clearGen   uint64
	seq        uint64

	delay     time.Duration
	tick      time.Duration
	afterFunc AfterFunc

	lmu       sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// NewSession wraps st, or a fresh state when st is nil.
func NewSession(ix *puzzle.Index, st *State, opts ...Option) *Session {
	if st == nil {
		st = NewState(ix)
	}
	s := &Session{
		ix:        ix,
		st:        st,
		delay:     DefaultIncorrectDelay,
		tick:      DefaultTickInterval,
		afterFunc: realAfterFunc,
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Index() *puzzle.Index { return s.ix }

// Subscribe registers l for every change and returns its cancel func.
func (s *Session) Subscribe(l Listener) func() {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newView(s.ix, s.st, s.seq, 0)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Snapshot()
}

// Dispatch applies one navigation event.
func (s *Session) Dispatch(ev Event) Effect {
	return s.mutate(func(st *State) Effect {
		return Apply(s.ix, st, ev)
	})
}

// Key dispatches a key identifier; unknown keys are ignored.
func (s *Session) Key(key string, shift bool) Effect {
	ev, ok := ParseKey(key, shift)
	if !ok {
		return 0
	}
	return s.Dispatch(ev)
}

// Text dispatches composed text input.
func (s *Session) Text(data string, deleteBackward bool) Effect {
	ev, ok := ParseText(data, deleteBackward)
	if !ok {
		return 0
	}
	return s.Dispatch(ev)
}

// Check marks wrong squares in scope and schedules their clear. A pending
// clear from an earlier check is cancelled first. The count is taken under
// the same lock as the marks.
func (s *Session) Check(scope Scope) (Effect, int) {
	var n int
	eff := s.mutate(func(st *State) Effect {
		s.cancelClearLocked()
		wrong := Check(s.ix, st, scope)
		n = len(wrong)
		if n > 0 {
			gen := s.clearGen
			s.clearTimer = s.afterFunc(s.delay, func() { s.clearIncorrect(gen, wrong) })
		}
		return EffectMarks
	})
	return eff, n
}

func (s *Session) Reveal(scope Scope) Effect {
	return s.mutate(func(st *State) Effect {
		return Reveal(s.ix, st, scope)
	})
}

// Restart resets to a fresh state and drops any pending clear.
func (s *Session) Restart() Effect {
	return s.mutate(func(st *State) Effect {
		s.cancelClearLocked()
		return Restart(s.ix, st)
	})
}

// Start dismisses the landing screen so the clock can run.
func (s *Session) Start() Effect {
	return s.mutate(func(st *State) Effect {
		if st.Started {
			return 0
		}
		st.Started = true
		return EffectTimer
	})
}

func (s *Session) TogglePause() Effect {
	return s.mutate(func(st *State) Effect {
		if st.Complete {
			return 0
		}
		st.Paused = !st.Paused
		return EffectTimer
	})
}

// Tick advances the clock by one second when the session is started, not
// paused and not complete.
func (s *Session) Tick() Effect {
	return s.mutate(func(st *State) Effect {
		if !st.Started || st.Paused || st.Complete {
			return 0
		}
		st.Elapsed++
		return EffectTimer
	})
}

// RunClock ticks until ctx is done.
func (s *Session) RunClock(ctx context.Context) error {
	t := time.NewTicker(s.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.Tick()
		}
	}
}

// Close stops any pending timer.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancelClearLocked()
	s.mu.Unlock()
}

func (s *Session) clearIncorrect(gen uint64, cells CellSet) {
	s.mutate(func(st *State) Effect {
		if gen != s.clearGen {
			return 0
		}
		s.clearTimer = nil
		changed := false
		for p := range cells {
			if st.Incorrect.Has(p) {
				delete(st.Incorrect, p)
				changed = true
			}
		}
		if !changed {
			return 0
		}
		return EffectMarks
	})
}

func (s *Session) cancelClearLocked() {
	s.clearGen++
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
}

func (s *Session) mutate(fn func(*State) Effect) Effect {
	s.mu.Lock()
	eff := fn(s.st)
	var v View
	if eff != 0 {
		s.seq++
		v = newView(s.ix, s.st, s.seq, eff)
	}
	s.mu.Unlock()
	if eff != 0 {
		s.notify(v)
	}
	return eff
}

func (s *Session) notify(v View) {
	s.lmu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.lmu.RUnlock()
	for _, l := range ls {
		l(v)
	}
}
