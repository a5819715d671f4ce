package app

import (
	"context"
	"sync"
	"time"

	"crossword/internal/solve"
	"crossword/internal/telemetry"
)

const saveTimeout = 2 * time.Second

// persister writes session views to the store off the input path. Offers
// coalesce: only the newest pending view is written, and a view older than
// one already seen is dropped.
type persister struct {
	store    Store
	puzzleID string
	logger   telemetry.Logger

	mu      sync.Mutex
	pending *solve.View
	lastSeq uint64
	wake    chan struct{}
}

func newPersister(store Store, puzzleID string, logger telemetry.Logger) *persister {
	return &persister{
		store:    store,
		puzzleID: puzzleID,
		logger:   logger,
		wake:     make(chan struct{}, 1),
	}
}

func (p *persister) Offer(v solve.View) {
	p.mu.Lock()
	if v.Seq < p.lastSeq {
		p.mu.Unlock()
		return
	}
	p.lastSeq = v.Seq
	p.pending = &v
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run writes pending views until ctx is done, then flushes once more.
func (p *persister) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.flush(context.Background())
			return nil
		case <-p.wake:
			p.flush(ctx)
		}
	}
}

func (p *persister) flush(ctx context.Context) {
	p.mu.Lock()
	v := p.pending
	p.pending = nil
	p.mu.Unlock()
	if v == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if v.Effect.Has(solve.EffectRestart) {
		if err := p.store.ClearSnapshot(ctx, p.puzzleID); err != nil {
			p.logger.Error("store.clear_failed", map[string]any{"puzzle": p.puzzleID, "error": err.Error()})
		}
		return
	}
	data, err := solve.EncodeSnapshot(v.Snapshot)
	if err != nil {
		p.logger.Error("store.encode_failed", map[string]any{"puzzle": p.puzzleID, "error": err.Error()})
		return
	}
	if err := p.store.SaveSnapshot(ctx, p.puzzleID, data); err != nil {
		p.logger.Error("store.save_failed", map[string]any{"puzzle": p.puzzleID, "seq": v.Seq, "error": err.Error()})
	}
}
