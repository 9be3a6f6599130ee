package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/metrics"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// Flusher owns the debounce timer for one client's editing session. Every
// Touch replaces the pending snapshot and resets the single timer
// (coalescing, never accumulating); FlushNow persists synchronously and
// disarms; Stop cancels whatever is pending.
//
// The flusher never sees the live State: callers hand it a Clone taken under
// their own lock, so the background write cannot race later edits. Snapshots
// carry a sequence number and persists are serialized, so a debounced write
// that fired late can never overwrite a newer explicit flush.
//
// Switching or finalizing a client must Stop the old flusher so stale state
// is never written over a deleted or different record.
type Flusher struct {
	nit     domain.NIT
	store   Store
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	// onFlush runs after every successful persist; the registry uses it to
	// bump the client's lastModified stamp.
	onFlush func(ctx context.Context)

	mu         sync.Mutex
	pending    *State
	pendingSeq uint64
	seq        uint64
	timer      *time.Timer
	stopped    bool

	// saveMu serializes persists; lastSaved keeps an in-flight debounced
	// write from landing over a newer explicit flush.
	saveMu    sync.Mutex
	lastSaved uint64
}

// NewFlusher builds a flusher for one session. window must be positive.
func NewFlusher(nit domain.NIT, store Store, window time.Duration, logger *slog.Logger, m *metrics.Metrics, onFlush func(ctx context.Context)) *Flusher {
	return &Flusher{
		nit:     nit,
		store:   store,
		window:  window,
		logger:  logger,
		metrics: m,
		onFlush: onFlush,
	}
}

// Touch records the snapshot to persist and arms or resets the debounce
// timer. snapshot must be a copy the caller will not mutate afterwards.
func (f *Flusher) Touch(snapshot *State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.seq++
	f.pending = snapshot
	f.pendingSeq = f.seq
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.window, func() {
		// Background flush; edits racing this write are caught by their own
		// Touch re-arming the timer with a fresher snapshot.
		if err := f.flushPending(context.Background()); err != nil {
			f.logger.Error("debounced flush failed",
				"nit", f.nit.String(),
				"error", err.Error(),
			)
		}
	})
}

// FlushNow persists the given snapshot immediately and disarms any pending
// timer. Used on page navigation, explicit saves, and session unload; it
// must complete before the caller changes pages or clients. A stopped
// flusher ignores the call.
func (f *Flusher) FlushNow(ctx context.Context, snapshot *State) error {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return nil
	}
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.pending = nil
	f.seq++
	seq := f.seq
	f.mu.Unlock()
	return f.save(ctx, snapshot, seq)
}

// Stop cancels any pending flush and prevents future ones. It does not
// persist; callers wanting a final write use FlushNow first.
func (f *Flusher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.pending = nil
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *Flusher) flushPending(ctx context.Context) error {
	f.mu.Lock()
	snapshot, seq := f.pending, f.pendingSeq
	f.pending = nil
	stopped := f.stopped
	f.mu.Unlock()
	if stopped || snapshot == nil {
		return nil
	}
	return f.save(ctx, snapshot, seq)
}

func (f *Flusher) save(ctx context.Context, snapshot *State, seq uint64) error {
	f.saveMu.Lock()
	defer f.saveMu.Unlock()
	if seq <= f.lastSaved {
		// A newer snapshot already reached storage.
		return nil
	}
	start := time.Now()
	if err := f.store.Save(ctx, f.nit, snapshot); err != nil {
		return err
	}
	f.lastSaved = seq
	f.metrics.ObserveFlush(time.Since(start).Seconds())
	if f.onFlush != nil {
		f.onFlush(ctx)
	}
	return nil
}
