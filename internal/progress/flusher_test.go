package progress

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

type countingStore struct {
	mu    sync.Mutex
	saves int
	inner *InMemoryStore
}

func newCountingStore() *countingStore {
	return &countingStore{inner: NewInMemoryStore()}
}

func (c *countingStore) Save(ctx context.Context, nit domain.NIT, state *State) error {
	c.mu.Lock()
	c.saves++
	c.mu.Unlock()
	return c.inner.Save(ctx, nit, state)
}

func (c *countingStore) Load(ctx context.Context, nit domain.NIT) (*State, error) {
	return c.inner.Load(ctx, nit)
}

func (c *countingStore) Delete(ctx context.Context, nit domain.NIT) error {
	return c.inner.Delete(ctx, nit)
}

func (c *countingStore) saveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testNIT = domain.NIT("1234567890")

func TestFlusherCoalesces(t *testing.T) {
	store := newCountingStore()
	state := NewState()
	f := NewFlusher(testNIT, store, 30*time.Millisecond, discardLogger(), nil, nil)
	defer f.Stop()

	// A burst of edits arms the timer repeatedly; only one write lands.
	for i := 0; i < 5; i++ {
		state.SetEvidence(1, "edicion")
		f.Touch(state.Clone())
	}

	assert.Eventually(t, func() bool {
		return store.saveCount() == 1
	}, time.Second, 5*time.Millisecond)

	// No further writes after the quiet period.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, store.saveCount())
}

func TestFlusherPersistsSnapshotNotLiveState(t *testing.T) {
	store := newCountingStore()
	state := NewState()
	f := NewFlusher(testNIT, store, 10*time.Millisecond, discardLogger(), nil, nil)
	defer f.Stop()

	state.SetEvidence(1, "primera version")
	f.Touch(state.Clone())

	// Edits after the snapshot was taken must not leak into the write the
	// timer performs.
	state.SetEvidence(1, "segunda version")

	assert.Eventually(t, func() bool {
		return store.saveCount() == 1
	}, time.Second, 2*time.Millisecond)

	saved, err := store.Load(context.Background(), testNIT)
	require.NoError(t, err)
	assert.Equal(t, "primera version", saved.Evidence(1))
}

func TestFlusherFlushNowDisarmsTimer(t *testing.T) {
	store := newCountingStore()
	f := NewFlusher(testNIT, store, 30*time.Millisecond, discardLogger(), nil, nil)
	defer f.Stop()

	f.Touch(NewState())
	require.NoError(t, f.FlushNow(context.Background(), NewState()))
	assert.Equal(t, 1, store.saveCount())

	// The pending debounced write was cancelled by the explicit flush.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, store.saveCount())
}

func TestFlusherStopCancelsWithoutPersist(t *testing.T) {
	store := newCountingStore()
	f := NewFlusher(testNIT, store, 10*time.Millisecond, discardLogger(), nil, nil)

	f.Touch(NewState())
	f.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount())

	// Stopped flushers ignore everything, FlushNow included.
	f.Touch(NewState())
	require.NoError(t, f.FlushNow(context.Background(), NewState()))
	assert.Equal(t, 0, store.saveCount())
}

func TestFlusherOnFlushCallback(t *testing.T) {
	store := newCountingStore()
	var mu sync.Mutex
	calls := 0
	f := NewFlusher(testNIT, store, time.Hour, discardLogger(), nil, func(context.Context) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer f.Stop()

	require.NoError(t, f.FlushNow(context.Background(), NewState()))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}
