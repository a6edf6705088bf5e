package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apifinder/internal/models"
)

// scriptedLoader returns results in order, optionally blocking each call
// until release is closed.
type scriptedLoader struct {
	calls   atomic.Int32
	release chan struct{}
	results []error // nil entry means success
}

func (s *scriptedLoader) Load(context.Context) (*Snapshot, error) {
	n := int(s.calls.Add(1)) - 1
	if s.release != nil {
		<-s.release
	}
	if n < len(s.results) && s.results[n] != nil {
		return nil, s.results[n]
	}
	return NewSnapshot([]models.API{{Name: "Cat Facts", CategoryName: "Animals"}}, nil), nil
}

func TestHolderEmpty(t *testing.T) {
	h := NewHolder(&scriptedLoader{})
	assert.Equal(t, StateEmpty, h.State())

	snap, err := h.Snapshot()
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestHolderLoadOnceThenFrozen(t *testing.T) {
	loader := &scriptedLoader{}
	h := NewHolder(loader)

	first, err := h.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, StateReady, h.State())

	second, err := h.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	// Retry on a ready holder must not reload.
	third, err := h.Retry(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, third)
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestHolderCoalescesConcurrentLoads(t *testing.T) {
	loader := &scriptedLoader{release: make(chan struct{})}
	h := NewHolder(loader)

	const callers = 8
	var wg sync.WaitGroup
	snaps := make([]*Snapshot, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := h.Load(context.Background())
			assert.NoError(t, err)
			snaps[i] = snap
		}()
	}

	require.Eventually(t, func() bool { return h.State() == StateLoading }, time.Second, time.Millisecond)
	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for _, s := range snaps {
		assert.Same(t, snaps[0], s)
	}
}

func TestHolderFailureNeedsManualRetry(t *testing.T) {
	boom := errors.New("store unreachable")
	loader := &scriptedLoader{results: []error{boom}}
	h := NewHolder(loader)

	_, err := h.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateFailed, h.State())

	// Load does not retry on its own.
	_, err = h.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), loader.calls.Load())

	_, err = h.Snapshot()
	assert.ErrorIs(t, err, boom)

	snap, err := h.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, StateReady, h.State())
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestHolderCallerCancellationDoesNotFailLoad(t *testing.T) {
	loader := &scriptedLoader{release: make(chan struct{})}
	h := NewHolder(loader)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := h.Load(ctx)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return h.State() == StateLoading }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(loader.release)
	snap, err := h.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
