// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrNotLoaded is returned by Holder.Snapshot before any load has completed.
var ErrNotLoaded = errors.New("catalog not loaded")

// State is the lifecycle stage of a Holder.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns a lowercase name for logging.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SnapshotLoader produces a complete snapshot or an error.
type SnapshotLoader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Holder owns the catalog snapshot. A snapshot is loaded once and then
// frozen. A failed load keeps its error until Retry is called; nothing
// reloads automatically.
//
// Concurrent callers share one in-flight load. The load itself runs
// detached from any caller's cancellation; a caller whose context ends
// stops waiting and gets the context error.
type Holder struct {
	loader SnapshotLoader

	mu    sync.Mutex
	state State
	snap  *Snapshot
	err   error
	done  chan struct{} // closed when the in-flight load finishes
}

// NewHolder returns an empty Holder.
func NewHolder(loader SnapshotLoader) *Holder {
	return &Holder{loader: loader}
}

// State returns the current lifecycle stage.
func (h *Holder) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Snapshot returns the frozen snapshot, the load error if the last load
// failed, or ErrNotLoaded while empty or loading. It never blocks.
func (h *Holder) Snapshot() (*Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case StateReady:
		return h.snap, nil
	case StateFailed:
		return nil, h.err
	default:
		return nil, ErrNotLoaded
	}
}

// Load returns the snapshot, starting the first load if none has run and
// waiting for an in-flight one. After a failure it returns the retained
// error without reloading.
func (h *Holder) Load(ctx context.Context) (*Snapshot, error) {
	return h.load(ctx, false)
}

// Retry re-runs the full load from scratch if the previous load failed.
// In any other state it behaves like Load.
func (h *Holder) Retry(ctx context.Context) (*Snapshot, error) {
	return h.load(ctx, true)
}

func (h *Holder) load(ctx context.Context, retry bool) (*Snapshot, error) {
	h.mu.Lock()
	switch h.state {
	case StateReady:
		snap := h.snap
		h.mu.Unlock()
		return snap, nil
	case StateFailed:
		if !retry {
			err := h.err
			h.mu.Unlock()
			return nil, err
		}
		slog.Info("retrying catalog load")
		h.start(ctx)
	case StateEmpty:
		h.start(ctx)
	}
	done := h.done
	h.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return h.Snapshot()
}

// start launches a load. Callers must hold h.mu.
func (h *Holder) start(ctx context.Context) {
	h.state = StateLoading
	h.snap = nil
	h.err = nil
	done := make(chan struct{})
	h.done = done

	loadCtx := context.WithoutCancel(ctx)
	go func() {
		snap, err := h.loader.Load(loadCtx)

		h.mu.Lock()
		if err != nil {
			h.state = StateFailed
			h.err = err
			slog.Error("catalog load failed", "error", err)
		} else {
			h.state = StateReady
			h.snap = snap
		}
		h.mu.Unlock()
		close(done)
	}()
}
