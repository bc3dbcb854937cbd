package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"locallink/internal/cache"
	"locallink/pkg/logger"
)

// Where the currently displayed data of a slice came from.
const (
	SourceEmpty   = "empty"
	SourceCache   = "cache"
	SourceNetwork = "network"
)

// Snapshot is what a mount shows immediately.
type Snapshot[T any] struct {
	Data       T         `json:"data"`
	Source     string    `json:"source"`
	Stale      bool      `json:"stale"`
	Refreshing bool      `json:"refreshing"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// sliceBinding connects a view to its persisted slice and its network source.
type sliceBinding[T any] struct {
	slice cache.Slice
	cache *cache.Cache
	load  func(ctx context.Context) T
	save  func(ctx context.Context, v T)
	fetch func(ctx context.Context) (T, error)
	empty func(v T) bool
}

// fetchTracker counts background fetches so their owner can wait for them.
// begin fails once the owner is closed.
type fetchTracker interface {
	begin() bool
	end()
}

// SliceView holds the displayed state of one slice and runs the
// cache-then-network protocol for it: show what the persisted cache has,
// fetch in the background, replace state wholesale and write through on
// success, keep the previous state on failure. Concurrent fetches are not
// ordered; the last one to finish wins.
type SliceView[T any] struct {
	sliceBinding[T]
	userID string

	// lifetime bounds background fetches; cancelled when the session closes
	lifetime context.Context
	fetches  fetchTracker

	mu          sync.RWMutex
	state       T
	source      string
	loaded      bool
	refreshing  int
	refreshedAt time.Time

	pending atomic.Bool
}

func newSliceView[T any](lifetime context.Context, fetches fetchTracker, userID string, b sliceBinding[T]) *SliceView[T] {
	return &SliceView[T]{
		sliceBinding: b,
		userID:       userID,
		lifetime:     lifetime,
		fetches:      fetches,
		source:       SourceEmpty,
	}
}

// Mount returns the current state right away, reading the persisted slice on
// first use, and starts a background fetch when a refresh signal is pending
// or the slice's policy asks for one. The returned channel yields the fetch
// result and is closed; it is closed immediately when no fetch was started.
func (v *SliceView[T]) Mount(ctx context.Context) (Snapshot[T], <-chan error) {
	v.ensureLoaded(ctx)

	v.mu.RLock()
	empty := v.empty(v.state)
	v.mu.RUnlock()

	forced := v.pending.Swap(false)
	if !forced && !v.cache.NeedsRefresh(ctx, v.slice, empty) {
		done := make(chan error)
		close(done)
		return v.Snapshot(ctx), done
	}

	done := v.refreshAsync()
	return v.Snapshot(ctx), done
}

// Refresh fetches synchronously. On failure the state is left untouched and
// the error is returned so user-initiated refreshes can report it.
func (v *SliceView[T]) Refresh(ctx context.Context) error {
	v.ensureLoaded(ctx)

	v.mu.Lock()
	v.refreshing++
	v.mu.Unlock()

	return v.run(ctx)
}

// run performs one fetch; the caller has already counted it as refreshing.
func (v *SliceView[T]) run(ctx context.Context) error {
	fresh, err := v.fetch(ctx)

	v.mu.Lock()
	v.refreshing--
	if err != nil {
		v.mu.Unlock()
		return err
	}
	v.state = fresh
	v.source = SourceNetwork
	v.refreshedAt = time.Now()
	v.mu.Unlock()

	v.save(ctx, fresh)
	return nil
}

func (v *SliceView[T]) refreshAsync() <-chan error {
	done := make(chan error, 1)
	if !v.fetches.begin() {
		done <- context.Canceled
		close(done)
		return done
	}

	v.mu.Lock()
	v.refreshing++
	v.mu.Unlock()

	go func() {
		defer v.fetches.end()
		defer close(done)

		err := v.run(v.lifetime)
		if err != nil {
			logger.LogRefreshFailure(v.userID, string(v.slice), err)
		}
		done <- err
	}()
	return done
}

// Signal requests a forced refresh on the next mount. The signal is
// consumed by that mount.
func (v *SliceView[T]) Signal() {
	v.pending.Store(true)
}

// Pending reports whether a refresh signal is waiting to be consumed.
func (v *SliceView[T]) Pending() bool {
	return v.pending.Load()
}

// Set replaces the displayed state and writes it through.
func (v *SliceView[T]) Set(ctx context.Context, next T) {
	v.Update(ctx, func(T) T { return next })
}

// Update applies a local mutation to the displayed state and writes the
// result through to the persisted slice.
func (v *SliceView[T]) Update(ctx context.Context, fn func(T) T) T {
	v.ensureLoaded(ctx)

	v.mu.Lock()
	next := fn(v.state)
	v.state = next
	if v.source == SourceEmpty {
		v.source = SourceCache
	}
	v.mu.Unlock()

	v.save(ctx, next)
	return next
}

// Mutate changes the displayed state without persisting it.
func (v *SliceView[T]) Mutate(ctx context.Context, fn func(T) T) T {
	v.ensureLoaded(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = fn(v.state)
	return v.state
}

// State returns the displayed state, loading the persisted slice on first use.
func (v *SliceView[T]) State(ctx context.Context) T {
	v.ensureLoaded(ctx)

	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

func (v *SliceView[T]) Snapshot(ctx context.Context) Snapshot[T] {
	v.mu.RLock()
	snap := Snapshot[T]{
		Data:       v.state,
		Source:     v.source,
		Refreshing: v.refreshing > 0,
		UpdatedAt:  v.refreshedAt,
	}
	v.mu.RUnlock()

	if snap.Source != SourceNetwork {
		snap.UpdatedAt = v.cache.LastWriteTime(ctx, v.slice)
	}
	snap.Stale = snap.Source != SourceNetwork && v.cache.IsExpired(ctx, v.slice)
	return snap
}

func (v *SliceView[T]) ensureLoaded(ctx context.Context) {
	v.mu.RLock()
	loaded := v.loaded
	v.mu.RUnlock()
	if loaded {
		return
	}

	cached := v.load(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded {
		return
	}
	v.state = cached
	v.loaded = true
	if !v.empty(cached) {
		v.source = SourceCache
	}
}
