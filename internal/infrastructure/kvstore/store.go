// Package kvstore is the persisted key-value layer under the slice cache.
// Writes are best effort: the network stays the source of truth, so backend
// failures are logged and never returned to callers.
package kvstore

import (
	"context"
	"strconv"
	"time"

	"locallink/pkg/logger"
)

// TimestampSuffix is appended to a key to store its last-write time.
const TimestampSuffix = "_timestamp"

// Backend is a namespaced string store that survives process restarts.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Store struct {
	backend Backend
	now     func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, used by tests to move time forward.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write stores value under key and records the current time as the key's
// last-write timestamp. Prior value and timestamp are overwritten.
func (s *Store) Write(ctx context.Context, key, value string) {
	if err := s.backend.Set(ctx, key, value); err != nil {
		logger.Warn("kvstore: write %s failed: %v", key, err)
		return
	}
	s.Touch(ctx, key)
}

// Touch records the current time as key's last-write timestamp without
// touching its value.
func (s *Store) Touch(ctx context.Context, key string) {
	s.Stamp(ctx, key+TimestampSuffix)
}

// Stamp stores the current time, in epoch milliseconds, as the value of key
// itself. Used for standalone timestamp keys like cache_timestamp.
func (s *Store) Stamp(ctx context.Context, key string) {
	ms := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.backend.Set(ctx, key, ms); err != nil {
		logger.Warn("kvstore: timestamp %s failed: %v", key, err)
	}
}

// Read returns the last written value, or false if there is none.
func (s *Store) Read(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		logger.Warn("kvstore: read %s failed: %v", key, err)
		return "", false
	}
	return value, ok
}

// LastWriteTime returns the zero time when key was never written.
func (s *Store) LastWriteTime(ctx context.Context, key string) time.Time {
	return s.StampedTime(ctx, key+TimestampSuffix)
}

// StampedTime reads a time written by Stamp. Missing or malformed values
// read as the zero time.
func (s *Store) StampedTime(ctx context.Context, key string) time.Time {
	raw, ok := s.Read(ctx, key)
	if !ok {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Remove deletes both the value and the timestamp of key.
func (s *Store) Remove(ctx context.Context, key string) {
	for _, k := range []string{key, key + TimestampSuffix} {
		if err := s.backend.Delete(ctx, k); err != nil {
			logger.Warn("kvstore: delete %s failed: %v", k, err)
		}
	}
}

// Now is the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Close() error {
	return s.backend.Close()
}
