package usecase

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"locallink/internal/cache"
	"locallink/internal/infrastructure/kvstore"
	"locallink/pkg/logger"
)

// DefaultMaxSessions bounds how many users keep in-memory state at once.
const DefaultMaxSessions = 10000

// Session is the in-memory state of one signed-in user: the displayed data
// of every slice and the user's view of the persisted cache. Background
// fetches started by the session stop when it is closed.
type Session struct {
	UserID string

	cache  *cache.Cache
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	views  map[cache.Slice]interface{}
	closed bool

	closeOnce sync.Once
}

func newSession(userID string, c *cache.Cache) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		UserID: userID,
		cache:  c,
		ctx:    ctx,
		cancel: cancel,
		views:  make(map[cache.Slice]interface{}),
	}
}

func (s *Session) Cache() *cache.Cache {
	return s.cache
}

// Close cancels in-flight fetches and waits for them to return. No fetch
// can start once Close has begun.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.cancel()
		s.wg.Wait()
	})
}

// begin registers a background fetch, unless the session is closed.
func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Session) end() {
	s.wg.Done()
}

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// dropView forgets a view, e.g. the messages of a deleted chat.
func (s *Session) dropView(slice cache.Slice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, slice)
}

// viewFor returns the session's view of slice, binding it on first use.
func viewFor[T any](s *Session, slice cache.Slice, bind func() sliceBinding[T]) *SliceView[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.views[slice]; ok {
		return v.(*SliceView[T])
	}
	b := bind()
	b.slice = slice
	b.cache = s.cache
	v := newSliceView(s.ctx, s, s.UserID, b)
	s.views[slice] = v
	return v
}

// peekView returns the view of slice only if it was already bound.
func peekView[T any](s *Session, slice cache.Slice) (*SliceView[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[slice]
	if !ok {
		return nil, false
	}
	return v.(*SliceView[T]), true
}

// SessionManager hands out one Session per user and keeps at most a fixed
// number alive, closing the least recently used one when the bound is hit.
type SessionManager struct {
	store     *kvstore.Store
	cacheOpts []cache.Option

	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]
}

func NewSessionManager(store *kvstore.Store, maxSessions int, opts ...cache.Option) *SessionManager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	sessions, _ := lru.NewWithEvict[string, *Session](maxSessions, func(userID string, s *Session) {
		logger.Debug("session: closing session of %s", userID)
		go s.Close()
	})
	return &SessionManager{
		store:     store,
		cacheOpts: opts,
		sessions:  sessions,
	}
}

// Get returns the user's session, creating it on first use.
func (m *SessionManager) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions.Get(userID); ok {
		return s
	}
	s := newSession(userID, cache.New(m.store, userID, m.cacheOpts...))
	m.sessions.Add(userID, s)
	return s
}

// Peek returns the user's session without creating one.
func (m *SessionManager) Peek(userID string) (*Session, bool) {
	return m.sessions.Peek(userID)
}

func (m *SessionManager) Len() int {
	return m.sessions.Len()
}

// Close closes every live session and waits for their fetches to stop.
func (m *SessionManager) Close() {
	m.mu.Lock()
	live := m.sessions.Values()
	m.sessions.Purge()
	m.mu.Unlock()

	for _, s := range live {
		s.Close()
	}
}
