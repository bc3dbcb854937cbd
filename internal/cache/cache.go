// Package cache holds the typed, per-user slices persisted in the kvstore and
// the freshness rules that decide when a slice is refetched.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"locallink/internal/domain/entity"
	"locallink/internal/infrastructure/kvstore"
	"locallink/pkg/logger"
)

// DefaultMaxMessageSlices bounds how many chats keep cached messages.
const DefaultMaxMessageSlices = 50

type Cache struct {
	store      *kvstore.Store
	namespace  string
	policy     Policy
	defaultTTL time.Duration
	maxChats   int

	indexMu sync.Mutex
}

type Option func(*Cache)

func WithPolicy(p Policy) Option {
	return func(c *Cache) {
		c.policy = p
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithMaxMessageSlices sets the message slice bound. Zero disables it.
func WithMaxMessageSlices(n int) Option {
	return func(c *Cache) {
		if n >= 0 {
			c.maxChats = n
		}
	}
}

// New returns a cache whose keys are prefixed with namespace (usually the
// user id). An empty namespace uses the raw slice keys.
func New(store *kvstore.Store, namespace string, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		namespace:  namespace,
		defaultTTL: DefaultTTL,
		maxChats:   DefaultMaxMessageSlices,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy == nil {
		c.policy = DefaultPolicy(c.defaultTTL)
	}
	return c
}

func (c *Cache) Namespace() string {
	return c.namespace
}

func (c *Cache) key(name string) string {
	if c.namespace == "" {
		return name
	}
	return c.namespace + ":" + name
}

// wire wrappers, compatible with the payloads written by the mobile client
type listingList struct {
	Posts []entity.Listing `json:"posts"`
}

type favoriteList struct {
	Items []entity.FavoriteItem `json:"items"`
}

type chatSummaryList struct {
	Chats []entity.ChatSummary `json:"chats"`
}

type chatMessageList struct {
	Messages []entity.ChatMessage `json:"messages"`
}

func save(ctx context.Context, c *Cache, s Slice, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Warn("cache: encode %s failed: %v", s, err)
		return
	}
	c.store.Write(ctx, c.key(string(s)), string(b))
}

// load reports false on a miss or when the stored payload does not decode.
func load(ctx context.Context, c *Cache, s Slice, v interface{}) bool {
	raw, ok := c.store.Read(ctx, c.key(string(s)))
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.Debug("cache: discarding corrupt %s: %v", s, err)
		return false
	}
	return true
}

// SaveHomeListings also refreshes the global timestamp.
func (c *Cache) SaveHomeListings(ctx context.Context, listings []entity.Listing) {
	save(ctx, c, SliceHomeListings, listingList{Posts: listings})
	c.store.Stamp(ctx, c.key(globalTimestampKey))
}

func (c *Cache) LoadHomeListings(ctx context.Context) []entity.Listing {
	var w listingList
	if !load(ctx, c, SliceHomeListings, &w) || w.Posts == nil {
		return []entity.Listing{}
	}
	return w.Posts
}

func (c *Cache) SaveMyListings(ctx context.Context, listings []entity.Listing) {
	save(ctx, c, SliceMyListings, listingList{Posts: listings})
}

func (c *Cache) LoadMyListings(ctx context.Context) []entity.Listing {
	var w listingList
	if !load(ctx, c, SliceMyListings, &w) || w.Posts == nil {
		return []entity.Listing{}
	}
	return w.Posts
}

func (c *Cache) SaveFavorites(ctx context.Context, items []entity.FavoriteItem) {
	save(ctx, c, SliceFavorites, favoriteList{Items: items})
}

func (c *Cache) LoadFavorites(ctx context.Context) []entity.FavoriteItem {
	var w favoriteList
	if !load(ctx, c, SliceFavorites, &w) || w.Items == nil {
		return []entity.FavoriteItem{}
	}
	return w.Items
}

func (c *Cache) SaveProfile(ctx context.Context, profile *entity.Profile) {
	if profile == nil {
		return
	}
	save(ctx, c, SliceProfile, profile)
}

// LoadProfile returns nil on a miss.
func (c *Cache) LoadProfile(ctx context.Context) *entity.Profile {
	var p entity.Profile
	if !load(ctx, c, SliceProfile, &p) {
		return nil
	}
	return &p
}

func (c *Cache) SaveChatSummaries(ctx context.Context, chats []entity.ChatSummary) {
	save(ctx, c, SliceChatSummaries, chatSummaryList{Chats: chats})
}

func (c *Cache) LoadChatSummaries(ctx context.Context) []entity.ChatSummary {
	var w chatSummaryList
	if !load(ctx, c, SliceChatSummaries, &w) || w.Chats == nil {
		return []entity.ChatSummary{}
	}
	return w.Chats
}

func (c *Cache) SaveMessages(ctx context.Context, chatID string, messages []entity.ChatMessage) {
	save(ctx, c, MessagesSlice(chatID), chatMessageList{Messages: messages})
	c.trackMessages(ctx, chatID)
}

func (c *Cache) LoadMessages(ctx context.Context, chatID string) []entity.ChatMessage {
	var w chatMessageList
	if !load(ctx, c, MessagesSlice(chatID), &w) || w.Messages == nil {
		return []entity.ChatMessage{}
	}
	return w.Messages
}

// DropMessages forgets a chat's cached messages, e.g. after the chat is deleted.
func (c *Cache) DropMessages(ctx context.Context, chatID string) {
	c.store.Remove(ctx, c.key(string(MessagesSlice(chatID))))

	c.indexMu.Lock()
	defer c.indexMu.Unlock()
	index := c.loadIndex(ctx)
	kept := index[:0]
	for _, id := range index {
		if id != chatID {
			kept = append(kept, id)
		}
	}
	c.saveIndex(ctx, kept)
}

// CachedChats lists chats with cached messages, most recently saved first.
func (c *Cache) CachedChats(ctx context.Context) []string {
	c.indexMu.Lock()
	defer c.indexMu.Unlock()
	return c.loadIndex(ctx)
}

// trackMessages moves chatID to the front of the recency index and evicts
// the oldest slices beyond the bound.
func (c *Cache) trackMessages(ctx context.Context, chatID string) {
	c.indexMu.Lock()
	defer c.indexMu.Unlock()

	index := c.loadIndex(ctx)
	next := make([]string, 0, len(index)+1)
	next = append(next, chatID)
	for _, id := range index {
		if id != chatID {
			next = append(next, id)
		}
	}

	if c.maxChats > 0 && len(next) > c.maxChats {
		for _, evicted := range next[c.maxChats:] {
			c.store.Remove(ctx, c.key(string(MessagesSlice(evicted))))
			logger.Debug("cache: evicted messages of chat %s", evicted)
		}
		next = next[:c.maxChats]
	}
	c.saveIndex(ctx, next)
}

func (c *Cache) loadIndex(ctx context.Context) []string {
	raw, ok := c.store.Read(ctx, c.key(messagesIndexKey))
	if !ok {
		return []string{}
	}
	var index []string
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		return []string{}
	}
	return index
}

func (c *Cache) saveIndex(ctx context.Context, index []string) {
	b, err := json.Marshal(index)
	if err != nil {
		return
	}
	c.store.Write(ctx, c.key(messagesIndexKey), string(b))
}

// LastWriteTime of a slice, falling back to the global timestamp for the
// home slice when it has no per-key timestamp.
func (c *Cache) LastWriteTime(ctx context.Context, s Slice) time.Time {
	ts := c.store.LastWriteTime(ctx, c.key(string(s)))
	if ts.IsZero() && s == SliceHomeListings {
		ts = c.store.StampedTime(ctx, c.key(globalTimestampKey))
	}
	return ts
}

// IsExpired reports whether more than the slice's TTL has passed since its
// last write. A slice that was never written is expired.
func (c *Cache) IsExpired(ctx context.Context, s Slice) bool {
	last := c.LastWriteTime(ctx, s)
	if last.IsZero() {
		return true
	}
	return c.store.Now().Sub(last) > c.ttlFor(s.Kind())
}

// NeedsRefresh applies the slice's rule: Always refetches, otherwise an
// empty or expired slice is refetched.
func (c *Cache) NeedsRefresh(ctx context.Context, s Slice, empty bool) bool {
	if c.policy.RuleFor(s.Kind()).Always {
		return true
	}
	return empty || c.IsExpired(ctx, s)
}

func (c *Cache) ttlFor(kind Kind) time.Duration {
	if r := c.policy.RuleFor(kind); r.TTL > 0 {
		return r.TTL
	}
	return c.defaultTTL
}
