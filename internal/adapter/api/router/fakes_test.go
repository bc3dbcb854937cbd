package router

import (
	"context"
	"strings"
	"sync"

	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/pkg/errors"
)

// tokenVerifier accepts "token-<uid>".
type tokenVerifier struct{}

func (tokenVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	uid, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return "", errors.Unauthorized("bad token", nil)
	}
	return uid, nil
}

type memListings struct {
	mu    sync.Mutex
	byID  map[string]entity.Listing
	order []string
}

func newMemListings(listings ...entity.Listing) *memListings {
	r := &memListings{byID: make(map[string]entity.Listing)}
	for i := range listings {
		r.Create(context.Background(), &listings[i])
	}
	return r
}

func (r *memListings) Create(_ context.Context, l *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[l.ID] = *l
	r.order = append([]string{l.ID}, r.order...)
	return nil
}

func (r *memListings) GetByID(_ context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return &l, nil
}

func (r *memListings) List(_ context.Context, f repository.ListingFilter) ([]entity.Listing, error) {
	return r.where(func(l entity.Listing) bool {
		return (f.Type == "" || l.Type == f.Type) &&
			(f.Category == "" || l.Category == f.Category) &&
			(f.Query == "" || strings.Contains(strings.ToLower(l.Title), strings.ToLower(f.Query)))
	}), nil
}

func (r *memListings) ListByOwner(_ context.Context, ownerID string) ([]entity.Listing, error) {
	return r.where(func(l entity.Listing) bool { return l.OwnerID == ownerID }), nil
}

func (r *memListings) where(keep func(entity.Listing) bool) []entity.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Listing{}
	for _, id := range r.order {
		if l, ok := r.byID[id]; ok && keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func (r *memListings) Update(_ context.Context, l *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[l.ID] = *l
	return nil
}

func (r *memListings) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return errors.NotFound("Listing", nil)
	}
	delete(r.byID, id)
	return nil
}

type memFavorites struct {
	mu       sync.Mutex
	listings *memListings
	items    map[string][]string
}

func (r *memFavorites) Add(_ context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[userID] = append(r.items[userID], listingID)
	return nil
}

func (r *memFavorites) Remove(_ context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[userID][:0]
	for _, id := range r.items[userID] {
		if id != listingID {
			kept = append(kept, id)
		}
	}
	r.items[userID] = kept
	return nil
}

func (r *memFavorites) ListByUser(ctx context.Context, userID string) ([]entity.FavoriteItem, error) {
	r.mu.Lock()
	ids := append([]string(nil), r.items[userID]...)
	r.mu.Unlock()

	out := []entity.FavoriteItem{}
	for _, id := range ids {
		if l, err := r.listings.GetByID(ctx, id); err == nil {
			out = append(out, entity.NewFavoriteItem(l))
		}
	}
	return out, nil
}

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]entity.Profile
}

func (r *memProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, errors.NotFound("Profile", nil)
	}
	return &p, nil
}

func (r *memProfiles) Upsert(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = *p
	return nil
}

type memChats struct {
	mu       sync.Mutex
	chats    map[string]entity.ChatSummary
	messages map[string][]entity.ChatMessage
}

func (r *memChats) GetByID(_ context.Context, chatID string) (*entity.ChatSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	c = cloneChat(c)
	return &c, nil
}

func cloneChat(c entity.ChatSummary) entity.ChatSummary {
	participants := make(map[string]bool, len(c.Participants))
	for k, v := range c.Participants {
		participants[k] = v
	}
	unread := make(map[string]bool, len(c.Unread))
	for k, v := range c.Unread {
		unread[k] = v
	}
	c.Participants, c.Unread = participants, unread
	return c
}

func (r *memChats) ListByParticipant(_ context.Context, userID string) ([]entity.ChatSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(userID), nil
}

func (r *memChats) listLocked(userID string) []entity.ChatSummary {
	out := []entity.ChatSummary{}
	for _, c := range r.chats {
		if c.HasParticipant(userID) {
			out = append(out, cloneChat(c))
		}
	}
	return out
}

func (r *memChats) Delete(_ context.Context, chatID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chats, chatID)
	delete(r.messages, chatID)
	return nil
}

func (r *memChats) SendMessage(_ context.Context, chatID, receiverID string, m *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[chatID] = append(r.messages[chatID], *m)
	c, ok := r.chats[chatID]
	if !ok {
		c = entity.ChatSummary{ChatID: chatID, Participants: map[string]bool{}, Unread: map[string]bool{}}
	}
	c.LastMessage = m.Preview()
	c.Timestamp = m.Timestamp
	c.Participants[m.SenderID] = true
	c.Participants[receiverID] = true
	c.Unread[receiverID] = true
	r.chats[chatID] = c
	return nil
}

func (r *memChats) GetMessages(_ context.Context, chatID string) ([]entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ChatMessage{}, r.messages[chatID]...), nil
}

func (r *memChats) MarkChatAsRead(_ context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chats[chatID]; ok {
		c.Unread[userID] = false
	}
	return nil
}

func (r *memChats) MarkMessagesAsSeen(context.Context, string, string) error {
	return nil
}

// WatchChats reports the current chats once, then waits for ctx.
func (r *memChats) WatchChats(ctx context.Context, userID string, fn func([]entity.ChatSummary)) error {
	r.mu.Lock()
	chats := r.listLocked(userID)
	r.mu.Unlock()

	fn(chats)
	<-ctx.Done()
	return nil
}

type memNotifications struct {
	mu    sync.Mutex
	items []entity.Notification
}

func (r *memNotifications) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = int64(len(r.items) + 1)
	r.items = append(r.items, *n)
	return nil
}

func (r *memNotifications) ListByUser(_ context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []entity.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return []entity.Notification{}, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (r *memNotifications) MarkAsRead(_ context.Context, userID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *memNotifications) CountUnread(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}
