package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"locallink/internal/domain/entity"
)

// DefaultOverlaySize bounds the profile overlay of a long-running service.
const DefaultOverlaySize = 1024

// ProfileOverlay is the process-lifetime, in-memory user id -> profile map
// sitting above the persisted cache. It is never persisted and always safe
// to drop. Least recently used entries are evicted past the size bound.
type ProfileOverlay struct {
	entries *lru.Cache[string, entity.Profile]
}

func NewProfileOverlay(size int) *ProfileOverlay {
	if size <= 0 {
		size = DefaultOverlaySize
	}
	entries, _ := lru.New[string, entity.Profile](size)
	return &ProfileOverlay{entries: entries}
}

func (o *ProfileOverlay) Get(userID string) (entity.Profile, bool) {
	return o.entries.Get(userID)
}

// Put replaces any previous record for userID; fields are not merged.
func (o *ProfileOverlay) Put(userID string, profile entity.Profile) {
	o.entries.Add(userID, profile)
}

func (o *ProfileOverlay) Contains(userID string) bool {
	return o.entries.Contains(userID)
}

func (o *ProfileOverlay) Len() int {
	return o.entries.Len()
}
