package cache

import "strings"

// Slice names one independently cached unit of data. The values are the
// persisted keys, before user namespacing.
type Slice string

const (
	SliceHomeListings  Slice = "cached_home_posts"
	SliceMyListings    Slice = "cached_my_posts"
	SliceFavorites     Slice = "cached_favorites"
	SliceProfile       Slice = "cached_profile"
	SliceChatSummaries Slice = "cached_chat_summaries"

	messagesPrefix = "cached_messages_"

	// globalTimestampKey predates per-key timestamps and is only kept fresh
	// by the home slice.
	globalTimestampKey = "cache_timestamp"
	messagesIndexKey   = "cached_messages_index"
)

// Kind groups slices that share a refresh rule.
type Kind string

const (
	KindHome      Kind = "home"
	KindMine      Kind = "mine"
	KindFavorites Kind = "favorites"
	KindProfile   Kind = "profile"
	KindChats     Kind = "chats"
	KindMessages  Kind = "messages"
)

// MessagesSlice is the slice holding one chat's messages.
func MessagesSlice(chatID string) Slice {
	return Slice(messagesPrefix + chatID)
}

func (s Slice) Kind() Kind {
	switch s {
	case SliceHomeListings:
		return KindHome
	case SliceMyListings:
		return KindMine
	case SliceFavorites:
		return KindFavorites
	case SliceProfile:
		return KindProfile
	case SliceChatSummaries:
		return KindChats
	}
	if strings.HasPrefix(string(s), messagesPrefix) {
		return KindMessages
	}
	return ""
}
