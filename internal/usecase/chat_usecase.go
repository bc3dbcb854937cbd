package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"locallink/internal/cache"
	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/internal/infrastructure/ratelimit"
	ws "locallink/internal/infrastructure/websocket"
	"locallink/pkg/errors"
	"locallink/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	listingRepo repository.ListingRepository
	profiles    *ProfileUseCase
	sessions    *SessionManager
	pusher      EventPusher
	throttle    Throttle
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	listingRepo repository.ListingRepository,
	profiles *ProfileUseCase,
	sessions *SessionManager,
	pusher EventPusher,
	throttle Throttle,
) *ChatUseCase {
	if pusher == nil {
		pusher = nopPusher{}
	}
	return &ChatUseCase{
		chatRepo:    chatRepo,
		listingRepo: listingRepo,
		profiles:    profiles,
		sessions:    sessions,
		pusher:      pusher,
		throttle:    throttle,
	}
}

type SendMessageInput struct {
	Text           string
	ImageURL       *string
	AttachedItemID *string
}

type MessageResponse struct {
	ChatID  string              `json:"chat_id"`
	Message *entity.ChatMessage `json:"message"`
}

func (uc *ChatUseCase) summariesView(s *Session) *SliceView[[]entity.ChatSummary] {
	return viewFor(s, cache.SliceChatSummaries, func() sliceBinding[[]entity.ChatSummary] {
		return sliceBinding[[]entity.ChatSummary]{
			load: s.Cache().LoadChatSummaries,
			save: s.Cache().SaveChatSummaries,
			fetch: func(ctx context.Context) ([]entity.ChatSummary, error) {
				return uc.fetchSummaries(ctx, s.UserID)
			},
			empty: isEmptySlice[entity.ChatSummary],
		}
	})
}

func (uc *ChatUseCase) messagesView(s *Session, chatID string) *SliceView[[]entity.ChatMessage] {
	return viewFor(s, cache.MessagesSlice(chatID), func() sliceBinding[[]entity.ChatMessage] {
		return sliceBinding[[]entity.ChatMessage]{
			load: func(ctx context.Context) []entity.ChatMessage {
				return s.Cache().LoadMessages(ctx, chatID)
			},
			save: func(ctx context.Context, messages []entity.ChatMessage) {
				s.Cache().SaveMessages(ctx, chatID, messages)
			},
			fetch: func(ctx context.Context) ([]entity.ChatMessage, error) {
				return uc.fetchMessages(ctx, s, chatID)
			},
			empty: isEmptySlice[entity.ChatMessage],
		}
	})
}

// fetchSummaries loads the user's chats, newest first, and warms the
// profile overlay with the other participants.
func (uc *ChatUseCase) fetchSummaries(ctx context.Context, userID string) ([]entity.ChatSummary, error) {
	chats, err := uc.chatRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, errors.Unavailable("Failed to fetch chats", err)
	}

	mine := make([]entity.ChatSummary, 0, len(chats))
	others := make([]string, 0, len(chats))
	for _, c := range chats {
		if !c.HasParticipant(userID) {
			continue
		}
		mine = append(mine, c)
		others = append(others, c.OtherParticipant(userID))
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].Timestamp.After(mine[j].Timestamp)
	})

	uc.profiles.Prefetch(ctx, others)
	return mine, nil
}

// fetchMessages loads a chat oldest first. Opening a chat marks it read and
// marks the other side's messages seen.
func (uc *ChatUseCase) fetchMessages(ctx context.Context, s *Session, chatID string) ([]entity.ChatMessage, error) {
	if err := uc.checkStoredParticipant(ctx, s.UserID, chatID); err != nil {
		return nil, err
	}

	messages, err := uc.chatRepo.GetMessages(ctx, chatID)
	if err != nil {
		return nil, errors.Unavailable("Failed to fetch messages", err)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	if err := uc.chatRepo.MarkChatAsRead(ctx, chatID, s.UserID); err != nil {
		logger.Warn("Failed to mark chat %s read for %s: %v", chatID, s.UserID, err)
	}
	if err := uc.chatRepo.MarkMessagesAsSeen(ctx, chatID, s.UserID); err != nil {
		logger.Warn("Failed to mark messages of %s seen for %s: %v", chatID, s.UserID, err)
	}

	if v, ok := peekView[[]entity.ChatSummary](s, cache.SliceChatSummaries); ok {
		v.Mutate(ctx, func(chats []entity.ChatSummary) []entity.ChatSummary {
			return markSummaryRead(chats, chatID, s.UserID)
		})
	}
	return nonNil(messages), nil
}

// Chats mounts the chat list.
func (uc *ChatUseCase) Chats(ctx context.Context, userID string, wait bool) (Snapshot[[]entity.ChatSummary], error) {
	return mountView(ctx, uc.summariesView(uc.sessions.Get(userID)), wait)
}

// Messages mounts one conversation. Access is decided from the chat id, so
// the cached messages show even when the chat store is unreachable. The chat
// may not exist yet when the user opens a conversation before its first
// message.
func (uc *ChatUseCase) Messages(ctx context.Context, userID, chatID string, wait bool) (Snapshot[[]entity.ChatMessage], error) {
	if !entity.IsConversationMember(chatID, userID) {
		return Snapshot[[]entity.ChatMessage]{}, errors.Forbidden("You are not a participant in this chat", nil)
	}
	return mountView(ctx, uc.messagesView(uc.sessions.Get(userID), chatID), wait)
}

// Send delivers a message from senderID to receiverID in their shared
// conversation, creating the chat on first contact.
func (uc *ChatUseCase) Send(ctx context.Context, senderID, receiverID string, input SendMessageInput) (*MessageResponse, error) {
	if allowed, wait := uc.throttle.Allow(senderID, ratelimit.ActionSendMessage); !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", wait)
	}
	if senderID == receiverID {
		return nil, errors.BadRequest("You cannot send a message to yourself", nil)
	}
	if !entity.ValidParticipantID(senderID) || !entity.ValidParticipantID(receiverID) {
		return nil, errors.BadRequest("Invalid user id", nil)
	}
	text := strings.TrimSpace(input.Text)
	if text == "" && input.ImageURL == nil && input.AttachedItemID == nil {
		return nil, errors.BadRequest("Message is empty", nil)
	}

	chatID := entity.ConversationID(senderID, receiverID)
	message := &entity.ChatMessage{
		ID:        uuid.New().String(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now().UTC(),
		ImageURL:  input.ImageURL,
	}
	if input.AttachedItemID != nil {
		if err := uc.attachListing(ctx, message, *input.AttachedItemID); err != nil {
			return nil, err
		}
	}

	if err := uc.chatRepo.SendMessage(ctx, chatID, receiverID, message); err != nil {
		logger.Error("SendMessage failed: chat=%s sender=%s: %v", chatID, senderID, err)
		return nil, errors.Unavailable("Failed to send message", err)
	}

	sender := uc.sessions.Get(senderID)
	if v, ok := peekView[[]entity.ChatMessage](sender, cache.MessagesSlice(chatID)); ok {
		v.Update(ctx, func(messages []entity.ChatMessage) []entity.ChatMessage {
			next := make([]entity.ChatMessage, 0, len(messages)+1)
			next = append(next, messages...)
			return append(next, *message)
		})
	}
	uc.summariesView(sender).Signal()
	if receiver, ok := uc.sessions.Peek(receiverID); ok {
		uc.summariesView(receiver).Signal()
		uc.messagesView(receiver, chatID).Signal()
	}

	uc.pusher.SendEvent(receiverID, ws.Event{
		Type:   ws.EventChatMessage,
		ChatID: chatID,
		Data:   message,
	})

	return &MessageResponse{ChatID: chatID, Message: message}, nil
}

func (uc *ChatUseCase) attachListing(ctx context.Context, message *entity.ChatMessage, listingID string) error {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	title := listing.Title
	price := strconv.FormatFloat(listing.Price, 'f', 2, 64)
	message.AttachedItemID = &listing.ID
	message.AttachedItemTitle = &title
	message.AttachedItemPrice = &price
	if cover := listing.CoverImage(); cover != "" {
		message.AttachedItemImage = &cover
	}
	return nil
}

// Delete removes the conversation for both participants and forgets its
// cached messages.
func (uc *ChatUseCase) Delete(ctx context.Context, userID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant in this chat", nil)
	}

	if err := uc.chatRepo.Delete(ctx, chatID); err != nil {
		return errors.Internal("Failed to delete chat", err)
	}

	s := uc.sessions.Get(userID)
	uc.summariesView(s).Update(ctx, func(chats []entity.ChatSummary) []entity.ChatSummary {
		return removeSummary(chats, chatID)
	})
	s.Cache().DropMessages(ctx, chatID)
	s.dropView(cache.MessagesSlice(chatID))

	other := chat.OtherParticipant(userID)
	if other != "" {
		if peer, ok := uc.sessions.Peek(other); ok {
			uc.summariesView(peer).Signal()
		}
		uc.pusher.SendEvent(other, ws.Event{Type: ws.EventChatDeleted, ChatID: chatID})
	}
	return nil
}

// UnreadCount is the number of the user's chats with unread messages.
func (uc *ChatUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	chats, err := uc.chatRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return 0, errors.Unavailable("Failed to count unread chats", err)
	}
	return countUnread(chats, userID), nil
}

// WatchUnread calls fn with the unread chat count on every change until ctx
// is done.
func (uc *ChatUseCase) WatchUnread(ctx context.Context, userID string, fn func(int)) error {
	return uc.chatRepo.WatchChats(ctx, userID, func(chats []entity.ChatSummary) {
		fn(countUnread(chats, userID))
	})
}

// checkStoredParticipant rejects a stored chat whose participants do not
// include userID. A chat that does not exist yet passes.
func (uc *ChatUseCase) checkStoredParticipant(ctx context.Context, userID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	switch {
	case err == nil:
		if !chat.HasParticipant(userID) {
			return errors.Forbidden("You are not a participant in this chat", nil)
		}
		return nil
	case errors.Is(err, "NOT_FOUND"):
		return nil
	default:
		return errors.Unavailable("Failed to load chat", err)
	}
}

func countUnread(chats []entity.ChatSummary, userID string) int {
	n := 0
	for _, c := range chats {
		if c.IsUnreadFor(userID) {
			n++
		}
	}
	return n
}

func markSummaryRead(chats []entity.ChatSummary, chatID, userID string) []entity.ChatSummary {
	next := make([]entity.ChatSummary, len(chats))
	copy(next, chats)
	for i := range next {
		if next[i].ChatID != chatID || !next[i].IsUnreadFor(userID) {
			continue
		}
		unread := make(map[string]bool, len(next[i].Unread))
		for k, v := range next[i].Unread {
			unread[k] = v
		}
		unread[userID] = false
		next[i].Unread = unread
	}
	return next
}

func removeSummary(chats []entity.ChatSummary, chatID string) []entity.ChatSummary {
	kept := make([]entity.ChatSummary, 0, len(chats))
	for _, c := range chats {
		if c.ChatID != chatID {
			kept = append(kept, c)
		}
	}
	return kept
}
