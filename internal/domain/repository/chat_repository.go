package repository

import (
	"context"

	"locallink/internal/domain/entity"
)

type ChatRepository interface {
	GetByID(ctx context.Context, chatID string) (*entity.ChatSummary, error)
	ListByParticipant(ctx context.Context, userID string) ([]entity.ChatSummary, error)
	Delete(ctx context.Context, chatID string) error

	// SendMessage stores the message and updates the summary fields of the
	// chat, creating the chat document when needed.
	SendMessage(ctx context.Context, chatID, receiverID string, message *entity.ChatMessage) error
	GetMessages(ctx context.Context, chatID string) ([]entity.ChatMessage, error)
	MarkChatAsRead(ctx context.Context, chatID, userID string) error
	MarkMessagesAsSeen(ctx context.Context, chatID, readerID string) error

	// WatchChats calls fn with the user's chats on every change until ctx is
	// done or the subscription fails.
	WatchChats(ctx context.Context, userID string, fn func([]entity.ChatSummary)) error
}
