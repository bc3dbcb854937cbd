package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"locallink/internal/domain/entity"
	"locallink/internal/domain/repository"
	"locallink/pkg/errors"
	"locallink/pkg/logger"
)

const (
	chatsCollection    = "chats"
	messagesCollection = "messages"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) chat(chatID string) *firestore.DocumentRef {
	return r.client.Collection(chatsCollection).Doc(chatID)
}

func (r *firestoreChatRepository) participantQuery(userID string) firestore.Query {
	return r.client.Collection(chatsCollection).
		WherePath(firestore.FieldPath{"participants", userID}, "==", true)
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, chatID string) (*entity.ChatSummary, error) {
	doc, err := r.chat(chatID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	chat, err := decodeChat(doc)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *firestoreChatRepository) ListByParticipant(ctx context.Context, userID string) ([]entity.ChatSummary, error) {
	return collectChats(r.participantQuery(userID).Documents(ctx))
}

func collectChats(iter *firestore.DocumentIterator) ([]entity.ChatSummary, error) {
	defer iter.Stop()

	chats := []entity.ChatSummary{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate chats", err)
		}

		chat, err := decodeChat(doc)
		if err != nil {
			logger.Warn("Skipping malformed chat %s: %v", doc.Ref.ID, err)
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func decodeChat(doc *firestore.DocumentSnapshot) (entity.ChatSummary, error) {
	var chat entity.ChatSummary
	if err := doc.DataTo(&chat); err != nil {
		return entity.ChatSummary{}, errors.Internal("Failed to parse chat data", err)
	}
	chat.ChatID = doc.Ref.ID
	return chat, nil
}

// Delete removes the chat's messages, then the chat itself.
func (r *firestoreChatRepository) Delete(ctx context.Context, chatID string) error {
	ref := r.chat(chatID)
	iter := ref.Collection(messagesCollection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate messages", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Internal("Failed to delete message", err)
		}
	}

	if _, err := ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete chat", err)
	}
	return nil
}

// SendMessage writes the message, then merges the summary fields into the
// chat document so existing participants and unread flags are kept.
func (r *firestoreChatRepository) SendMessage(ctx context.Context, chatID, receiverID string, message *entity.ChatMessage) error {
	ref := r.chat(chatID)

	if _, err := ref.Collection(messagesCollection).Doc(message.ID).Set(ctx, message); err != nil {
		return errors.Internal("Failed to create message", err)
	}

	_, err := ref.Set(ctx, map[string]interface{}{
		"lastMessage": message.Preview(),
		"timestamp":   message.Timestamp,
		"participants": map[string]interface{}{
			message.SenderID: true,
			receiverID:       true,
		},
		"unread": map[string]interface{}{
			receiverID: true,
		},
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) GetMessages(ctx context.Context, chatID string) ([]entity.ChatMessage, error) {
	iter := r.chat(chatID).Collection(messagesCollection).
		OrderBy("timestamp", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	messages := []entity.ChatMessage{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var m entity.ChatMessage
		if err := doc.DataTo(&m); err != nil {
			logger.Warn("Skipping malformed message %s in chat %s: %v", doc.Ref.ID, chatID, err)
			continue
		}
		if m.ID == "" {
			m.ID = doc.Ref.ID
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// MarkChatAsRead clears the user's unread flag. A chat that does not exist
// yet has nothing to clear.
func (r *firestoreChatRepository) MarkChatAsRead(ctx context.Context, chatID, userID string) error {
	_, err := r.chat(chatID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unread", userID}, Value: false},
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return errors.Internal("Failed to mark chat as read", err)
	}
	return nil
}

// MarkMessagesAsSeen flags every unseen message not sent by readerID.
func (r *firestoreChatRepository) MarkMessagesAsSeen(ctx context.Context, chatID, readerID string) error {
	iter := r.chat(chatID).Collection(messagesCollection).
		Where("seen", "==", false).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errors.Internal("Failed to iterate messages", err)
		}

		sender, _ := doc.DataAt("senderId")
		if sender == readerID {
			continue
		}
		if _, err := doc.Ref.Update(ctx, []firestore.Update{{Path: "seen", Value: true}}); err != nil {
			return errors.Internal("Failed to mark message as seen", err)
		}
	}
}

// WatchChats streams the user's chats until ctx is done.
func (r *firestoreChatRepository) WatchChats(ctx context.Context, userID string, fn func([]entity.ChatSummary)) error {
	snapshots := r.participantQuery(userID).Snapshots(ctx)
	defer snapshots.Stop()

	for {
		snap, err := snapshots.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled || err == iterator.Done {
				return nil
			}
			return errors.Internal("Chat subscription failed", err)
		}

		chats, err := collectChats(snap.Documents)
		if err != nil {
			return err
		}
		fn(chats)
	}
}
