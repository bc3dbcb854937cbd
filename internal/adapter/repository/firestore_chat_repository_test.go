package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain/entity"
	"locallink/pkg/errors"
)

// newEmulatorClient connects to the Firestore emulator, skipping the test
// when none is running.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "demo-locallink")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestFirestoreChatLifecycle(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewFirestoreChatRepository(client)
	ctx := context.Background()

	alice, bob := "alice-"+uuid.NewString(), "bob-"+uuid.NewString()
	chatID := entity.ConversationID(alice, bob)
	img := "https://img.example/1.jpg"
	at := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.SendMessage(ctx, chatID, bob, &entity.ChatMessage{
		ID: "m1", SenderID: alice, Text: "hi", Timestamp: at,
	}))
	require.NoError(t, repo.SendMessage(ctx, chatID, alice, &entity.ChatMessage{
		ID: "m2", SenderID: bob, ImageURL: &img, Timestamp: at.Add(time.Second),
	}))

	chat, err := repo.GetByID(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, chatID, chat.ChatID)
	assert.Equal(t, entity.ImageMessagePreview, chat.LastMessage)
	assert.True(t, chat.HasParticipant(alice))
	assert.True(t, chat.HasParticipant(bob))
	assert.True(t, chat.IsUnreadFor(alice))
	assert.True(t, chat.IsUnreadFor(bob))

	chats, err := repo.ListByParticipant(ctx, alice)
	require.NoError(t, err)
	require.Len(t, chats, 1)

	require.NoError(t, repo.MarkChatAsRead(ctx, chatID, alice))
	require.NoError(t, repo.MarkMessagesAsSeen(ctx, chatID, alice))

	messages, err := repo.GetMessages(ctx, chatID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.False(t, messages[0].Seen)
	assert.True(t, messages[1].Seen)

	chat, err = repo.GetByID(ctx, chatID)
	require.NoError(t, err)
	assert.False(t, chat.IsUnreadFor(alice))

	require.NoError(t, repo.Delete(ctx, chatID))
	_, err = repo.GetByID(ctx, chatID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	messages, err = repo.GetMessages(ctx, chatID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFirestoreMarkReadOnMissingChat(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewFirestoreChatRepository(client)

	assert.NoError(t, repo.MarkChatAsRead(context.Background(), "nobody_"+uuid.NewString(), "nobody"))
}

func TestFirestoreWatchChatsStopsWithContext(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewFirestoreChatRepository(client)
	user := "watcher-" + uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	updates := make(chan []entity.ChatSummary, 4)
	done := make(chan error, 1)
	go func() {
		done <- repo.WatchChats(ctx, user, func(c []entity.ChatSummary) { updates <- c })
	}()

	assert.Empty(t, <-updates)
	require.NoError(t, repo.SendMessage(context.Background(), entity.ConversationID(user, "peer"), user,
		&entity.ChatMessage{ID: "m1", SenderID: "peer", Text: "hey", Timestamp: time.Now()}))

	select {
	case chats := <-updates:
		require.Len(t, chats, 1)
		assert.True(t, chats[0].IsUnreadFor(user))
	case <-time.After(5 * time.Second):
		t.Fatal("no update received")
	}

	cancel()
	assert.NoError(t, <-done)
}
