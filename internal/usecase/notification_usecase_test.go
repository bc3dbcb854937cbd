package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain/entity"
	"locallink/pkg/errors"
)

func TestCreateNotificationFillsDefaults(t *testing.T) {
	f := newFixture(t)
	n := &entity.Notification{UserID: "u1", Title: "Hi", Message: "Welcome"}

	require.NoError(t, f.notifications.Create(f.ctx, n))

	assert.Equal(t, entity.NotificationTypeAlert, n.Type)
	assert.False(t, n.CreatedAt.IsZero())
	assert.NotZero(t, n.ID)
	assert.Len(t, f.pusher.Events(), 1)
}

func TestCreateNotificationNeedsRecipient(t *testing.T) {
	f := newFixture(t)

	err := f.notifications.Create(f.ctx, &entity.Notification{Title: "Hi"})

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Empty(t, f.pusher.Events())
}

func TestListAndMarkNotifications(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, f.notifications.Create(f.ctx, &entity.Notification{UserID: "u1", Title: title}))
	}
	require.NoError(t, f.notifications.Create(f.ctx, &entity.Notification{UserID: "u2", Title: "other"}))

	page, total, err := f.notifications.List(f.ctx, "u1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Title)

	require.NoError(t, f.notifications.MarkAsRead(f.ctx, "u1", page[0].ID))
	unread, err := f.notifications.UnreadCount(f.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	err = f.notifications.MarkAsRead(f.ctx, "u2", page[1].ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestEmptyNotificationPageIsNotNil(t *testing.T) {
	f := newFixture(t)

	page, total, err := f.notifications.List(f.ctx, "u1", 20, 0)

	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Zero(t, total)
}
