package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain/entity"
	ws "locallink/internal/infrastructure/websocket"
	"locallink/pkg/errors"
)

func TestToggleAddsAndNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	bike := listing("p1", "owner", "Road bike")
	f.listingRepo.Create(f.ctx, &bike)

	res, err := f.favorites.Toggle(f.ctx, "u1", "p1")

	require.NoError(t, err)
	assert.True(t, res.IsFavorite)
	assert.True(t, f.favorites.IsFavorite(f.ctx, "u1", "p1"))

	items := f.favorites.view(f.sessions.Get("u1")).State(f.ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "Road bike", items[0].Title)
	assert.Equal(t, "p1.jpg", items[0].ImageURL)

	require.Len(t, f.notificationRepo.items, 1)
	n := f.notificationRepo.items[0]
	assert.Equal(t, "owner", n.UserID)
	assert.Equal(t, "New Like", n.Title)
	assert.Equal(t, "Someone liked your item: Road bike", n.Message)
	assert.Equal(t, entity.NotificationTypeAlert, n.Type)
	assert.Equal(t, "p1", *n.RelatedItemID)

	events := f.pusher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "owner", events[0].userID)
	assert.Equal(t, ws.EventNotification, events[0].event.Type)
}

func TestLikingOwnListingSendsNoNotification(t *testing.T) {
	f := newFixture(t)
	bike := listing("p1", "u1", "Road bike")
	f.listingRepo.Create(f.ctx, &bike)

	_, err := f.favorites.Toggle(f.ctx, "u1", "p1")

	require.NoError(t, err)
	assert.Empty(t, f.notificationRepo.items)
}

func TestToggleRemoves(t *testing.T) {
	f := newFixture(t)
	f.favoriteRepo.items["u1"] = []entity.FavoriteItem{{ID: "p1"}, {ID: "p2"}}
	_, err := f.favorites.List(f.ctx, "u1", true)
	require.NoError(t, err)

	res, err := f.favorites.Toggle(f.ctx, "u1", "p1")

	require.NoError(t, err)
	assert.False(t, res.IsFavorite)
	assert.False(t, f.favorites.IsFavorite(f.ctx, "u1", "p1"))
	assert.Equal(t, []string{"p2"}, favoriteIDs(f.favoriteRepo.items["u1"]))
}

func TestFailedToggleKeepsOptimisticState(t *testing.T) {
	f := newFixture(t)
	bike := listing("p1", "owner", "Road bike")
	f.listingRepo.Create(f.ctx, &bike)
	f.favoriteRepo.writeErr = fmt.Errorf("network down")

	res, err := f.favorites.Toggle(f.ctx, "u1", "p1")

	assert.True(t, errors.Is(err, "UPSTREAM_UNAVAILABLE"))
	assert.True(t, res.IsFavorite)
	assert.True(t, f.favorites.IsFavorite(f.ctx, "u1", "p1"))
	assert.Empty(t, f.userCache("u1").LoadFavorites(f.ctx))
	assert.Empty(t, f.notificationRepo.items)
}

func TestFailedRemoveKeepsOptimisticState(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveFavorites(f.ctx, []entity.FavoriteItem{{ID: "p1"}})
	f.favoriteRepo.writeErr = fmt.Errorf("network down")

	_, err := f.favorites.Toggle(f.ctx, "u1", "p1")

	assert.Error(t, err)
	assert.False(t, f.favorites.IsFavorite(f.ctx, "u1", "p1"))
	assert.Equal(t, []string{"p1"}, favoriteIDs(f.userCache("u1").LoadFavorites(f.ctx)))
}

func TestToggleUnknownListing(t *testing.T) {
	f := newFixture(t)

	res, err := f.favorites.Toggle(f.ctx, "u1", "missing")

	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.False(t, res.IsFavorite)
	assert.False(t, f.favorites.IsFavorite(f.ctx, "u1", "missing"))
}

func TestIsFavoriteReadsCachedSliceOnColdStart(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveFavorites(f.ctx, []entity.FavoriteItem{{ID: "p9"}})

	assert.True(t, f.favorites.IsFavorite(f.ctx, "u1", "p9"))
	assert.Equal(t, 0, f.favoriteRepo.Calls())
}
