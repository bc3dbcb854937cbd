package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/cache"
	"locallink/internal/domain/entity"
)

func TestMountShowsCacheThenNetwork(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveFavorites(f.ctx, []entity.FavoriteItem{{ID: "a", Title: "Lamp"}})
	f.favoriteRepo.items["u1"] = []entity.FavoriteItem{{ID: "a"}, {ID: "b"}}
	g := newGate()
	f.favoriteRepo.gate = g

	v := f.favorites.view(f.sessions.Get("u1"))
	snap, done := v.Mount(f.ctx)

	assert.Equal(t, SourceCache, snap.Source)
	assert.True(t, snap.Refreshing)
	assert.Equal(t, []string{"a"}, favoriteIDs(snap.Data))

	g.release()
	require.NoError(t, <-done)

	after := v.Snapshot(f.ctx)
	assert.Equal(t, SourceNetwork, after.Source)
	assert.False(t, after.Refreshing)
	assert.Equal(t, []string{"a", "b"}, favoriteIDs(after.Data))
	assert.Equal(t, []string{"a", "b"}, favoriteIDs(f.userCache("u1").LoadFavorites(f.ctx)))
}

func TestFailedRefreshKeepsStateAndCache(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveFavorites(f.ctx, []entity.FavoriteItem{{ID: "a"}})
	f.favoriteRepo.err = fmt.Errorf("network down")

	v := f.favorites.view(f.sessions.Get("u1"))
	_, done := v.Mount(f.ctx)

	assert.Error(t, <-done)
	snap := v.Snapshot(f.ctx)
	assert.Equal(t, SourceCache, snap.Source)
	assert.Equal(t, []string{"a"}, favoriteIDs(snap.Data))
	assert.Equal(t, []string{"a"}, favoriteIDs(f.userCache("u1").LoadFavorites(f.ctx)))
}

func TestFreshHomeCacheSkipsNetwork(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveHomeListings(f.ctx, []entity.Listing{listing("p1", "u2", "Bike")})

	snap, done := f.listings.homeView(f.sessions.Get("u1")).Mount(f.ctx)

	_, fetched := <-done
	assert.False(t, fetched)
	assert.False(t, snap.Stale)
	assert.False(t, snap.Refreshing)
	assert.Equal(t, []string{"p1"}, listingIDs(snap.Data))
	assert.Equal(t, 0, f.listingRepo.Calls())
}

func TestExpiredHomeCacheIsShownThenReplaced(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveHomeListings(f.ctx, []entity.Listing{listing("p1", "u2", "Bike")})
	f.clock.Advance(6 * time.Minute)
	f.listingRepo.Create(f.ctx, &entity.Listing{ID: "p2", OwnerID: "u3", Type: entity.ListingTypeSell})

	v := f.listings.homeView(f.sessions.Get("u1"))
	snap, done := v.Mount(f.ctx)

	assert.True(t, snap.Stale)
	assert.Equal(t, []string{"p1"}, listingIDs(snap.Data))

	require.NoError(t, <-done)
	assert.Equal(t, []string{"p2"}, listingIDs(v.State(f.ctx)))
	assert.False(t, f.userCache("u1").IsExpired(f.ctx, cache.SliceHomeListings))
}

func TestEmptyHomeFetchesEvenWhenFresh(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveHomeListings(f.ctx, []entity.Listing{})
	f.listingRepo.Create(f.ctx, &entity.Listing{ID: "p1", Type: entity.ListingTypeSell})

	snap, done := f.listings.homeView(f.sessions.Get("u1")).Mount(f.ctx)

	assert.Equal(t, SourceEmpty, snap.Source)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.listingRepo.Calls())
}

func TestSignalForcesExactlyOneRefresh(t *testing.T) {
	f := newFixture(t)
	bike := listing("p1", "u2", "Bike")
	f.userCache("u1").SaveHomeListings(f.ctx, []entity.Listing{bike})
	f.listingRepo.Create(f.ctx, &bike)
	v := f.listings.homeView(f.sessions.Get("u1"))

	v.Signal()
	assert.True(t, v.Pending())

	_, done := v.Mount(f.ctx)
	require.NoError(t, <-done)
	assert.False(t, v.Pending())
	assert.Equal(t, 1, f.listingRepo.Calls())

	_, done = v.Mount(f.ctx)
	_, fetched := <-done
	assert.False(t, fetched)
	assert.Equal(t, 1, f.listingRepo.Calls())
}

func TestEmptyNetworkResultReplacesState(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveMyListings(f.ctx, []entity.Listing{listing("p1", "u1", "Old")})

	v := f.listings.mineView(f.sessions.Get("u1"))
	_, done := v.Mount(f.ctx)
	require.NoError(t, <-done)

	assert.Empty(t, v.State(f.ctx))
	assert.NotNil(t, v.State(f.ctx))
	assert.Empty(t, f.userCache("u1").LoadMyListings(f.ctx))
}

func TestClosingSessionCancelsFetch(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveFavorites(f.ctx, []entity.FavoriteItem{{ID: "a"}})
	f.favoriteRepo.gate = newGate()

	s := f.sessions.Get("u1")
	v := f.favorites.view(s)
	_, done := v.Mount(f.ctx)

	s.Close()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, []string{"a"}, favoriteIDs(v.State(f.ctx)))

	_, done = v.Mount(f.ctx)
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestMountsRacingCloseNeverOutliveSession(t *testing.T) {
	f := newFixture(t)
	f.favoriteRepo.items["u1"] = []entity.FavoriteItem{{ID: "a"}}
	s := f.sessions.Get("u1")
	v := f.favorites.view(s)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				v.Signal()
				_, done := v.Mount(f.ctx)
				<-done
			}
		}()
	}
	s.Close()
	wg.Wait()

	assert.False(t, s.begin())
	v.Signal()
	_, done := v.Mount(f.ctx)
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestUpdateWritesThrough(t *testing.T) {
	f := newFixture(t)
	v := f.listings.mineView(f.sessions.Get("u1"))

	v.Set(f.ctx, []entity.Listing{listing("p1", "u1", "Desk")})

	assert.Equal(t, SourceCache, v.Snapshot(f.ctx).Source)
	assert.Equal(t, []string{"p1"}, listingIDs(f.userCache("u1").LoadMyListings(f.ctx)))
}

func TestMutateDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	v := f.favorites.view(f.sessions.Get("u1"))

	v.Mutate(f.ctx, func([]entity.FavoriteItem) []entity.FavoriteItem {
		return []entity.FavoriteItem{{ID: "x"}}
	})

	assert.Equal(t, []string{"x"}, favoriteIDs(v.State(f.ctx)))
	assert.Empty(t, f.userCache("u1").LoadFavorites(f.ctx))
}

func TestMountWithWaitReturnsFetchedState(t *testing.T) {
	f := newFixture(t)
	f.favoriteRepo.items["u1"] = []entity.FavoriteItem{{ID: "a"}}

	snap, err := f.favorites.List(f.ctx, "u1", true)

	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, snap.Source)
	assert.Equal(t, []string{"a"}, favoriteIDs(snap.Data))
}

func TestMountWithWaitSurfacesFailure(t *testing.T) {
	f := newFixture(t)
	f.favoriteRepo.err = fmt.Errorf("timeout")

	snap, err := f.favorites.List(f.ctx, "u1", true)

	assert.Error(t, err)
	assert.Equal(t, SourceEmpty, snap.Source)
	assert.Empty(t, snap.Data)
}

func TestSessionManagerEvictsLeastRecentlyUsed(t *testing.T) {
	f := newFixture(t)
	m := NewSessionManager(f.store, 2)
	defer m.Close()

	first := m.Get("u1")
	m.Get("u2")
	m.Get("u1")
	m.Get("u3")

	assert.Equal(t, 2, m.Len())
	_, ok := m.Peek("u2")
	assert.False(t, ok)
	assert.Same(t, first, m.Get("u1"))
}

func TestEvictedSessionIsClosed(t *testing.T) {
	f := newFixture(t)
	m := NewSessionManager(f.store, 1)
	defer m.Close()

	evicted := m.Get("u1")
	m.Get("u2")

	select {
	case <-evicted.Done():
	case <-time.After(time.Second):
		t.Fatal("evicted session was not closed")
	}
}

func TestSessionsAreScopedToTheirUser(t *testing.T) {
	f := newFixture(t)
	f.userCache("u1").SaveFavorites(f.ctx, []entity.FavoriteItem{{ID: "a"}})

	assert.Equal(t, "u1", f.sessions.Get("u1").Cache().Namespace())
	assert.Empty(t, f.favorites.view(f.sessions.Get("u2")).State(f.ctx))
	assert.Len(t, f.favorites.view(f.sessions.Get("u1")).State(f.ctx), 1)
}
