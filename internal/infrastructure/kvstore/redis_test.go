package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	b, err := NewRedisBackend(ctx, mr.Addr())
	require.NoError(t, err)
	defer b.Close()

	_, ok, err := b.Get(ctx, "u1:cached_favorites")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "u1:cached_favorites", `{"items":[]}`))
	v, ok, err := b.Get(ctx, "u1:cached_favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"items":[]}`, v)
	assert.Zero(t, mr.TTL("u1:cached_favorites"))

	require.NoError(t, b.Delete(ctx, "u1:cached_favorites"))
	assert.False(t, mr.Exists("u1:cached_favorites"))
}

func TestRedisBackendUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisBackend(context.Background(), addr)
	assert.Error(t, err)
}

func TestRedisBackendErrorsAreSwallowedByStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	b, err := NewRedisBackend(ctx, mr.Addr())
	require.NoError(t, err)
	defer b.Close()
	s := New(b)

	s.Write(ctx, "k", "v")
	mr.SetError("LOADING")

	_, ok := s.Read(ctx, "k")
	assert.False(t, ok)
	assert.NotPanics(t, func() { s.Write(ctx, "k", "v2") })
}
