package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client), mr
}

func TestRedisSaveExistsDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedis(t)

	require.NoError(t, store.Save(ctx, "jti-1", "emp-1", time.Hour))

	got, err := mr.Get("auth:session:jti-1")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", got)

	ok, err := store.Exists(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "jti-1"))
	ok, err = store.Exists(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSessionExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedis(t)

	require.NoError(t, store.Save(ctx, "jti-2", "emp-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := store.Exists(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRejectsEmptyID(t *testing.T) {
	store, _ := newTestRedis(t)
	assert.ErrorIs(t, store.Save(context.Background(), "", "emp-1", time.Minute), ErrEmptyID)
}

func TestMemorySessionExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	store := NewMemory()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "jti", "emp", time.Minute))
	ok, err := store.Exists(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, err = store.Exists(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, ok)
}
