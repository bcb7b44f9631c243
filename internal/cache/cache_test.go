package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, prefix string) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_ReadWriteRemove(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t, "tmp:")

	_, ok, err := c.Read(ctx, "user")
	require.NoError(t, err)
	assert.False(t, ok, "miss is not an error")

	require.NoError(t, c.Write(ctx, "user", `{"id":"1"}`))
	v, ok, err := c.Read(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, v)

	require.NoError(t, c.Write(ctx, "user", ""))
	v, ok, err = c.Read(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok, "empty value is still present")
	assert.Empty(t, v)

	require.NoError(t, c.Remove(ctx, "user"))
	require.NoError(t, c.Remove(ctx, "user"), "removing an absent key is a no-op")

	_, ok, err = c.Read(ctx, "user")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_KeyPrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t, "tmp:")
	other := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "other:")
	t.Cleanup(func() { _ = other.Close() })

	require.NoError(t, c.Write(ctx, "users", `{}`))

	got, err := mr.Get("tmp:users")
	require.NoError(t, err)
	assert.Equal(t, `{}`, got)
	assert.False(t, mr.Exists("users"), "unprefixed key is never written")

	_, ok, err := other.Read(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok, "prefixes do not see each other")

	require.NoError(t, other.Remove(ctx, "users"))
	assert.True(t, mr.Exists("tmp:users"), "remove stays inside its prefix")
}

func TestClient_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t, "tmp:")
	require.NoError(t, c.Ping(ctx))

	mr.Close()

	assert.Error(t, c.Ping(ctx))
	_, ok, err := c.Read(ctx, "user")
	assert.Error(t, err, "connection failure is not reported as a miss")
	assert.False(t, ok)
	assert.Error(t, c.Write(ctx, "user", "x"))
	assert.Error(t, c.Remove(ctx, "user"))
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0, "tmp:")
	defer c.Close()

	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Write(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("tmp:k"))
}
