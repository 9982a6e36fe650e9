package redis

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type cachedItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), Options{Addr: addr, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
}

func TestViewCache_SetGetDelete(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()
	cache := NewViewCache[cachedItem](client.Client, "item:", time.Minute, quietLogger())

	_, ok := cache.Get(ctx, "1")
	require.False(t, ok)

	cache.Set(ctx, "1", &cachedItem{Name: "one", Count: 1})
	require.True(t, mr.Exists("item:1"))
	require.Equal(t, time.Minute, mr.TTL("item:1"))

	got, ok := cache.Get(ctx, "1")
	require.True(t, ok)
	require.Equal(t, cachedItem{Name: "one", Count: 1}, *got)

	cache.Delete(ctx, "1")
	require.False(t, mr.Exists("item:1"))
	_, ok = cache.Get(ctx, "1")
	require.False(t, ok)
}

func TestViewCache_Expiry(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()
	cache := NewViewCache[cachedItem](client.Client, "item:", time.Minute, quietLogger())

	cache.Set(ctx, "1", &cachedItem{Name: "one"})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "1")
	require.False(t, ok)
}

func TestViewCache_NoTTL(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewViewCache[cachedItem](client.Client, "item:", 0, quietLogger())

	cache.Set(context.Background(), "1", &cachedItem{Name: "one"})
	require.Zero(t, mr.TTL("item:1"))
}

func TestViewCache_CorruptEntryIsAMiss(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewViewCache[cachedItem](client.Client, "item:", time.Minute, quietLogger())

	require.NoError(t, mr.Set("item:1", "{not json"))

	_, ok := cache.Get(context.Background(), "1")
	require.False(t, ok)
}

func TestViewCache_RedisDownIsAMiss(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewViewCache[cachedItem](client.Client, "item:", time.Minute, quietLogger())
	mr.Close()

	ctx := context.Background()
	cache.Set(ctx, "1", &cachedItem{Name: "one"})
	_, ok := cache.Get(ctx, "1")
	require.False(t, ok)
	cache.Delete(ctx, "1")
}
