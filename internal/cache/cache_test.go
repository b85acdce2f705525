package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheExpiry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New(ctx, true)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	etag := c.Set("players", []byte(`[]`), time.Minute)
	data, got, ok := c.Get("players")
	require.True(t, ok)
	require.Equal(t, etag, got)
	require.Equal(t, `[]`, string(data))

	now = now.Add(2 * time.Minute)
	_, _, ok = c.Get("players")
	require.False(t, ok)
	require.Equal(t, 1, c.Stats()["expired_keys"])

	c.evict()
	require.Equal(t, 0, c.Stats()["total_keys"])
}

func TestDisabledCache(t *testing.T) {
	c := New(context.Background(), false)
	etag := c.Set("k", []byte("v"), time.Hour)
	require.Equal(t, ComputeETag([]byte("v")), etag)
	_, _, ok := c.Get("k")
	require.False(t, ok)
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("body"))
	require.True(t, CheckETagMatch(etag, etag))
	require.True(t, CheckETagMatch("*", etag))
	require.True(t, CheckETagMatch(`W/"other", `+etag, etag))
	require.False(t, CheckETagMatch("", etag))
	require.False(t, CheckETagMatch(`W/"other"`, etag))
}
