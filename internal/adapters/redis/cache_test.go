package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	redisad "review_demand/internal/adapters/redis"
	"review_demand/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_RoundTripWithTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	require.NoError(t, c.Ping(ctx))

	in := []domain.Review{{PlaceID: "p1", PlaceName: "Stadtpark", Rating: 2, Text: "Keine Bänke"}}
	require.NoError(t, c.Set(ctx, "reviews:p1", in, 60))

	var out []domain.Review
	ok, err := c.Get(ctx, "reviews:p1", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in, out)

	mr.FastForward(61 * time.Second)
	ok, err = c.Get(ctx, "reviews:p1", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_MissAndDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	var out map[string]any
	ok, err := c.Get(ctx, "nope", &out)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", map[string]any{"a": 1}, 60))
	require.NoError(t, c.Del(ctx, "k"))
	ok, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var out []domain.Review
	ok, err := c.Get(ctx, "bad", &out)
	require.Error(t, err)
	require.False(t, ok)
}
