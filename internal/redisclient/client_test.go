package redisclient

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientState(t *testing.T) {
	t.Skip("Integration test - requires redis")

	c, err := NewClient("localhost:6379", "", 15, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := storage.SessionKey("test-session", storage.KeyWishlist)

	_, err = c.Load(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, c.Save(ctx, key, []byte(`[]`)))
	val, err := c.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(val))

	require.NoError(t, c.Delete(ctx, key))
}

func TestActivityCounters(t *testing.T) {
	t.Skip("Integration test - requires redis")

	c, err := NewClient("localhost:6379", "", 15, 0)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.GetClient().Del(ctx, activityKey).Err())

	require.NoError(t, c.IncrActivity(ctx, "CART_ITEM_ADDED", 1))
	require.NoError(t, c.IncrActivity(ctx, "CART_ITEM_ADDED", 2))

	counts, err := c.Activity(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts["CART_ITEM_ADDED"])

	first, err := c.MarkEventProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	again, err := c.MarkEventProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, again)
}
