package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Load(ctx, "cart")
	assert.True(t, errors.Is(err, ErrNotFound))

	value := []byte(`[{"id":"1"}]`)
	require.NoError(t, m.Save(ctx, "cart", value))

	value[0] = 'x'
	got, err := m.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, m.Delete(ctx, "cart"))
	_, err = m.Load(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScopedKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := Scope(m, "a")
	b := Scope(m, "b")

	require.NoError(t, a.Save(ctx, KeyCart, []byte("a-cart")))
	require.NoError(t, a.Save(ctx, KeyWishlist, []byte("a-wish")))

	_, err := b.Load(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := m.Load(ctx, SessionKey("a", KeyWishlist))
	require.NoError(t, err)
	assert.Equal(t, "a-wish", string(got))
	assert.Equal(t, "storefront:a:cart", SessionKey("a", KeyCart))
}
