package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVRoundtrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, ok, err := kv.Get(ctx, "usr_jane", "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "usr_jane", "cart", []byte(`["sku-1"]`)))

	value, ok, err := kv.Get(ctx, "usr_jane", "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`["sku-1"]`), value)

	// Keys are scoped per user.
	_, ok, err = kv.Get(ctx, "usr_sam", "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Delete(ctx, "usr_jane", "cart"))
	_, ok, err = kv.Get(ctx, "usr_jane", "cart")
	require.NoError(t, err)
	assert.False(t, ok)
}
