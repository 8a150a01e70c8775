package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	store := NewLocalStore(backend)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "pharmacy_users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "pharmacy_users", "[]"))
	require.NoError(t, store.Set(ctx, "attachments_b", "[1]"))
	require.NoError(t, store.Set(ctx, "attachments_a", "[2]"))

	value, ok, err := store.Get(ctx, "pharmacy_users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)

	keys, err := store.Keys(ctx, "attachments_")
	require.NoError(t, err)
	assert.Equal(t, []string{"attachments_a", "attachments_b"}, keys)

	require.NoError(t, store.Delete(ctx, "attachments_a"))
	require.NoError(t, store.Delete(ctx, "never_set"))

	keys, err = store.Keys(ctx, "attachments_")
	require.NoError(t, err)
	assert.Equal(t, []string{"attachments_b"}, keys)
}
