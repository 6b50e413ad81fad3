package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()

	assert.False(t, store.Authenticated())
	creds, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, creds.Access)
	assert.Empty(t, creds.Refresh)

	require.NoError(t, store.Save(Credentials{Access: "a1", Refresh: "r1"}))
	assert.True(t, store.Authenticated())

	creds, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a1", creds.Access)
	assert.Equal(t, "r1", creds.Refresh)

	// Save replaces the whole pair.
	require.NoError(t, store.Save(Credentials{Access: "a2"}))
	creds, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a2", creds.Access)
	assert.Empty(t, creds.Refresh)

	require.NoError(t, store.Clear())
	assert.False(t, store.Authenticated())
	creds, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, creds.Access)
}

func TestClearingEmptyStoreIsNotAnError(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Clear())
}
