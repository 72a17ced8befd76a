package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestStorePutGet(t *testing.T) {
	store := newTestStore(t)

	body := []byte(`{"data":[{"id":"1","text":"hello"}]}`)
	require.NoError(t, store.Put("key1", body, time.Hour))

	got, ok, err := store.Get("key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, body, got)
}

func TestStoreMiss(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreExpiredEntryReadsAsAbsent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("key1", []byte("stale"), -time.Minute))

	_, ok, err := store.Get("key1")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must be treated as a miss")
}

func TestStoreSubSecondTTL(t *testing.T) {
	store := newTestStore(t)

	// A short but positive TTL must not expire the entry at write time
	require.NoError(t, store.Put("key1", []byte("brief"), 900*time.Millisecond))

	got, ok, err := store.Get("key1")
	require.NoError(t, err)
	assert.True(t, ok, "entry within a sub-second TTL must still be readable")
	assert.Equal(t, []byte("brief"), got)
}

func TestStoreOverwrite(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("key1", []byte("old"), time.Hour))
	require.NoError(t, store.Put("key1", []byte("new"), time.Hour))

	got, ok, err := store.Get("key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestStoreOverwriteRefreshesExpiredEntry(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("key1", []byte("stale"), -time.Minute))
	require.NoError(t, store.Put("key1", []byte("fresh"), time.Hour))

	got, ok, err := store.Get("key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("fresh"), got)
}

func TestStoreStats(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("valid1", []byte("a"), time.Hour))
	require.NoError(t, store.Put("valid2", []byte("b"), time.Hour))
	require.NoError(t, store.Put("expired", []byte("c"), -time.Minute))

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEntries)
	assert.Equal(t, int64(2), stats.ValidEntries)
	assert.Equal(t, int64(1), stats.ExpiredEntries)
}

func TestStoreCleanupExpired(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("valid", []byte("a"), time.Hour))
	require.NoError(t, store.Put("expired1", []byte("b"), -time.Minute))
	require.NoError(t, store.Put("expired2", []byte("c"), -time.Minute))

	deleted, err := store.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalEntries)
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("key1", []byte("a"), time.Hour))
	require.NoError(t, store.Put("key2", []byte("b"), time.Hour))

	require.NoError(t, store.Clear())

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalEntries)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("key1", []byte("persisted"), time.Hour))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get("key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("persisted"), got)
}
