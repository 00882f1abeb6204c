package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/bookclub/cache"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	t.Run("Miss", func(t *testing.T) {
		entry, err := store.Get(ctx, "hardcover-fiction")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("RoundTrip_ByteIdentical", func(t *testing.T) {
		payload := []byte(`[{"rank":1,"title":"THE WOMEN"}]`)
		ts := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
		require.NoError(t, store.Put(ctx, "hardcover-fiction", cache.Entry{Timestamp: ts, Payload: payload}))

		payload[0] = 'X' // caller mutation must not leak into the store

		entry, err := store.Get(ctx, "hardcover-fiction")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, []byte(`[{"rank":1,"title":"THE WOMEN"}]`), entry.Payload)
		assert.True(t, ts.Equal(entry.Timestamp))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, cache.BookKey("9780000000001"), cache.Entry{Payload: []byte("1")}))
		require.NoError(t, store.Put(ctx, cache.BookKey("9780000000001"), cache.Entry{Payload: []byte("2")}))

		entry, err := store.Get(ctx, "book-9780000000001")
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), entry.Payload)
		assert.Equal(t, 2, store.Len())
	})
}

func TestEntryFreshAt(t *testing.T) {
	ts := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	entry := &cache.Entry{Timestamp: ts}

	assert.True(t, entry.FreshAt(ts.Add(59*time.Minute), time.Hour))
	assert.False(t, entry.FreshAt(ts.Add(time.Hour), time.Hour))
	assert.False(t, entry.FreshAt(ts.Add(time.Hour+time.Second), time.Hour))

	var missing *cache.Entry
	assert.False(t, missing.FreshAt(ts, time.Hour))
}
