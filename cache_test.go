package gopaginator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MemoryCacheStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCacheStore[tUser, int](10)
	query := queryWith(nil, nil)
	page := pageOf([]int{1, 2}, intPtr(2), false)

	_, ok := store.Get(ctx, "k", query)
	require.False(t, ok, "empty store must miss")

	store.Put(ctx, "k", query, page, NeverExpires)

	got, ok := store.Get(ctx, "k", query)
	require.True(t, ok)
	assert.Equal(t, page.Items, got.Items)
	assert.Equal(t, 2, *got.NextKey)
	assert.True(t, store.Has(ctx, "k"))
	assert.False(t, store.Has(ctx, "other"))
}

func Test_MemoryCacheStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCacheStore[tUser, int](10)
	query := queryWith(nil, nil)

	now := time.Unix(1000, 0)
	store.now = func() time.Time { return now }

	store.Put(ctx, "ttl", query, pageOf([]int{1}, nil, true), time.Minute)
	store.Put(ctx, "forever", query, pageOf([]int{2}, nil, true), NeverExpires)

	_, ok := store.Get(ctx, "ttl", query)
	require.True(t, ok, "entry must live before expiry")

	now = now.Add(time.Minute)

	_, ok = store.Get(ctx, "ttl", query)
	assert.False(t, ok, "expired entry must report a miss")
	assert.False(t, store.Has(ctx, "ttl"))

	_, ok = store.Get(ctx, "forever", query)
	assert.True(t, ok, "NeverExpires entry must survive")
}

func Test_MemoryCacheStore_LRUEviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCacheStore[tUser, int](2)
	query := queryWith(nil, nil)

	store.Put(ctx, "a", query, pageOf([]int{1}, nil, true), NeverExpires)
	store.Put(ctx, "b", query, pageOf([]int{2}, nil, true), NeverExpires)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := store.Get(ctx, "a", query)
	require.True(t, ok)

	store.Put(ctx, "c", query, pageOf([]int{3}, nil, true), NeverExpires)

	assert.Equal(t, 2, store.Len())
	assert.True(t, store.Has(ctx, "a"))
	assert.False(t, store.Has(ctx, "b"), "least recently used entry must be evicted")
	assert.True(t, store.Has(ctx, "c"))
}

func Test_MemoryCacheStore_RemoveClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCacheStore[tUser, int](10)
	query := queryWith(nil, nil)

	store.Put(ctx, "a", query, pageOf([]int{1}, nil, true), NeverExpires)
	store.Put(ctx, "b", query, pageOf([]int{2}, nil, true), NeverExpires)

	store.Remove(ctx, "a")
	assert.False(t, store.Has(ctx, "a"))
	assert.True(t, store.Has(ctx, "b"))

	store.Clear(ctx)
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Has(ctx, "b"))
}

func Test_MemoryCacheStore_UpdateExistingKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCacheStore[tUser, int](2)
	query := queryWith(nil, nil)

	store.Put(ctx, "k", query, pageOf([]int{1}, nil, true), NeverExpires)
	store.Put(ctx, "k", query, pageOf([]int{9}, nil, true), NeverExpires)

	got, ok := store.Get(ctx, "k", query)
	require.True(t, ok)
	assert.Equal(t, 9, got.Items[0].ID)
	assert.Equal(t, 1, store.Len(), "overwrite must not grow the store")
}

func Test_MemoryCacheStore_DefaultBound(t *testing.T) {
	store := NewMemoryCacheStore[tUser, int](0)
	assert.Equal(t, DefaultMaxCacheEntries, store.maxEntries)
}
