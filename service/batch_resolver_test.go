package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"article-store/cache"
	"article-store/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExisting_ChunksQueriesAndMissesNothing(t *testing.T) {
	store := newFakeStore()
	existence := cache.NewExistenceCache(time.Minute, 1024)
	resolver := NewBatchResolver(store, existence, 25, testLogger())

	keys := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		keys = append(keys, fmt.Sprintf("https://news.example.com/articles/story-%03d", i))
	}

	// Presence straddling every chunk boundary: last of chunk one, first of
	// chunk two, and deep inside the short tail chunk.
	present := []int{0, 24, 25, 49, 50, 59}
	for _, i := range present {
		store.put(&domain.Article{
			ID:        uuid.New(),
			SourceURL: keys[i],
			Title:     "t",
			Body:      "b",
			AddedDate: time.Now().UTC(),
		})
	}

	existing, err := resolver.ResolveExisting(context.Background(), keys)

	require.NoError(t, err)
	assert.Len(t, existing, len(present))
	for _, i := range present {
		assert.True(t, existing[keys[i]], "key %d must resolve as existing", i)
	}

	assert.Equal(t, []int{25, 25, 10}, store.URLQueryChunks)
}

func TestResolveExisting_CacheHitsSkipStorage(t *testing.T) {
	store := newFakeStore()
	existence := cache.NewExistenceCache(time.Minute, 1024)
	resolver := NewBatchResolver(store, existence, 25, testLogger())

	keys := []string{
		"https://news.example.com/articles/a",
		"https://news.example.com/articles/b",
		"https://news.example.com/articles/c",
	}
	for _, key := range keys {
		store.put(&domain.Article{
			ID:        uuid.New(),
			SourceURL: key,
			Title:     "t",
			Body:      "b",
			AddedDate: time.Now().UTC(),
		})
	}

	first, err := resolver.ResolveExisting(context.Background(), keys)
	require.NoError(t, err)
	assert.Len(t, first, 3)
	require.Len(t, store.URLQueryChunks, 1)

	// Hits were cached; the repeat resolves entirely in memory.
	second, err := resolver.ResolveExisting(context.Background(), keys)
	require.NoError(t, err)
	assert.Len(t, second, 3)
	assert.Len(t, store.URLQueryChunks, 1)
}

func TestResolveExisting_ExpiredCacheEntriesHitStorageAgain(t *testing.T) {
	store := newFakeStore()
	existence := cache.NewExistenceCache(20*time.Millisecond, 1024)
	resolver := NewBatchResolver(store, existence, 25, testLogger())

	key := "https://news.example.com/articles/short-lived"
	store.put(&domain.Article{
		ID:        uuid.New(),
		SourceURL: key,
		Title:     "t",
		Body:      "b",
		AddedDate: time.Now().UTC(),
	})

	_, err := resolver.ResolveExisting(context.Background(), []string{key})
	require.NoError(t, err)
	require.Len(t, store.URLQueryChunks, 1)

	time.Sleep(40 * time.Millisecond)

	second, err := resolver.ResolveExisting(context.Background(), []string{key})
	require.NoError(t, err)
	assert.True(t, second[key])
	assert.Len(t, store.URLQueryChunks, 2, "an expired entry must be re-confirmed against storage")
}

func TestResolveExisting_AbsenceIsNeverCached(t *testing.T) {
	store := newFakeStore()
	existence := cache.NewExistenceCache(time.Minute, 1024)
	resolver := NewBatchResolver(store, existence, 25, testLogger())

	key := "https://news.example.com/articles/late-arrival"

	first, err := resolver.ResolveExisting(context.Background(), []string{key})
	require.NoError(t, err)
	assert.Empty(t, first)

	// The article lands between resolutions; the next pass must see it.
	store.put(&domain.Article{
		ID:        uuid.New(),
		SourceURL: key,
		Title:     "t",
		Body:      "b",
		AddedDate: time.Now().UTC(),
	})

	second, err := resolver.ResolveExisting(context.Background(), []string{key})
	require.NoError(t, err)
	assert.True(t, second[key])
}

func TestResolveExisting_SplitsKeySpaces(t *testing.T) {
	store := newFakeStore()
	existence := cache.NewExistenceCache(time.Minute, 1024)
	resolver := NewBatchResolver(store, existence, 25, testLogger())

	presentID := uuid.New()
	store.put(&domain.Article{
		ID:        presentID,
		SourceURL: "https://news.example.com/articles/by-id",
		Title:     "t",
		Body:      "b",
		AddedDate: time.Now().UTC(),
	})
	store.put(&domain.Article{
		ID:        uuid.New(),
		SourceURL: "https://news.example.com/articles/by-url",
		Title:     "t",
		Body:      "b",
		AddedDate: time.Now().UTC(),
	})

	keys := []string{
		presentID.String(),
		uuid.New().String(),
		"https://news.example.com/articles/by-url",
		"https://news.example.com/articles/missing",
	}

	existing, err := resolver.ResolveExisting(context.Background(), keys)

	require.NoError(t, err)
	assert.Len(t, existing, 2)
	assert.True(t, existing[presentID.String()])
	assert.True(t, existing["https://news.example.com/articles/by-url"])
	assert.Equal(t, []int{2}, store.URLQueryChunks)
	assert.Equal(t, []int{2}, store.IDQueryChunks)
}

func TestResolveExisting_EmptyInput(t *testing.T) {
	store := newFakeStore()
	existence := cache.NewExistenceCache(time.Minute, 1024)
	resolver := NewBatchResolver(store, existence, 25, testLogger())

	existing, err := resolver.ResolveExisting(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, existing)
	assert.Empty(t, store.URLQueryChunks)
	assert.Empty(t, store.IDQueryChunks)
}
