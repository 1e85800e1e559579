package service

import (
	"context"
	"testing"
	"time"

	"article-store/cache"
	"article-store/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	store     *fakeStore
	runner    *fakeRunner
	guard     *cache.DedupGuard
	existence *cache.ExistenceCache
	publisher *fakePublisher
	service   CatalogService
}

func newCatalogFixture() *catalogFixture {
	store := newFakeStore()
	runner := newFakeRunner(store)
	guard := cache.NewDedupGuard(10*time.Minute, 1024)
	existence := cache.NewExistenceCache(time.Minute, 1024)
	publisher := &fakePublisher{}

	return &catalogFixture{
		store:     store,
		runner:    runner,
		guard:     guard,
		existence: existence,
		publisher: publisher,
		service:   NewCatalogService(runner, existence, guard, publisher, testLogger()),
	}
}

func storedArticle() *domain.Article {
	return &domain.Article{
		ID:        uuid.New(),
		SourceURL: "https://news.example.com/api/articles/stored",
		Title:     "Stored Article",
		Body:      "<p>body</p>",
		AddedDate: time.Now().UTC(),
	}
}

func TestGetArticle(t *testing.T) {
	f := newCatalogFixture()
	article := storedArticle()
	f.store.put(article)

	got, err := f.service.GetArticle(context.Background(), article.ID)

	require.NoError(t, err)
	assert.Equal(t, article.Title, got.Title)
	assert.True(t, f.existence.SeenID(article.ID), "a successful read warms the existence cache")

	_, err = f.service.GetArticle(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func TestGetArticleBySourceURL(t *testing.T) {
	f := newCatalogFixture()
	article := storedArticle()
	f.store.put(article)

	got, err := f.service.GetArticleBySourceURL(context.Background(), article.SourceURL)

	require.NoError(t, err)
	assert.Equal(t, article.ID, got.ID)
	assert.True(t, f.existence.SeenSourceURL(article.SourceURL))

	_, err = f.service.GetArticleBySourceURL(context.Background(), "https://news.example.com/nope")
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func TestMarkViewedAndBookmark(t *testing.T) {
	f := newCatalogFixture()
	article := storedArticle()
	f.store.put(article)
	ctx := context.Background()

	require.NoError(t, f.service.MarkViewed(ctx, article.ID))
	require.NoError(t, f.service.SetBookmarked(ctx, article.ID, true))

	stored, err := f.store.GetArticleByID(ctx, article.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsViewed)
	assert.True(t, stored.IsBookmarked)

	require.NoError(t, f.service.SetBookmarked(ctx, article.ID, false))
	stored, err = f.store.GetArticleByID(ctx, article.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsBookmarked)

	assert.ErrorIs(t, f.service.MarkViewed(ctx, uuid.New()), domain.ErrArticleNotFound)
}

func TestDeleteArticle_SignalsBeforeRemoval(t *testing.T) {
	f := newCatalogFixture()
	article := storedArticle()
	f.store.put(article)
	f.store.putMarker(&domain.SeenMarker{ID: article.ID, SourceURL: article.SourceURL, FirstSeenAt: time.Now().UTC()})
	ctx := context.Background()

	require.NoError(t, f.service.DeleteArticle(ctx, article.ID))

	require.Len(t, f.publisher.Deletions, 1)
	assert.Equal(t, article.ID, f.publisher.Deletions[0])
	assert.Equal(t, 0, f.store.articleCount())
	assert.Equal(t, 1, f.store.markerCount(), "the marker outlives the article")

	assert.ErrorIs(t, f.service.DeleteArticle(ctx, article.ID), domain.ErrArticleNotFound)
}

func TestSearchArticles(t *testing.T) {
	f := newCatalogFixture()
	article := storedArticle()
	article.Title = "A Deep Dive Into Channels"
	f.store.put(article)

	results, err := f.service.SearchArticles(context.Background(), "Channels", 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, article.ID, results[0].ID)
}

func TestRemoveDuplicates_ClearsCaches(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	first := storedArticle()
	second := storedArticle()
	second.SourceURL = first.SourceURL
	second.AddedDate = first.AddedDate.Add(time.Hour)
	f.store.put(first)
	f.store.put(second)

	f.existence.RecordID(second.ID)
	f.guard.CheckAndMark(second.ID)

	removed, err := f.service.RemoveDuplicates(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, f.store.articleCount())

	assert.False(t, f.existence.SeenID(second.ID), "existence cache is cleared wholesale")
	assert.False(t, f.guard.CheckAndMark(second.ID), "dedup guard is cleared wholesale")
}
