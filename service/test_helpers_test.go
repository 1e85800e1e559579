package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"article-store/coordinator"
	"article-store/domain"
	"article-store/events"
	"article-store/repository"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeStore is an in-memory repository.Store with call accounting.
type fakeStore struct {
	mu sync.Mutex

	articles map[uuid.UUID]*domain.Article
	markers  map[uuid.UUID]*domain.SeenMarker

	// URLQueryChunks records the size of each FilterExistingSourceURLs call.
	URLQueryChunks []int
	// IDQueryChunks records the size of each FilterExistingIDs call.
	IDQueryChunks []int
	// ReadCalls counts single-row lookups.
	ReadCalls int

	InsertErr error
	UpdateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		articles: make(map[uuid.UUID]*domain.Article),
		markers:  make(map[uuid.UUID]*domain.SeenMarker),
	}
}

func (f *fakeStore) put(a *domain.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *a
	f.articles[a.ID] = &clone
}

func (f *fakeStore) putMarker(m *domain.SeenMarker) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *m
	f.markers[m.ID] = &clone
}

func (f *fakeStore) articleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.articles)
}

func (f *fakeStore) markerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.markers)
}

func (f *fakeStore) GetArticleByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ReadCalls++

	if a, ok := f.articles[id]; ok {
		clone := *a
		return &clone, nil
	}

	return nil, nil
}

func (f *fakeStore) GetArticleBySourceURL(ctx context.Context, sourceURL string) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ReadCalls++

	for _, a := range f.articles {
		if a.SourceURL == sourceURL {
			clone := *a
			return &clone, nil
		}
	}

	return nil, nil
}

func (f *fakeStore) GetArticleByOriginalURL(ctx context.Context, originalURL string) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ReadCalls++

	for _, a := range f.articles {
		if a.OriginalURL == originalURL {
			clone := *a
			return &clone, nil
		}
	}

	return nil, nil
}

func (f *fakeStore) InsertArticle(ctx context.Context, article *domain.Article) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *article
	f.articles[article.ID] = &clone

	return nil
}

func (f *fakeStore) UpdateArticleContent(ctx context.Context, article *domain.Article) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.articles[article.ID]
	if !ok {
		return domain.ErrArticleNotFound
	}

	// Content statement only; flags stay as stored.
	viewed, bookmarked := current.IsViewed, current.IsBookmarked
	clone := *article
	clone.IsViewed = viewed
	clone.IsBookmarked = bookmarked
	f.articles[article.ID] = &clone

	return nil
}

func (f *fakeStore) SetViewed(ctx context.Context, id uuid.UUID, viewed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.articles[id]
	if !ok {
		return domain.ErrArticleNotFound
	}
	a.IsViewed = viewed

	return nil
}

func (f *fakeStore) SetBookmarked(ctx context.Context, id uuid.UUID, bookmarked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.articles[id]
	if !ok {
		return domain.ErrArticleNotFound
	}
	a.IsBookmarked = bookmarked

	return nil
}

func (f *fakeStore) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.articles[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(f.articles, id)

	return nil
}

func (f *fakeStore) SearchArticles(ctx context.Context, term string, limit int) ([]*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	results := []*domain.Article{}
	for _, a := range f.articles {
		if strings.Contains(a.Title, term) || strings.Contains(a.Body, term) {
			clone := *a
			results = append(results, &clone)
			if len(results) == limit {
				break
			}
		}
	}

	return results, nil
}

func (f *fakeStore) FilterExistingSourceURLs(ctx context.Context, urls []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.URLQueryChunks = append(f.URLQueryChunks, len(urls))

	existing := []string{}
	for _, u := range urls {
		for _, a := range f.articles {
			if a.SourceURL == u {
				existing = append(existing, u)
				break
			}
		}
	}

	return existing, nil
}

func (f *fakeStore) FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.IDQueryChunks = append(f.IDQueryChunks, len(ids))

	existing := []uuid.UUID{}
	for _, id := range ids {
		if _, ok := f.articles[id]; ok {
			existing = append(existing, id)
		}
	}

	return existing, nil
}

func (f *fakeStore) HasSeenMarker(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.markers[id]

	return ok, nil
}

func (f *fakeStore) InsertSeenMarker(ctx context.Context, marker *domain.SeenMarker) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.markers[marker.ID]; ok {
		return nil
	}

	clone := *marker
	f.markers[marker.ID] = &clone

	return nil
}

func (f *fakeStore) RemoveDuplicateArticles(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]uuid.UUID)

	var removed int64
	for id, a := range f.articles {
		if keep, ok := seen[a.SourceURL]; ok {
			victim := id
			if f.articles[keep].AddedDate.After(a.AddedDate) {
				victim = keep
				seen[a.SourceURL] = id
			}
			delete(f.articles, victim)
			removed++
			continue
		}
		seen[a.SourceURL] = id
	}

	return removed, nil
}

func (f *fakeStore) CountArticles(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.articles), nil
}

var _ repository.Store = (*fakeStore)(nil)

// fakeRunner runs transaction bodies inline against the fake store while
// still serializing them, mirroring the coordinator contract.
type fakeRunner struct {
	store *fakeStore

	mu sync.Mutex

	// BeforeBody runs after the serialization point is acquired but before
	// the body, simulating work that lands between a read-path lookup and
	// the transaction window.
	BeforeBody func()

	CommitErr error
	Tags      []string
}

func newFakeRunner(store *fakeStore) *fakeRunner {
	return &fakeRunner{store: store}
}

func (r *fakeRunner) PerformTransaction(ctx context.Context, tag string, body func(ctx context.Context, store repository.Store) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Tags = append(r.Tags, tag)

	if r.BeforeBody != nil {
		hook := r.BeforeBody
		r.BeforeBody = nil
		hook()
	}

	if err := body(ctx, r.store); err != nil {
		return err
	}

	return r.CommitErr
}

func (r *fakeRunner) Read() repository.Store {
	return r.store
}

var _ coordinator.Runner = (*fakeRunner)(nil)

// fakePublisher records published events.
type fakePublisher struct {
	mu        sync.Mutex
	Summaries []domain.SyncSummary
	Deletions []uuid.UUID
}

func (p *fakePublisher) PublishSyncCompleted(ctx context.Context, summary domain.SyncSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Summaries = append(p.Summaries, summary)

	return nil
}

func (p *fakePublisher) PublishArticleWillDelete(ctx context.Context, article *domain.Article) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Deletions = append(p.Deletions, article.ID)

	return nil
}

func (p *fakePublisher) Close() error { return nil }

var _ events.Publisher = (*fakePublisher)(nil)
