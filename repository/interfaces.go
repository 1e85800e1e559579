package repository

import (
	"context"

	"article-store/domain"

	"github.com/google/uuid"
)

// Store is the only view of the persistent store the rest of the system
// sees: predicate-filtered fetch, counts, insert, delete. The coordinator
// hands a transaction-bound Store to write bodies; reads may use a
// pool-bound Store directly.
type Store interface {
	GetArticleByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	GetArticleBySourceURL(ctx context.Context, sourceURL string) (*domain.Article, error)
	GetArticleByOriginalURL(ctx context.Context, originalURL string) (*domain.Article, error)
	InsertArticle(ctx context.Context, article *domain.Article) error
	UpdateArticleContent(ctx context.Context, article *domain.Article) error
	SetViewed(ctx context.Context, id uuid.UUID, viewed bool) error
	SetBookmarked(ctx context.Context, id uuid.UUID, bookmarked bool) error
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	SearchArticles(ctx context.Context, term string, limit int) ([]*domain.Article, error)
	FilterExistingSourceURLs(ctx context.Context, urls []string) ([]string, error)
	FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	HasSeenMarker(ctx context.Context, id uuid.UUID) (bool, error)
	InsertSeenMarker(ctx context.Context, marker *domain.SeenMarker) error
	RemoveDuplicateArticles(ctx context.Context) (int64, error)
	CountArticles(ctx context.Context) (int, error)
}
