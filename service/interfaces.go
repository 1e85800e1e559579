package service

import (
	"context"

	"article-store/domain"

	"github.com/google/uuid"
)

// RemoteSource fetches article documents and topic indexes from the remote
// source. Fetching and decoding happen entirely outside the serialized
// storage path.
type RemoteSource interface {
	FetchDocument(ctx context.Context, url string) (*domain.ArticleDocument, error)
	FetchTopicIndex(ctx context.Context, topic string) ([]string, error)
}

// IngestionService runs the validate → dedup → lookup → merge-or-insert
// pipeline for one document.
type IngestionService interface {
	IngestDocument(ctx context.Context, doc *domain.ArticleDocument) (domain.IngestOutcome, error)
}

// BatchResolver determines which of many candidate keys already exist in the
// catalog. Keys may be source URLs or article IDs.
type BatchResolver interface {
	ResolveExisting(ctx context.Context, keys []string) (map[string]bool, error)
}

// SyncService synchronizes one topic's remote candidates into the catalog.
type SyncService interface {
	SyncTopic(ctx context.Context, topic string) (domain.SyncSummary, error)
}

// CatalogService is the presentation layer's API surface. User-state flags
// are owned here exclusively; ingestion never touches them.
type CatalogService interface {
	GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	GetArticleBySourceURL(ctx context.Context, sourceURL string) (*domain.Article, error)
	SearchArticles(ctx context.Context, term string, limit int) ([]*domain.Article, error)
	MarkViewed(ctx context.Context, id uuid.UUID) error
	SetBookmarked(ctx context.Context, id uuid.UUID, bookmarked bool) error
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	RemoveDuplicates(ctx context.Context) (int64, error)
}
