package service

import (
	"context"
	"log/slog"

	"article-store/cache"
	"article-store/coordinator"
	"article-store/domain"
	"article-store/events"
	"article-store/repository"

	"github.com/google/uuid"
)

const defaultSearchLimit = 50

// catalogService implements CatalogService on top of the coordinator.
// Reads go through the non-serialized read path; every mutation runs inside
// a serialized transaction.
type catalogService struct {
	runner    coordinator.Runner
	existence *cache.ExistenceCache
	guard     *cache.DedupGuard
	publisher events.Publisher
	logger    *slog.Logger
}

// NewCatalogService creates the presentation layer's service.
func NewCatalogService(runner coordinator.Runner, existence *cache.ExistenceCache, guard *cache.DedupGuard, publisher events.Publisher, logger *slog.Logger) CatalogService {
	return &catalogService{
		runner:    runner,
		existence: existence,
		guard:     guard,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *catalogService) GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	article, err := s.runner.Read().GetArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrArticleNotFound
	}

	s.existence.RecordID(id)

	return article, nil
}

func (s *catalogService) GetArticleBySourceURL(ctx context.Context, sourceURL string) (*domain.Article, error) {
	article, err := s.runner.Read().GetArticleBySourceURL(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrArticleNotFound
	}

	s.existence.RecordSourceURL(sourceURL)

	return article, nil
}

func (s *catalogService) SearchArticles(ctx context.Context, term string, limit int) ([]*domain.Article, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return s.runner.Read().SearchArticles(ctx, term, limit)
}

func (s *catalogService) MarkViewed(ctx context.Context, id uuid.UUID) error {
	return s.runner.PerformTransaction(ctx, "mark-viewed", func(ctx context.Context, store repository.Store) error {
		return store.SetViewed(ctx, id, true)
	})
}

func (s *catalogService) SetBookmarked(ctx context.Context, id uuid.UUID, bookmarked bool) error {
	return s.runner.PerformTransaction(ctx, "set-bookmarked", func(ctx context.Context, store repository.Store) error {
		return store.SetBookmarked(ctx, id, bookmarked)
	})
}

// DeleteArticle removes an article by explicit user action. The pre-deletion
// signal goes out before removal so dependent views can react; the
// SeenMarker is retained, which keeps the deletion durable against re-sync.
func (s *catalogService) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	article, err := s.runner.Read().GetArticleByID(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return domain.ErrArticleNotFound
	}

	if err := s.publisher.PublishArticleWillDelete(ctx, article); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish pre-deletion signal", "article_id", id, "error", err)
	}

	return s.runner.PerformTransaction(ctx, "delete-article", func(ctx context.Context, store repository.Store) error {
		return store.DeleteArticle(ctx, id)
	})
}

// RemoveDuplicates is the structural maintenance operation: one serialized
// transaction removing rows that share a source_url, after which all caches
// are cleared wholesale to avoid staleness.
func (s *catalogService) RemoveDuplicates(ctx context.Context) (int64, error) {
	removed, err := coordinator.Perform(ctx, s.runner, "remove-duplicates", func(ctx context.Context, store repository.Store) (int64, error) {
		return store.RemoveDuplicateArticles(ctx)
	})
	if err != nil {
		return 0, err
	}

	s.existence.Clear()
	s.guard.Clear()

	s.logger.InfoContext(ctx, "duplicate removal finished, caches cleared", "removed", removed)

	return removed, nil
}
