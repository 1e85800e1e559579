package repository

import (
	"context"
	"log/slog"

	"article-store/domain"
	"article-store/driver"

	"github.com/google/uuid"
)

// pgxStore implements Store over any pgx querier (pool or open transaction).
type pgxStore struct {
	q      driver.Querier
	logger *slog.Logger
}

// NewStore creates a Store bound to the given querier.
func NewStore(q driver.Querier, logger *slog.Logger) Store {
	return &pgxStore{
		q:      q,
		logger: logger,
	}
}

func (s *pgxStore) GetArticleByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	article, err := driver.GetArticleByID(ctx, s.q, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get article by id", "article_id", id, "error", err)
		return nil, err
	}

	return article, nil
}

func (s *pgxStore) GetArticleBySourceURL(ctx context.Context, sourceURL string) (*domain.Article, error) {
	article, err := driver.GetArticleBySourceURL(ctx, s.q, sourceURL)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get article by source URL", "source_url", sourceURL, "error", err)
		return nil, err
	}

	return article, nil
}

func (s *pgxStore) GetArticleByOriginalURL(ctx context.Context, originalURL string) (*domain.Article, error) {
	article, err := driver.GetArticleByOriginalURL(ctx, s.q, originalURL)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get article by original URL", "original_url", originalURL, "error", err)
		return nil, err
	}

	return article, nil
}

func (s *pgxStore) InsertArticle(ctx context.Context, article *domain.Article) error {
	if err := driver.InsertArticle(ctx, s.q, article); err != nil {
		s.logger.ErrorContext(ctx, "failed to insert article", "article_id", article.ID, "error", err)
		return err
	}

	s.logger.InfoContext(ctx, "article inserted", "article_id", article.ID, "source_url", article.SourceURL)

	return nil
}

func (s *pgxStore) UpdateArticleContent(ctx context.Context, article *domain.Article) error {
	if err := driver.UpdateArticleContent(ctx, s.q, article); err != nil {
		s.logger.ErrorContext(ctx, "failed to update article content", "article_id", article.ID, "error", err)
		return err
	}

	s.logger.InfoContext(ctx, "article content updated", "article_id", article.ID)

	return nil
}

func (s *pgxStore) SetViewed(ctx context.Context, id uuid.UUID, viewed bool) error {
	if err := driver.SetArticleViewed(ctx, s.q, id, viewed); err != nil {
		s.logger.ErrorContext(ctx, "failed to set viewed flag", "article_id", id, "error", err)
		return err
	}

	return nil
}

func (s *pgxStore) SetBookmarked(ctx context.Context, id uuid.UUID, bookmarked bool) error {
	if err := driver.SetArticleBookmarked(ctx, s.q, id, bookmarked); err != nil {
		s.logger.ErrorContext(ctx, "failed to set bookmark flag", "article_id", id, "error", err)
		return err
	}

	return nil
}

func (s *pgxStore) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	if err := driver.DeleteArticle(ctx, s.q, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete article", "article_id", id, "error", err)
		return err
	}

	s.logger.InfoContext(ctx, "article deleted", "article_id", id)

	return nil
}

func (s *pgxStore) SearchArticles(ctx context.Context, term string, limit int) ([]*domain.Article, error) {
	articles, err := driver.SearchArticles(ctx, s.q, term, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search articles", "term", term, "error", err)
		return nil, err
	}

	return articles, nil
}

func (s *pgxStore) FilterExistingSourceURLs(ctx context.Context, urls []string) ([]string, error) {
	existing, err := driver.FilterExistingSourceURLs(ctx, s.q, urls)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to filter existing source URLs", "count", len(urls), "error", err)
		return nil, err
	}

	return existing, nil
}

func (s *pgxStore) FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	existing, err := driver.FilterExistingIDs(ctx, s.q, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to filter existing IDs", "count", len(ids), "error", err)
		return nil, err
	}

	return existing, nil
}

func (s *pgxStore) HasSeenMarker(ctx context.Context, id uuid.UUID) (bool, error) {
	has, err := driver.HasSeenMarker(ctx, s.q, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to check seen marker", "article_id", id, "error", err)
		return false, err
	}

	return has, nil
}

func (s *pgxStore) InsertSeenMarker(ctx context.Context, marker *domain.SeenMarker) error {
	if err := driver.InsertSeenMarker(ctx, s.q, marker); err != nil {
		s.logger.ErrorContext(ctx, "failed to insert seen marker", "article_id", marker.ID, "error", err)
		return err
	}

	return nil
}

func (s *pgxStore) RemoveDuplicateArticles(ctx context.Context) (int64, error) {
	removed, err := driver.RemoveDuplicateArticles(ctx, s.q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to remove duplicate articles", "error", err)
		return 0, err
	}

	s.logger.InfoContext(ctx, "duplicate articles removed", "count", removed)

	return removed, nil
}

func (s *pgxStore) CountArticles(ctx context.Context) (int, error) {
	count, err := driver.CountArticles(ctx, s.q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count articles", "error", err)
		return 0, err
	}

	return count, nil
}
