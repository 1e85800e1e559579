package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"article-store/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const articleColumns = `id, source_url, original_url, title, body, domain, topic,
		publish_date, added_date, quality_score, analysis, engine, processing_ms,
		related, is_viewed, is_bookmarked`

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article

	err := row.Scan(
		&a.ID, &a.SourceURL, &a.OriginalURL, &a.Title, &a.Body, &a.Domain, &a.Topic,
		&a.PublishDate, &a.AddedDate, &a.QualityScore, &a.Analysis, &a.Engine,
		&a.ProcessingMS, &a.Related, &a.IsViewed, &a.IsBookmarked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}

	return &a, nil
}

// GetArticleByID returns the article with the given ID, or nil when absent.
func GetArticleByID(ctx context.Context, q Querier, id uuid.UUID) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	return scanArticle(q.QueryRow(ctx, query, id))
}

// GetArticleBySourceURL returns the article with the given natural key, or
// nil when absent.
func GetArticleBySourceURL(ctx context.Context, q Querier, sourceURL string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE source_url = $1`

	return scanArticle(q.QueryRow(ctx, query, sourceURL))
}

// GetArticleByOriginalURL returns the article carrying the given legacy URL,
// or nil when absent.
func GetArticleByOriginalURL(ctx context.Context, q Querier, originalURL string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE original_url = $1`

	return scanArticle(q.QueryRow(ctx, query, originalURL))
}

// InsertArticle inserts a new article row.
func InsertArticle(ctx context.Context, q Querier, a *domain.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := q.Exec(ctx, query,
		a.ID, a.SourceURL, a.OriginalURL, a.Title, a.Body, a.Domain, a.Topic,
		a.PublishDate, a.AddedDate, a.QualityScore, a.Analysis, a.Engine,
		a.ProcessingMS, a.Related, a.IsViewed, a.IsBookmarked,
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// UpdateArticleContent rewrites the content fields of an existing article.
// The user-state flags are deliberately not part of this statement.
func UpdateArticleContent(ctx context.Context, q Querier, a *domain.Article) error {
	query := `
		UPDATE articles SET
			original_url = $2, title = $3, body = $4, domain = $5, topic = $6,
			publish_date = $7, quality_score = $8, analysis = $9, engine = $10,
			processing_ms = $11, related = $12
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		a.ID, a.OriginalURL, a.Title, a.Body, a.Domain, a.Topic,
		a.PublishDate, a.QualityScore, a.Analysis, a.Engine,
		a.ProcessingMS, a.Related,
	)
	if err != nil {
		return fmt.Errorf("failed to update article content: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}

	return nil
}

// SetArticleViewed updates the viewed flag.
func SetArticleViewed(ctx context.Context, q Querier, id uuid.UUID, viewed bool) error {
	tag, err := q.Exec(ctx, `UPDATE articles SET is_viewed = $2 WHERE id = $1`, id, viewed)
	if err != nil {
		return fmt.Errorf("failed to set viewed flag: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}

	return nil
}

// SetArticleBookmarked updates the bookmark flag.
func SetArticleBookmarked(ctx context.Context, q Querier, id uuid.UUID, bookmarked bool) error {
	tag, err := q.Exec(ctx, `UPDATE articles SET is_bookmarked = $2 WHERE id = $1`, id, bookmarked)
	if err != nil {
		return fmt.Errorf("failed to set bookmark flag: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}

	return nil
}

// DeleteArticle removes an article row. SeenMarkers are retained so a
// deleted article is not resurrected by the next sync.
func DeleteArticle(ctx context.Context, q Querier, id uuid.UUID) error {
	tag, err := q.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}

	return nil
}

// SearchArticles returns articles matching the query in title or body,
// newest first.
func SearchArticles(ctx context.Context, q Querier, term string, limit int) ([]*domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE title ILIKE '%' || $1 || '%' OR body ILIKE '%' || $1 || '%'
		ORDER BY added_date DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, term, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	articles := []*domain.Article{}

	for rows.Next() {
		var a domain.Article

		err := rows.Scan(
			&a.ID, &a.SourceURL, &a.OriginalURL, &a.Title, &a.Body, &a.Domain, &a.Topic,
			&a.PublishDate, &a.AddedDate, &a.QualityScore, &a.Analysis, &a.Engine,
			&a.ProcessingMS, &a.Related, &a.IsViewed, &a.IsBookmarked,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		articles = append(articles, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search rows: %w", err)
	}

	return articles, nil
}

// FilterExistingSourceURLs returns the subset of urls that already have an
// article row. Callers chunk the input; the IN-list is built per call.
func FilterExistingSourceURLs(ctx context.Context, q Querier, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(urls))
	args := make([]any, 0, len(urls))

	for i, u := range urls {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, u)
	}

	query := `SELECT source_url FROM articles WHERE source_url IN (` +
		strings.Join(placeholders, ", ") + `)`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter existing source URLs: %w", err)
	}
	defer rows.Close()

	existing := []string{}

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan source URL: %w", err)
		}
		existing = append(existing, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source URL rows: %w", err)
	}

	return existing, nil
}

// FilterExistingIDs returns the subset of ids that already have an article
// row.
func FilterExistingIDs(ctx context.Context, q Querier, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))

	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}

	query := `SELECT id FROM articles WHERE id IN (` +
		strings.Join(placeholders, ", ") + `)`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter existing IDs: %w", err)
	}
	defer rows.Close()

	existing := []uuid.UUID{}

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan article ID: %w", err)
		}
		existing = append(existing, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read article ID rows: %w", err)
	}

	return existing, nil
}

// RemoveDuplicateArticles deletes rows sharing a source_url, keeping the
// earliest-added row of each group. Returns the number of rows removed.
func RemoveDuplicateArticles(ctx context.Context, q Querier) (int64, error) {
	query := `
		DELETE FROM articles a
		USING articles b
		WHERE a.source_url = b.source_url
		  AND (a.added_date > b.added_date
		       OR (a.added_date = b.added_date AND a.id > b.id))
	`

	tag, err := q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to remove duplicate articles: %w", err)
	}

	return tag.RowsAffected(), nil
}

// CountArticles returns the number of catalog entries.
func CountArticles(ctx context.Context, q Querier) (int, error) {
	var count int

	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return count, nil
}
