package service

import (
	"context"
	"log/slog"
	"time"

	"article-store/cache"
	"article-store/coordinator"
	"article-store/domain"
	"article-store/repository"
	"article-store/utils"

	"github.com/google/uuid"
)

// ingestionService implements IngestionService.
type ingestionService struct {
	runner    coordinator.Runner
	guard     *cache.DedupGuard
	existence *cache.ExistenceCache
	sanitizer *utils.Sanitizer
	logger    *slog.Logger
	now       func() time.Time
}

// NewIngestionService creates the ingestion pipeline.
func NewIngestionService(runner coordinator.Runner, guard *cache.DedupGuard, existence *cache.ExistenceCache, logger *slog.Logger) IngestionService {
	return &ingestionService{
		runner:    runner,
		guard:     guard,
		existence: existence,
		sanitizer: utils.NewSanitizer(),
		logger:    logger,
		now:       time.Now,
	}
}

// IngestDocument processes one parsed source document. Duplicates are benign
// and reported through the outcome, not as errors.
func (s *ingestionService) IngestDocument(ctx context.Context, doc *domain.ArticleDocument) (domain.IngestOutcome, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}

	id, err := domain.ExtractArticleID(doc.SourceURL)
	if err != nil {
		s.logger.WarnContext(ctx, "document has no extractable identity", "source_url", doc.SourceURL)
		return 0, err
	}

	if s.guard.CheckAndMark(id) {
		s.logger.InfoContext(ctx, "ingestion skipped by dedup guard", "article_id", id)
		return domain.IngestDuplicate, nil
	}

	incoming := s.buildArticle(id, doc)

	// Best-effort lookup on the read path. This happens outside the atomic
	// window; the insert path re-checks inside the transaction.
	existing, err := s.lookup(ctx, s.runner.Read(), id, doc)
	if err != nil {
		s.guard.Release(id)
		return 0, err
	}

	outcome, err := coordinator.Perform(ctx, s.runner, "ingest-article", func(ctx context.Context, store repository.Store) (domain.IngestOutcome, error) {
		if existing != nil {
			return s.merge(ctx, store, existing.ID, incoming)
		}
		return s.insert(ctx, store, incoming)
	})
	if err != nil {
		s.guard.Release(id)
		return 0, err
	}

	s.existence.RecordID(id)
	s.existence.RecordSourceURL(doc.SourceURL)

	s.logger.InfoContext(ctx, "document ingested", "article_id", id, "outcome", outcome.String())

	return outcome, nil
}

// lookup finds a prior record for the document: by id, then by natural key,
// then by legacy original URL. First match wins.
func (s *ingestionService) lookup(ctx context.Context, store repository.Store, id uuid.UUID, doc *domain.ArticleDocument) (*domain.Article, error) {
	article, err := store.GetArticleByID(ctx, id)
	if err != nil || article != nil {
		return article, err
	}

	article, err = store.GetArticleBySourceURL(ctx, doc.SourceURL)
	if err != nil || article != nil {
		return article, err
	}

	if doc.OriginalURL != "" {
		article, err = store.GetArticleByOriginalURL(ctx, doc.OriginalURL)
		if err != nil || article != nil {
			return article, err
		}
	}

	return nil, nil
}

// merge folds incoming content into the stored record, leaving the
// user-state flags alone, and backfills a missing SeenMarker.
func (s *ingestionService) merge(ctx context.Context, store repository.Store, existingID uuid.UUID, incoming *domain.Article) (domain.IngestOutcome, error) {
	// Re-read inside the transaction; the earlier lookup was not in the
	// atomic window and the row may have changed or vanished since.
	current, err := store.GetArticleByID(ctx, existingID)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return s.insert(ctx, store, incoming)
	}

	current.MergeContent(incoming)

	if err := store.UpdateArticleContent(ctx, current); err != nil {
		return 0, err
	}

	if err := s.ensureSeenMarker(ctx, store, current); err != nil {
		return 0, err
	}

	return domain.IngestUpdated, nil
}

// insert creates the Article and its SeenMarker in one atomic unit. The
// final re-check by id closes the gap between the best-effort lookup and
// this point: a racing ingestion that landed in between is merged into, not
// duplicated.
func (s *ingestionService) insert(ctx context.Context, store repository.Store, incoming *domain.Article) (domain.IngestOutcome, error) {
	racer, err := store.GetArticleByID(ctx, incoming.ID)
	if err != nil {
		return 0, err
	}
	if racer != nil {
		racer.MergeContent(incoming)

		if err := store.UpdateArticleContent(ctx, racer); err != nil {
			return 0, err
		}
		if err := s.ensureSeenMarker(ctx, store, racer); err != nil {
			return 0, err
		}

		return domain.IngestUpdated, nil
	}

	// A retained marker without an article means the user deleted it;
	// deletion stays durable against re-sync.
	seen, err := store.HasSeenMarker(ctx, incoming.ID)
	if err != nil {
		return 0, err
	}
	if seen {
		s.logger.InfoContext(ctx, "skipping re-ingestion of deleted article", "article_id", incoming.ID)
		return domain.IngestDuplicate, nil
	}

	if err := store.InsertArticle(ctx, incoming); err != nil {
		return 0, err
	}

	marker := &domain.SeenMarker{
		ID:          incoming.ID,
		SourceURL:   incoming.SourceURL,
		FirstSeenAt: s.now().UTC(),
	}
	if err := store.InsertSeenMarker(ctx, marker); err != nil {
		return 0, err
	}

	return domain.IngestInserted, nil
}

func (s *ingestionService) ensureSeenMarker(ctx context.Context, store repository.Store, article *domain.Article) error {
	seen, err := store.HasSeenMarker(ctx, article.ID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	return store.InsertSeenMarker(ctx, &domain.SeenMarker{
		ID:          article.ID,
		SourceURL:   article.SourceURL,
		FirstSeenAt: s.now().UTC(),
	})
}

func (s *ingestionService) buildArticle(id uuid.UUID, doc *domain.ArticleDocument) *domain.Article {
	related := make([]uuid.UUID, 0, len(doc.Related))
	for _, r := range doc.Related {
		if relID, err := uuid.Parse(r); err == nil {
			related = append(related, relID)
		}
	}

	return &domain.Article{
		ID:           id,
		SourceURL:    doc.SourceURL,
		OriginalURL:  doc.OriginalURL,
		Title:        doc.Title,
		Body:         s.sanitizer.SanitizeBody(doc.Body),
		Domain:       doc.Domain,
		Topic:        doc.Topic,
		PublishDate:  doc.PublishedAt,
		AddedDate:    s.now().UTC(),
		QualityScore: doc.QualityScore,
		Analysis:     doc.Analysis,
		Engine:       doc.Engine,
		ProcessingMS: doc.ProcessingMS,
		Related:      related,
	}
}
