package service

import (
	"context"
	"log/slog"

	"article-store/domain"
	"article-store/events"
	"article-store/orchestrator"
)

// syncService implements SyncService.
type syncService struct {
	remote      RemoteSource
	resolver    BatchResolver
	ingestion   IngestionService
	publisher   events.Publisher
	concurrency int
	logger      *slog.Logger
}

// NewSyncService creates the sync orchestrator integration.
func NewSyncService(remote RemoteSource, resolver BatchResolver, ingestion IngestionService, publisher events.Publisher, concurrency int, logger *slog.Logger) SyncService {
	return &syncService{
		remote:      remote,
		resolver:    resolver,
		ingestion:   ingestion,
		publisher:   publisher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// SyncTopic fetches the topic's candidate keys, skips the ones already in
// the catalog, and runs fetch-then-ingest for the rest under the bounded
// worker pool. A single aggregate event is published on completion; no
// per-item events exist. A per-item failure never aborts the batch; an error
// return means the sync could not start (or was cancelled).
func (s *syncService) SyncTopic(ctx context.Context, topic string) (domain.SyncSummary, error) {
	summary := domain.SyncSummary{Topic: topic}

	candidates, err := s.remote.FetchTopicIndex(ctx, topic)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch topic index", "topic", topic, "error", err)
		return summary, err
	}

	existing, err := s.resolver.ResolveExisting(ctx, candidates)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve existing candidates", "topic", topic, "error", err)
		return summary, err
	}

	remaining := make([]string, 0, len(candidates))
	for _, key := range candidates {
		if existing[key] {
			summary.Skipped++
			continue
		}
		remaining = append(remaining, key)
	}

	s.logger.InfoContext(ctx, "starting topic sync",
		"topic", topic, "candidates", len(candidates), "already_present", summary.Skipped)

	pool := orchestrator.NewPool("topic-sync", s.concurrency, s.logger, s.fetchAndIngest)
	results := pool.Run(ctx, remaining)

	cancelled := false

	for _, result := range results {
		switch {
		case result.Err == nil:
			if result.Value == domain.IngestDuplicate {
				summary.Skipped++
			} else {
				summary.Success++
			}
		case domain.IsCancellation(result.Err):
			cancelled = true
		case domain.IsBenign(result.Err):
			summary.Success++
		case domain.IsSkippable(result.Err):
			summary.Skipped++
		default:
			summary.Failure++
		}
	}

	if cancelled {
		// Committed items stay committed; abandoned items are simply not
		// counted. The context error propagates with the partial summary.
		s.logger.WarnContext(ctx, "topic sync cancelled",
			"topic", topic, "success", summary.Success, "failure", summary.Failure, "skipped", summary.Skipped)
		return summary, ctx.Err()
	}

	s.logger.InfoContext(ctx, "topic sync completed",
		"topic", topic, "success", summary.Success, "failure", summary.Failure, "skipped", summary.Skipped)

	if err := s.publisher.PublishSyncCompleted(ctx, summary); err != nil {
		// Event delivery is best effort; the sync itself succeeded.
		s.logger.ErrorContext(ctx, "failed to publish sync event", "topic", topic, "error", err)
	}

	return summary, nil
}

func (s *syncService) fetchAndIngest(ctx context.Context, url string) (domain.IngestOutcome, error) {
	doc, err := s.remote.FetchDocument(ctx, url)
	if err != nil {
		return 0, err
	}

	return s.ingestion.IngestDocument(ctx, doc)
}
