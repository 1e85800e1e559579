// Package events publishes catalog events to Redis Streams. Batch syncs
// emit one aggregate event each; per-item events are never published so
// observers are not overwhelmed during large syncs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"article-store/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// EventSyncCompleted carries the aggregate counts of one topic sync.
	EventSyncCompleted = "catalog.sync_completed"
	// EventArticleWillDelete signals a deletion about to happen, so
	// dependent views can react before the row is gone.
	EventArticleWillDelete = "catalog.article_will_delete"
)

// Publisher emits catalog events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishSyncCompleted(ctx context.Context, summary domain.SyncSummary) error
	PublishArticleWillDelete(ctx context.Context, article *domain.Article) error
	Close() error
}

// Config holds publisher configuration.
type Config struct {
	RedisURL  string
	StreamKey string
}

// redisPublisher writes events with XADD.
type redisPublisher struct {
	client    *redis.Client
	streamKey string
	logger    *slog.Logger
}

// NewPublisher creates a Redis Streams publisher.
func NewPublisher(cfg Config, logger *slog.Logger) (Publisher, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &redisPublisher{
		client:    redis.NewClient(opts),
		streamKey: cfg.StreamKey,
		logger:    logger,
	}, nil
}

func (p *redisPublisher) PublishSyncCompleted(ctx context.Context, summary domain.SyncSummary) error {
	return p.publish(ctx, EventSyncCompleted, summary)
}

func (p *redisPublisher) PublishArticleWillDelete(ctx context.Context, article *domain.Article) error {
	payload := map[string]string{
		"article_id": article.ID.String(),
		"source_url": article.SourceURL,
	}

	return p.publish(ctx, EventArticleWillDelete, payload)
}

func (p *redisPublisher) publish(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	values := map[string]any{
		"event_id":   uuid.NewString(),
		"event_type": eventType,
		"source":     "article-store",
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"payload":    string(data),
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamKey,
		Values: values,
	}).Err(); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event", "event_type", eventType, "error", err)
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	p.logger.InfoContext(ctx, "event published", "event_type", eventType, "stream", p.streamKey)

	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}

// nopPublisher is used when events are disabled.
type nopPublisher struct{}

// NewNopPublisher creates a publisher that drops all events.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishSyncCompleted(context.Context, domain.SyncSummary) error { return nil }
func (nopPublisher) PublishArticleWillDelete(context.Context, *domain.Article) error {
	return nil
}
func (nopPublisher) Close() error { return nil }
