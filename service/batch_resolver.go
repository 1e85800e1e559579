package service

import (
	"context"
	"log/slog"

	"article-store/cache"
	"article-store/repository"

	"github.com/google/uuid"
)

// batchResolver implements BatchResolver with a cache phase followed by
// chunked storage queries on the non-serialized read path.
type batchResolver struct {
	read      repository.Store
	existence *cache.ExistenceCache
	chunkSize int
	logger    *slog.Logger
}

// NewBatchResolver creates a resolver. chunkSize bounds the IN-list size of
// each storage query; unbounded predicates over thousands of keys degrade
// query planning.
func NewBatchResolver(read repository.Store, existence *cache.ExistenceCache, chunkSize int, logger *slog.Logger) BatchResolver {
	if chunkSize < 1 {
		chunkSize = 25
	}

	return &batchResolver{
		read:      read,
		existence: existence,
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// ResolveExisting returns the subset of keys already present in the catalog.
// Keys that parse as UUIDs are resolved against article IDs, everything else
// against source URLs. Only confirmed hits are cached; absence is never
// cached because it can go stale the moment a concurrent ingestion commits.
func (r *batchResolver) ResolveExisting(ctx context.Context, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(keys))

	var missURLs []string
	var missIDs []uuid.UUID
	idKeys := make(map[uuid.UUID]string)

	// Phase 1: cheap in-memory cache checks.
	for _, key := range keys {
		if id, err := uuid.Parse(key); err == nil {
			if r.existence.SeenID(id) {
				existing[key] = true
			} else {
				missIDs = append(missIDs, id)
				idKeys[id] = key
			}
			continue
		}

		if r.existence.SeenSourceURL(key) {
			existing[key] = true
		} else {
			missURLs = append(missURLs, key)
		}
	}

	cacheHits := len(existing)

	// Phase 2: chunked storage queries for the remainder.
	for _, chunk := range chunkStrings(missURLs, r.chunkSize) {
		found, err := r.read.FilterExistingSourceURLs(ctx, chunk)
		if err != nil {
			return nil, err
		}

		for _, u := range found {
			existing[u] = true
			r.existence.RecordSourceURL(u)
		}
	}

	for _, chunk := range chunkUUIDs(missIDs, r.chunkSize) {
		found, err := r.read.FilterExistingIDs(ctx, chunk)
		if err != nil {
			return nil, err
		}

		for _, id := range found {
			existing[idKeys[id]] = true
			r.existence.RecordID(id)
		}
	}

	r.logger.InfoContext(ctx, "resolved existing keys",
		"candidates", len(keys), "existing", len(existing), "cache_hits", cacheHits)

	return existing, nil
}

func chunkStrings(items []string, size int) [][]string {
	var chunks [][]string

	for len(items) > size {
		chunks = append(chunks, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}

	return chunks
}

func chunkUUIDs(items []uuid.UUID, size int) [][]uuid.UUID {
	var chunks [][]uuid.UUID

	for len(items) > size {
		chunks = append(chunks, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}

	return chunks
}
