package driver

import (
	"context"
	"fmt"

	"article-store/domain"

	"github.com/google/uuid"
)

// HasSeenMarker reports whether a marker exists for id.
func HasSeenMarker(ctx context.Context, q Querier, id uuid.UUID) (bool, error) {
	var count int

	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM seen_markers WHERE id = $1`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check seen marker: %w", err)
	}

	return count > 0, nil
}

// InsertSeenMarker appends a marker to the ledger. Markers are written once
// and never updated.
func InsertSeenMarker(ctx context.Context, q Querier, m *domain.SeenMarker) error {
	query := `
		INSERT INTO seen_markers (id, source_url, first_seen_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := q.Exec(ctx, query, m.ID, m.SourceURL, m.FirstSeenAt)
	if err != nil {
		return fmt.Errorf("failed to insert seen marker: %w", err)
	}

	return nil
}
