package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article represents a catalog entry.
type Article struct {
	AddedDate    time.Time   `db:"added_date" json:"added_date"`
	PublishDate  time.Time   `db:"publish_date" json:"publish_date"`
	ID           uuid.UUID   `db:"id" json:"id"`
	SourceURL    string      `db:"source_url" json:"source_url"`
	OriginalURL  string      `db:"original_url" json:"original_url,omitempty"`
	Title        string      `db:"title" json:"title"`
	Body         string      `db:"body" json:"body"`
	Domain       string      `db:"domain" json:"domain,omitempty"`
	Topic        string      `db:"topic" json:"topic,omitempty"`
	Analysis     string      `db:"analysis" json:"analysis,omitempty"`
	Engine       string      `db:"engine" json:"engine,omitempty"`
	Related      []uuid.UUID `db:"related" json:"related,omitempty"`
	QualityScore float64     `db:"quality_score" json:"quality_score"`
	ProcessingMS int64       `db:"processing_ms" json:"processing_ms,omitempty"`
	IsViewed     bool        `db:"is_viewed" json:"is_viewed"`
	IsBookmarked bool        `db:"is_bookmarked" json:"is_bookmarked"`
}

// MergeContent copies content fields from incoming into the receiver,
// leaving identity, AddedDate and the user-state flags untouched.
// Re-ingestion must never overwrite IsViewed or IsBookmarked.
func (a *Article) MergeContent(incoming *Article) {
	a.Title = incoming.Title
	a.Body = incoming.Body
	a.Domain = incoming.Domain
	a.Topic = incoming.Topic
	a.PublishDate = incoming.PublishDate
	a.QualityScore = incoming.QualityScore
	a.Analysis = incoming.Analysis
	a.Engine = incoming.Engine
	a.ProcessingMS = incoming.ProcessingMS
	a.Related = incoming.Related

	if a.OriginalURL == "" {
		a.OriginalURL = incoming.OriginalURL
	}
}

// SeenMarker is the append-only first-ingestion ledger entry. It is created
// once, in the same transaction as the first Article insert, and never
// mutated afterwards.
type SeenMarker struct {
	FirstSeenAt time.Time `db:"first_seen_at"`
	ID          uuid.UUID `db:"id"`
	SourceURL   string    `db:"source_url"`
}

// SyncSummary aggregates per-item outcomes of one topic sync. Batch callers
// only ever see these counts, never per-item results.
type SyncSummary struct {
	Topic   string `json:"topic"`
	Success int    `json:"success"`
	Failure int    `json:"failure"`
	Skipped int    `json:"skipped"`
}

// Total returns the number of candidate items the sync accounted for.
func (s SyncSummary) Total() int {
	return s.Success + s.Failure + s.Skipped
}

// IngestOutcome reports how the pipeline disposed of one document.
type IngestOutcome int

const (
	// IngestInserted means a new Article and SeenMarker were created.
	IngestInserted IngestOutcome = iota
	// IngestUpdated means an existing Article had its content merged.
	IngestUpdated
	// IngestDuplicate means the document was already handled (guard hit,
	// racing insert, or a retained marker for a deleted Article).
	IngestDuplicate
)

func (o IngestOutcome) String() string {
	switch o {
	case IngestInserted:
		return "inserted"
	case IngestUpdated:
		return "updated"
	case IngestDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}
