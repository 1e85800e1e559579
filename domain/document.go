package domain

import (
	"fmt"
	"time"
)

// ArticleDocument is the typed form of one remote source document. JSON is
// decoded into this fixed record at the boundary; unrecognized keys are
// dropped there and loosely-typed maps never reach the pipeline.
type ArticleDocument struct {
	SourceURL    string    `json:"source_url"`
	OriginalURL  string    `json:"original_url"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Domain       string    `json:"domain"`
	Topic        string    `json:"topic"`
	PublishedAt  time.Time `json:"published_at"`
	QualityScore float64   `json:"quality_score"`
	Analysis     string    `json:"analysis"`
	Engine       string    `json:"engine"`
	ProcessingMS int64     `json:"processing_ms"`
	Related      []string  `json:"related"`
}

// Validate checks the required keys. A document missing title or body is a
// parse failure and never reaches the ingestion pipeline.
func (d *ArticleDocument) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidDocument)
	}
	if d.Body == "" {
		return fmt.Errorf("%w: missing body", ErrInvalidDocument)
	}
	if d.SourceURL == "" {
		return fmt.Errorf("%w: missing source_url", ErrInvalidDocument)
	}

	return nil
}
