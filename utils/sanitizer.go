package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans incoming article body HTML before it is persisted.
type Sanitizer struct {
	body  *bluemonday.Policy
	strip *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer with a reader-display oriented policy:
// user-generated-content defaults plus figures, with scripts, forms and
// event handlers removed.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption")
	p.RequireNoFollowOnLinks(true)

	return &Sanitizer{
		body:  p,
		strip: bluemonday.StrictPolicy(),
	}
}

// SanitizeBody sanitizes article body HTML and trims surrounding whitespace.
func (s *Sanitizer) SanitizeBody(html string) string {
	return strings.TrimSpace(s.body.Sanitize(html))
}

// PlainText strips all markup, for logging and excerpt purposes.
func (s *Sanitizer) PlainText(html string) string {
	return strings.TrimSpace(s.strip.Sanitize(html))
}
