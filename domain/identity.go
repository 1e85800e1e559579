package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// uuidLiteralLen is the length of the canonical 36-character UUID literal.
const uuidLiteralLen = 36

// ExtractArticleID extracts the article ID from a canonical source URL.
//
// Canonical URLs embed the UUID literal as the leading 36 characters of the
// final path segment (e.g. ".../3fa85f64-5717-4562-b3fc-2c963f66afa6.json").
// This is deliberate pattern matching against that fixed position, not
// general URL parsing; any other URL scheme needs a different extraction
// strategy. Returns ErrInvalidIdentity when no literal is present.
func ExtractArticleID(sourceURL string) (uuid.UUID, error) {
	segment := sourceURL

	// Drop query and fragment before slicing the path.
	if i := strings.IndexAny(segment, "?#"); i >= 0 {
		segment = segment[:i]
	}
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}

	if len(segment) < uuidLiteralLen {
		return uuid.Nil, fmt.Errorf("%w: no UUID literal in %q", ErrInvalidIdentity, sourceURL)
	}

	id, err := uuid.Parse(segment[:uuidLiteralLen])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q: %v", ErrInvalidIdentity, sourceURL, err)
	}

	return id, nil
}
