// ABOUTME: Domain-level sentinel errors for the article-store coordinator
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import (
	"context"
	"errors"
)

// Ingestion errors
var (
	// ErrInvalidIdentity indicates no article ID could be extracted from the
	// document's canonical URL. Unrecoverable per item; the item is skipped.
	ErrInvalidIdentity = errors.New("invalid article identity")

	// ErrDuplicate indicates the identity was already ingested or is being
	// ingested right now. Benign; callers treat it as success.
	ErrDuplicate = errors.New("duplicate article")

	// ErrInvalidDocument indicates a remote document is missing required
	// fields (title, body). The document never reaches the pipeline.
	ErrInvalidDocument = errors.New("invalid remote document")
)

// Storage errors
var (
	// ErrArticleNotFound indicates the requested article does not exist.
	ErrArticleNotFound = errors.New("article not found")

	// ErrStorageFailure indicates a transaction could not be committed.
	ErrStorageFailure = errors.New("storage failure")
)

// Network errors
var (
	// ErrNetworkFailure indicates a remote fetch failed.
	ErrNetworkFailure = errors.New("network failure")

	// ErrNetworkTimeout is a timeout sub-class of ErrNetworkFailure.
	ErrNetworkTimeout = errors.New("network timeout")

	// ErrRemoteNotFound indicates the remote source has no document at the
	// requested URL.
	ErrRemoteNotFound = errors.New("remote document not found")
)

// IsBenign reports whether err may be counted as success by batch callers.
func IsBenign(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsSkippable reports whether err means the item should be skipped without
// counting as a failure.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrInvalidIdentity) || errors.Is(err, ErrInvalidDocument)
}

// IsCancellation reports whether err stems from cooperative cancellation.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
