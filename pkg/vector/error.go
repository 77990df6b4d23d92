package vector

import "errors"

var (
	// ErrNotFound is returned when a document is not present in the store.
	ErrNotFound = errors.New("document not found")

	// ErrDimensionMismatch is returned when an embedding's dimension does
	// not match the store's configured dimension. This signals configuration
	// drift and requires re-embedding the corpus before queries are trusted.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStoreUnavailable is returned when a persist operation keeps failing
	// after a retry.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)
