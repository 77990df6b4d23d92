package ingest

import "errors"

var (
	// ErrEmptyDocument is returned when a document normalizes to nothing.
	// It is an ingestion warning scoped to one document, not a batch
	// failure.
	ErrEmptyDocument = errors.New("document has no extractable text")

	// ErrUnsupportedType is returned for file types the loader cannot
	// read. Binary extraction is an external collaborator's job.
	ErrUnsupportedType = errors.New("unsupported document type")
)
