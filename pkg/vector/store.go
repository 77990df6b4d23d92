// Package vector provides types and interfaces for durable chunk embedding
// storage and similarity search.
package vector

import (
	"context"
	"time"
)

// Entry is a stored chunk with its embedding and metadata. One Entry per
// chunk of a document version; entries for a document are replaced as a unit
// when the document is re-indexed.
type Entry struct {
	// ChunkID uniquely identifies the chunk across the whole index
	// (doc ID plus zero-padded ordinal).
	ChunkID string

	// DocID identifies the owning document.
	DocID string

	// DocName is the human-readable document name, carried for citations.
	DocName string

	// Section is the detected section label the chunk was cut from.
	Section string

	// Ordinal is the chunk's position within its document, strictly
	// increasing per document version.
	Ordinal int

	// StartOffset and EndOffset locate the chunk text in the normalized
	// document text.
	StartOffset int
	EndOffset   int

	// Text is the chunk content, stored verbatim so callers can quote it.
	Text string

	// DocVersion is the document version this entry was derived from.
	DocVersion int

	// Embedding is the unit-normalized vector for the chunk text.
	Embedding []float32

	// CreatedAt is when the entry was persisted.
	CreatedAt time.Time
}

// Result is a search hit with its similarity score.
type Result struct {
	Entry

	// Score is the cosine similarity against the query vector, in [0, 1].
	Score float32
}

// DocRecord describes an indexed document.
type DocRecord struct {
	DocID      string
	DocName    string
	SourceType string
	Version    int
	Chunks     int
	IndexedAt  time.Time
}

// Filter restricts the candidate set of a search before scoring. The zero
// value matches every entry. Fields are typed and named rather than an open
// key-value map so matching stays total.
type Filter struct {
	// DocID, when non-empty, restricts candidates to that document's chunks.
	DocID string
}

// Matches reports whether the entry satisfies the filter.
func (f Filter) Matches(e *Entry) bool {
	return f.DocID == "" || f.DocID == e.DocID
}

// Store handles durable persistence and similarity search over chunk
// embeddings. Implementations serialize mutations (single writer) so readers
// observe either the pre-reindex or the fully committed post-reindex state of
// a document, never a partial one.
type Store interface {
	// Upsert stores entries, overwriting any existing entry with the same
	// ChunkID. Idempotent.
	Upsert(ctx context.Context, entries []Entry) error

	// DeleteDoc removes every entry for a document along with its record.
	DeleteDoc(ctx context.Context, docID string) error

	// ReplaceDoc atomically swaps a document's entries: existing entries
	// are deleted and the new set inserted in a single committed unit.
	ReplaceDoc(ctx context.Context, doc DocRecord, entries []Entry) error

	// Search applies the filter to the candidate set before scoring, then
	// returns up to topK results by descending dot-product similarity.
	// Equal scores break ties by ascending chunk ordinal.
	Search(ctx context.Context, query []float32, topK int, f Filter) ([]Result, error)

	// Docs lists the indexed documents ordered by name.
	Docs(ctx context.Context) ([]DocRecord, error)

	// Doc returns the record for one document, or ErrNotFound.
	Doc(ctx context.Context, docID string) (*DocRecord, error)

	// Reset drops every document and entry from the store.
	Reset(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Score computes the dot product of two vectors, which equals cosine
// similarity when both are unit-normalized. The result is clamped to [0, 1];
// a zero vector on either side scores 0. Mismatched lengths score only the
// shared prefix, the caller is expected to have validated dimensions.
func Score(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float32
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}
