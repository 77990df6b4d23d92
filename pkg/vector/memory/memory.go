// Package memory provides an in-memory vector.Store for tests and
// ephemeral runs. Nothing is persisted across process restarts.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

// Store implements vector.Store over process memory.
type Store struct {
	mu      sync.RWMutex
	dims    int
	entries map[string]vector.Entry     // keyed by chunk ID
	docs    map[string]vector.DocRecord // keyed by doc ID
}

// New creates an in-memory store enforcing the given embedding dimension.
func New(dims int) (*Store, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be configured")
	}
	return &Store{
		dims:    dims,
		entries: make(map[string]vector.Entry),
		docs:    make(map[string]vector.DocRecord),
	}, nil
}

func (s *Store) checkDims(e *vector.Entry) error {
	if len(e.Embedding) != s.dims {
		return fmt.Errorf("%w: chunk %s has %d dimensions, store expects %d",
			vector.ErrDimensionMismatch, e.ChunkID, len(e.Embedding), s.dims)
	}
	return nil
}

// Upsert stores entries, overwriting on repeated chunk IDs.
func (s *Store) Upsert(_ context.Context, entries []vector.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range entries {
		e := entries[i]
		if err := s.checkDims(&e); err != nil {
			return err
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		s.entries[e.ChunkID] = e
	}
	return nil
}

// DeleteDoc removes a document record and all of its chunks.
func (s *Store) DeleteDoc(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteDocLocked(docID)
	return nil
}

func (s *Store) deleteDocLocked(docID string) {
	for id, e := range s.entries {
		if e.DocID == docID {
			delete(s.entries, id)
		}
	}
	delete(s.docs, docID)
}

// ReplaceDoc swaps a document's chunk set under one lock acquisition, so
// readers never observe a partially reindexed document.
func (s *Store) ReplaceDoc(_ context.Context, doc vector.DocRecord, entries []vector.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range entries {
		if err := s.checkDims(&entries[i]); err != nil {
			return err
		}
	}

	s.deleteDocLocked(doc.DocID)

	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now().UTC()
	}
	doc.Chunks = len(entries)
	s.docs[doc.DocID] = doc

	for i := range entries {
		e := entries[i]
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		s.entries[e.ChunkID] = e
	}
	return nil
}

// Search filters candidates before scoring, then ranks by descending score
// with ties broken by ascending ordinal, then chunk ID.
func (s *Store) Search(_ context.Context, query []float32, topK int, f vector.Filter) ([]vector.Result, error) {
	if topK <= 0 {
		topK = 10
	}
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store expects %d",
			vector.ErrDimensionMismatch, len(query), s.dims)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []vector.Result
	for _, e := range s.entries {
		if !f.Matches(&e) {
			continue
		}
		results = append(results, vector.Result{Entry: e, Score: vector.Score(query, e.Embedding)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Ordinal != results[j].Ordinal {
			return results[i].Ordinal < results[j].Ordinal
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Docs lists indexed documents ordered by name.
func (s *Store) Docs(_ context.Context) ([]vector.DocRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]vector.DocRecord, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].DocName < docs[j].DocName })
	return docs, nil
}

// Doc returns one document record, or vector.ErrNotFound.
func (s *Store) Doc(_ context.Context, docID string) (*vector.DocRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[docID]
	if !ok {
		return nil, vector.ErrNotFound
	}
	return &d, nil
}

// Reset drops every document and chunk.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]vector.Entry)
	s.docs = make(map[string]vector.DocRecord)
	return nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return nil
}

var _ vector.Store = (*Store)(nil)
