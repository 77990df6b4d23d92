// Package ingest turns raw documents into indexed, citable chunks: normalize,
// chunk, embed, and atomically persist. Failures are isolated per document so
// one bad file never aborts a batch.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/chunker"
	"github.com/AISHITA-10/ai-resume-screener/pkg/embeddings"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

// embedWorkers bounds parallel embedding. Embedding is pure CPU work over
// immutable input, so chunks of one document can be embedded concurrently.
const embedWorkers = 4

// storeRetryDelay is the backoff before the single persist retry.
const storeRetryDelay = 250 * time.Millisecond

// Ingestor drives the document indexing pipeline.
type Ingestor struct {
	chunker  *chunker.Chunker
	embedder embeddings.Embedder
	store    vector.Store
	logger   *zap.Logger
}

// New creates an Ingestor.
func New(ch *chunker.Chunker, embedder embeddings.Embedder, store vector.Store, logger *zap.Logger) *Ingestor {
	return &Ingestor{chunker: ch, embedder: embedder, store: store, logger: logger}
}

// IngestFile loads, chunks, embeds, and indexes one file.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (*vector.DocRecord, error) {
	raw, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return in.IngestText(ctx, raw.Name, raw.SourceType, raw.Text)
}

// IngestText indexes one document from already-extracted text. Re-ingesting
// a known document name increments its version and atomically replaces its
// chunk set; search never observes a partially reindexed document.
func (in *Ingestor) IngestText(ctx context.Context, name, sourceType, raw string) (*vector.DocRecord, error) {
	normalized := chunker.Normalize(raw)
	if normalized == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}

	docID, version, err := in.resolveDoc(ctx, name)
	if err != nil {
		return nil, err
	}

	chunks := in.chunker.Split(docID, normalized)
	entries, err := in.embedChunks(ctx, chunks, name, version)
	if err != nil {
		return nil, err
	}

	doc := vector.DocRecord{
		DocID:      docID,
		DocName:    name,
		SourceType: sourceType,
		Version:    version,
		Chunks:     len(entries),
		IndexedAt:  time.Now().UTC(),
	}

	if err := in.replaceWithRetry(ctx, doc, entries); err != nil {
		return nil, err
	}

	in.logger.Info("indexed document",
		zap.String("doc_id", docID),
		zap.String("doc_name", name),
		zap.Int("version", version),
		zap.Int("chunks", len(entries)),
	)
	return &doc, nil
}

// resolveDoc reuses the doc ID of a previously indexed document with the
// same name (bumping its version) or mints a fresh one.
func (in *Ingestor) resolveDoc(ctx context.Context, name string) (string, int, error) {
	docs, err := in.store.Docs(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("listing documents: %w", err)
	}
	for _, d := range docs {
		if d.DocName == name {
			return d.DocID, d.Version + 1, nil
		}
	}
	return uuid.NewString(), 1, nil
}

// embedChunks embeds chunks with a bounded worker pool, preserving order.
func (in *Ingestor) embedChunks(ctx context.Context, chunks []chunker.Chunk, docName string, version int) ([]vector.Entry, error) {
	entries := make([]vector.Entry, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, embedWorkers)
	for i := range chunks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			c := &chunks[i]
			emb, err := in.embedder.Embed(ctx, c.Text)
			if err != nil {
				errs[i] = fmt.Errorf("embedding chunk %s: %w", c.ChunkID, err)
				return
			}
			entries[i] = vector.Entry{
				ChunkID:     c.ChunkID,
				DocID:       c.DocID,
				DocName:     docName,
				Section:     c.Section,
				Ordinal:     c.Ordinal,
				StartOffset: c.StartOffset,
				EndOffset:   c.EndOffset,
				Text:        c.Text,
				DocVersion:  version,
				Embedding:   emb,
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// replaceWithRetry persists the reindex, retrying once with backoff on store
// failure. Dimension mismatches signal configuration drift and are never
// retried.
func (in *Ingestor) replaceWithRetry(ctx context.Context, doc vector.DocRecord, entries []vector.Entry) error {
	err := in.store.ReplaceDoc(ctx, doc, entries)
	if err == nil {
		return nil
	}
	if errors.Is(err, vector.ErrDimensionMismatch) {
		return err
	}

	in.logger.Warn("store write failed, retrying",
		zap.String("doc_id", doc.DocID),
		zap.Error(err),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(storeRetryDelay):
	}

	if err := in.store.ReplaceDoc(ctx, doc, entries); err != nil {
		return fmt.Errorf("%w: %v", vector.ErrStoreUnavailable, err)
	}
	return nil
}

// BatchFailure records why one document in a batch was skipped.
type BatchFailure struct {
	Path string
	Err  error
}

// BatchReport summarizes an ingestion batch.
type BatchReport struct {
	Indexed  []vector.DocRecord
	Failures []BatchFailure
}

// IngestBatch indexes each path independently. A document that fails to
// load, normalize, or embed is logged and skipped; the rest of the batch
// proceeds.
func (in *Ingestor) IngestBatch(ctx context.Context, paths []string) (*BatchReport, error) {
	report := &BatchReport{}
	for _, path := range paths {
		doc, err := in.IngestFile(ctx, path)
		if err != nil {
			// Store unavailability is corpus-level: later documents
			// would fail the same way.
			if errors.Is(err, vector.ErrStoreUnavailable) {
				return report, err
			}
			in.logger.Warn("skipping document",
				zap.String("path", path),
				zap.Error(err),
			)
			report.Failures = append(report.Failures, BatchFailure{Path: path, Err: err})
			continue
		}
		report.Indexed = append(report.Indexed, *doc)
	}
	return report, nil
}
