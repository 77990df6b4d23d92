// Package sqlite provides a SQLite-backed vector store for chunk embeddings.
//
// Embeddings are stored as fixed-length little-endian float32 blobs alongside
// the chunk text and metadata, so the index is reconstructible after restart
// without re-embedding. Similarity search is a full scan over the (optionally
// doc-filtered) candidate set; at this scale that is deliberate, and the
// scoring loop stays behind the vector.Store interface so an indexed
// implementation can replace it without touching callers.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

// Store implements vector.Store on a single SQLite database.
type Store struct {
	db     *sql.DB
	dims   int
	logger *zap.Logger

	// mu serializes mutations. Readers go straight to the database; WAL
	// snapshots plus one transaction per reindex guarantee they see either
	// the pre-reindex or the fully committed post-reindex state.
	mu sync.Mutex
}

// Config holds configuration for the SQLite store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the embedding dimension enforced on every write.
	Dimensions int
}

// New opens (creating if needed) a SQLite-backed store.
func New(c Config, logger *zap.Logger) (*Store, error) {
	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// FULL keeps committed writes durable across power loss, which WAL's
	// NORMAL mode does not guarantee.
	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA synchronous=FULL`,
		`PRAGMA foreign_keys=ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			doc_id      TEXT PRIMARY KEY,
			doc_name    TEXT NOT NULL,
			source_type TEXT NOT NULL DEFAULT '',
			version     INTEGER NOT NULL DEFAULT 1,
			chunks      INTEGER NOT NULL DEFAULT 0,
			indexed_at  TIMESTAMP NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			chunk_id     TEXT PRIMARY KEY,
			doc_id       TEXT NOT NULL,
			doc_name     TEXT NOT NULL,
			section      TEXT NOT NULL DEFAULT '',
			ordinal      INTEGER NOT NULL,
			start_offset INTEGER NOT NULL DEFAULT 0,
			end_offset   INTEGER NOT NULL DEFAULT 0,
			text         TEXT NOT NULL,
			doc_version  INTEGER NOT NULL DEFAULT 1,
			embedding    BLOB NOT NULL,
			created_at   TIMESTAMP NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating doc_id index: %w", err)
	}

	logger.Info("sqlite vector store opened",
		zap.String("db_path", c.DBPath),
		zap.Int("dimensions", c.Dimensions),
	)

	return &Store{db: db, dims: c.Dimensions, logger: logger}, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// deserializeFloat32 converts a little-endian byte slice back to float32s.
func deserializeFloat32(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d: must be divisible by 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

func (s *Store) checkDims(e *vector.Entry) error {
	if len(e.Embedding) != s.dims {
		return fmt.Errorf("%w: chunk %s has %d dimensions, store expects %d",
			vector.ErrDimensionMismatch, e.ChunkID, len(e.Embedding), s.dims)
	}
	return nil
}

// Upsert stores entries, overwriting on repeated chunk IDs.
func (s *Store) Upsert(ctx context.Context, entries []vector.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("upserted chunks", zap.Int("count", len(entries)))
	return nil
}

func (s *Store) insertEntries(ctx context.Context, tx *sql.Tx, entries []vector.Entry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO chunks
			(chunk_id, doc_id, doc_name, section, ordinal, start_offset,
			 end_offset, text, doc_version, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]
		if err := s.checkDims(e); err != nil {
			return err
		}
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			e.ChunkID, e.DocID, e.DocName, e.Section, e.Ordinal,
			e.StartOffset, e.EndOffset, e.Text, e.DocVersion,
			serializeFloat32(e.Embedding), createdAt,
		); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", e.ChunkID, err)
		}
	}
	return nil
}

// DeleteDoc removes a document record and every chunk belonging to it.
func (s *Store) DeleteDoc(ctx context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("deleting chunks for doc %s: %w", docID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("deleting document %s: %w", docID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("deleted document", zap.String("doc_id", docID))
	return nil
}

// ReplaceDoc atomically swaps a document's chunk set. Delete and re-insert
// happen in one transaction, so a concurrent search sees either the old or
// the new index state for the document, never a mix.
func (s *Store) ReplaceDoc(ctx context.Context, doc vector.DocRecord, entries []vector.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE doc_id = ?`, doc.DocID); err != nil {
		return fmt.Errorf("deleting chunks for doc %s: %w", doc.DocID, err)
	}

	indexedAt := doc.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents
			(doc_id, doc_name, source_type, version, chunks, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.DocID, doc.DocName, doc.SourceType, doc.Version, len(entries), indexedAt); err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.DocID, err)
	}

	if err := s.insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("reindexed document",
		zap.String("doc_id", doc.DocID),
		zap.String("doc_name", doc.DocName),
		zap.Int("version", doc.Version),
		zap.Int("chunks", len(entries)),
	)
	return nil
}

// Search scans the candidate set (restricted by the filter before any
// scoring), computes dot-product similarity against each candidate, and
// returns up to topK results by descending score. Ties break by ascending
// chunk ordinal, then chunk ID, for determinism.
func (s *Store) Search(ctx context.Context, query []float32, topK int, f vector.Filter) ([]vector.Result, error) {
	if topK <= 0 {
		topK = 10
	}
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store expects %d",
			vector.ErrDimensionMismatch, len(query), s.dims)
	}

	q := `
		SELECT chunk_id, doc_id, doc_name, section, ordinal, start_offset,
		       end_offset, text, doc_version, embedding, created_at
		FROM chunks
	`
	var args []any
	if f.DocID != "" {
		q += ` WHERE doc_id = ?`
		args = append(args, f.DocID)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []vector.Result
	for rows.Next() {
		var e vector.Entry
		var blob []byte
		if err := rows.Scan(
			&e.ChunkID, &e.DocID, &e.DocName, &e.Section, &e.Ordinal,
			&e.StartOffset, &e.EndOffset, &e.Text, &e.DocVersion,
			&blob, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if len(blob) != s.dims*4 {
			return nil, fmt.Errorf("%w: chunk %s stored with %d bytes, store expects %d",
				vector.ErrDimensionMismatch, e.ChunkID, len(blob), s.dims*4)
		}
		emb, err := deserializeFloat32(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for chunk %s: %w", e.ChunkID, err)
		}
		e.Embedding = emb
		results = append(results, vector.Result{Entry: e, Score: vector.Score(query, emb)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
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

	s.logger.Debug("searched chunks",
		zap.Int("results", len(results)),
		zap.String("doc_filter", f.DocID),
	)
	return results, nil
}

// Docs lists indexed documents ordered by name.
func (s *Store) Docs(ctx context.Context) ([]vector.DocRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, doc_name, source_type, version, chunks, indexed_at
		FROM documents ORDER BY doc_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []vector.DocRecord
	for rows.Next() {
		var d vector.DocRecord
		if err := rows.Scan(&d.DocID, &d.DocName, &d.SourceType, &d.Version, &d.Chunks, &d.IndexedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Doc returns one document record, or vector.ErrNotFound.
func (s *Store) Doc(ctx context.Context, docID string) (*vector.DocRecord, error) {
	var d vector.DocRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT doc_id, doc_name, source_type, version, chunks, indexed_at
		FROM documents WHERE doc_id = ?
	`, docID).Scan(&d.DocID, &d.DocName, &d.SourceType, &d.Version, &d.Chunks, &d.IndexedAt)
	if err == sql.ErrNoRows {
		return nil, vector.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document %s: %w", docID, err)
	}
	return &d, nil
}

// Reset drops every document and chunk.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ vector.Store = (*Store)(nil)
