// Package retriever composes embedding, similarity search, and confidence
// gating into a single query contract. A query either yields citation-bearing
// evidence or a Refusal; never both, and never an unsourced answer.
package retriever

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/embeddings"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

const (
	// DefaultTopK is the default number of evidence chunks returned.
	DefaultTopK = 6

	// DefaultMinScore is the default relevance threshold below which a
	// query is refused instead of answered.
	DefaultMinScore = 0.25
)

// Citation is one piece of retrieved evidence, carrying enough identity for
// the caller to quote exact source text.
type Citation struct {
	ChunkID     string  `json:"chunk_id"`
	DocID       string  `json:"doc_id"`
	DocName     string  `json:"doc_name"`
	Section     string  `json:"section"`
	Text        string  `json:"text"`
	Score       float32 `json:"score"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
}

// Refusal is a first-class terminal outcome, not an error: retrieval
// confidence fell below the configured threshold, so no evidence (and no
// generated text) is produced for the query.
type Refusal struct {
	Reason    string  `json:"reason"`
	BestScore float32 `json:"best_score"`
	Threshold float32 `json:"threshold"`
}

// Retrieval is the outcome of one guarded query: either Evidence is
// non-empty and Refusal is nil, or Evidence is empty and Refusal is set.
type Retrieval struct {
	Evidence []Citation `json:"evidence,omitempty"`
	Refusal  *Refusal   `json:"refusal,omitempty"`
}

// Refused reports whether the query was refused.
func (r *Retrieval) Refused() bool {
	return r.Refusal != nil
}

// Best returns the top evidence score, or 0 when refused.
func (r *Retrieval) Best() float32 {
	if len(r.Evidence) == 0 {
		return 0
	}
	return r.Evidence[0].Score
}

// Config holds retriever settings.
type Config struct {
	// TopK is how many chunks to retrieve. Defaults to DefaultTopK.
	TopK int

	// MinScore is the confidence gate. Defaults to DefaultMinScore.
	// The gate runs before any text is handed to a generative step.
	MinScore float32
}

// Retriever runs guarded queries against a store through an embedder.
type Retriever struct {
	embedder embeddings.Embedder
	store    vector.Store
	topK     int
	minScore float32
	logger   *zap.Logger
}

// New creates a Retriever.
func New(embedder embeddings.Embedder, store vector.Store, cfg Config, logger *zap.Logger) *Retriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	minScore := cfg.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		topK:     topK,
		minScore: minScore,
		logger:   logger,
	}
}

// TopK returns the configured evidence count.
func (r *Retriever) TopK() int { return r.topK }

// MinScore returns the configured confidence gate.
func (r *Retriever) MinScore() float32 { return r.minScore }

// Query embeds the text, searches the store with the given filter applied
// before scoring, and gates the outcome on the best score. Screening and
// comparison flows pass a doc-scoped filter; because filtering happens inside
// the store before scoring, scoped results can only come from that document's
// own chunks.
func (r *Retriever) Query(ctx context.Context, text string, f vector.Filter) (*Retrieval, error) {
	qv, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.store.Search(ctx, qv, r.topK, f)
	if err != nil {
		return nil, fmt.Errorf("searching store: %w", err)
	}

	if len(results) == 0 {
		r.logger.Debug("query refused: no candidates",
			zap.String("doc_filter", f.DocID),
		)
		return &Retrieval{Refusal: &Refusal{
			Reason:    "no relevant context retrieved",
			BestScore: 0,
			Threshold: r.minScore,
		}}, nil
	}

	best := results[0].Score
	if best < r.minScore {
		r.logger.Debug("query refused: below threshold",
			zap.Float32("best_score", best),
			zap.Float32("threshold", r.minScore),
			zap.String("doc_filter", f.DocID),
		)
		return &Retrieval{Refusal: &Refusal{
			Reason:    fmt.Sprintf("low retrieval confidence (best score=%.2f < %.2f)", best, r.minScore),
			BestScore: best,
			Threshold: r.minScore,
		}}, nil
	}

	evidence := make([]Citation, 0, len(results))
	for _, res := range results {
		evidence = append(evidence, Citation{
			ChunkID:     res.ChunkID,
			DocID:       res.DocID,
			DocName:     res.DocName,
			Section:     res.Section,
			Text:        res.Text,
			Score:       res.Score,
			StartOffset: res.StartOffset,
			EndOffset:   res.EndOffset,
		})
	}

	r.logger.Debug("query answered",
		zap.Int("evidence", len(evidence)),
		zap.Float32("best_score", best),
		zap.String("doc_filter", f.DocID),
	)
	return &Retrieval{Evidence: evidence}, nil
}
