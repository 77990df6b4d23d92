// Package hashing implements a deterministic, dependency-free embedder that
// hashes tokens and adjacent token pairs into a fixed number of accumulator
// slots and L2-normalizes the result. Identical text always yields an
// identical vector; no external calls are made.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/AISHITA-10/ai-resume-screener/pkg/embeddings"
)

// DefaultDimensions is the default embedding dimension.
const DefaultDimensions = 384

// bigramWeight down-weights token pairs relative to single tokens.
const bigramWeight = 0.5

// tokenRe keeps alphanumerics plus the symbols that matter in tech resumes
// (c++, c#, .net, node.js).
var tokenRe = regexp.MustCompile(`[a-z0-9+#.\-]{2,}`)

// Embedder is a hashing embedder. The zero value is not usable; use New.
type Embedder struct {
	dims int
}

// Config holds configuration for the hashing embedder.
type Config struct {
	// Dimensions is the vector dimension. Defaults to DefaultDimensions.
	Dimensions int
}

// New creates a hashing embedder.
func New(cfg Config) *Embedder {
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// Embed converts text into a unit-normalized vector. Text with no tokens
// yields the zero vector, whose similarity against anything is 0.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, e.dims)
	tokens := tokenRe.FindAllString(strings.ToLower(text), -1)

	for i, tok := range tokens {
		v[e.slot(tok)]++
		if i+1 < len(tokens) {
			v[e.slot(tok+"_"+tokens[i+1])] += bigramWeight
		}
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v, nil
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v, nil
}

// slot maps a token to an accumulator index.
func (e *Embedder) slot(s string) int {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int(h.Sum64() % uint64(e.dims))
}

// Dimensions returns the fixed vector dimension.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
