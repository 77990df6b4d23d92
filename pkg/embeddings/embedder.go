// Package embeddings
package embeddings

import "context"

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a unit-normalized vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed dimension of produced vectors.
	Dimensions() int

	// Close releases any resources held by the embedder.
	Close() error
}
