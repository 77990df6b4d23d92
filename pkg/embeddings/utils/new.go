// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/AISHITA-10/ai-resume-screener/pkg/embeddings"
	"github.com/AISHITA-10/ai-resume-screener/pkg/embeddings/hashing"
)

type NewEmbedderOpts struct {
	ProviderType string
	Dimensions   int
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "hashing", "local":
		return hashing.New(hashing.Config{Dimensions: o.Dimensions}), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
