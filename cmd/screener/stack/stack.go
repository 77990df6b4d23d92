// Package stack wires the configured providers into the runtime components
// the screener commands share: store, embedder, retriever, and screener.
package stack

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/chunker"
	"github.com/AISHITA-10/ai-resume-screener/pkg/config"
	"github.com/AISHITA-10/ai-resume-screener/pkg/embeddings"
	embeddingutils "github.com/AISHITA-10/ai-resume-screener/pkg/embeddings/utils"
	"github.com/AISHITA-10/ai-resume-screener/pkg/ingest"
	"github.com/AISHITA-10/ai-resume-screener/pkg/llm"
	llmutils "github.com/AISHITA-10/ai-resume-screener/pkg/llm/utils"
	"github.com/AISHITA-10/ai-resume-screener/pkg/logger"
	"github.com/AISHITA-10/ai-resume-screener/pkg/retriever"
	"github.com/AISHITA-10/ai-resume-screener/pkg/screening"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
	vectorutils "github.com/AISHITA-10/ai-resume-screener/pkg/vector/utils"
)

// Stack holds the wired runtime components for one command invocation.
type Stack struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     vector.Store
	Embedder  embeddings.Embedder
	Completer llm.Completer
	Retriever *retriever.Retriever
	Screener  *screening.Screener
	Ingestor  *ingest.Ingestor
}

// Build loads the configuration from configDir and wires every component.
// Callers must Close the returned stack.
func Build(configDir string, debug bool) (*Stack, error) {
	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.NewLogger(debug)

	store, err := vectorutils.NewStore(&vectorutils.NewStoreOpts{
		ProviderType: cfg.Storage.Provider,
		SQLitePath:   cfg.Storage.SQLitePath,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		Dimensions:   cfg.Embedding.Dimensions,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	completer, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
		ProviderType: cfg.LLM.Provider,
		TargetURL:    cfg.LLM.Target,
		Model:        cfg.LLM.Model,
	})
	if err != nil {
		store.Close()
		embedder.Close()
		return nil, fmt.Errorf("creating completion client: %w", err)
	}

	ret := retriever.New(embedder, store, retriever.Config{
		TopK:     cfg.Retrieval.TopK,
		MinScore: float32(cfg.Retrieval.MinScore),
	}, log)

	ch := chunker.New(chunker.Config{
		MaxChars:     cfg.Chunking.MaxChars,
		OverlapChars: cfg.Chunking.OverlapChars,
	})

	return &Stack{
		Config:    cfg,
		Logger:    log,
		Store:     store,
		Embedder:  embedder,
		Completer: completer,
		Retriever: ret,
		Screener:  screening.New(ret, store, completer, log),
		Ingestor:  ingest.New(ch, embedder, store, log),
	}, nil
}

// Close releases the stack's resources.
func (s *Stack) Close() {
	if s.Completer != nil {
		_ = s.Completer.Close()
	}
	_ = s.Embedder.Close()
	_ = s.Store.Close()
	_ = s.Logger.Sync()
}

// ResolveDocs maps user-supplied document references to document IDs. A
// reference matches on exact doc ID first, then on doc name.
func (s *Stack) ResolveDocs(ctx context.Context, refs []string) ([]string, error) {
	docs, err := s.Store.Docs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	byID := make(map[string]struct{}, len(docs))
	byName := make(map[string]string, len(docs))
	for _, d := range docs {
		byID[d.DocID] = struct{}{}
		byName[d.DocName] = d.DocID
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := byID[ref]; ok {
			ids = append(ids, ref)
			continue
		}
		if id, ok := byName[ref]; ok {
			ids = append(ids, id)
			continue
		}
		return nil, fmt.Errorf("document not found: %s", ref)
	}
	return ids, nil
}

// AllDocIDs returns the IDs of every indexed document, ordered by name.
func (s *Stack) AllDocIDs(ctx context.Context) ([]string, error) {
	docs, err := s.Store.Docs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.DocID)
	}
	return ids, nil
}
