package config

const (
	defaultStorageProvider = "sqlite"
	defaultSQLitePath      = "screener.db"

	defaultMaxChars     = 1200
	defaultOverlapChars = 150

	defaultEmbeddingProvider   = "hashing"
	defaultEmbeddingDimensions = 384

	defaultTopK     = 6
	defaultMinScore = 0.25

	// An empty LLM provider means generation is disabled and the system
	// returns evidence-only summaries.
	defaultLLMProvider = ""
	defaultLLMTarget   = "http://localhost:11434"
	defaultLLMModel    = "llama3.1"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Provider:   defaultStorageProvider,
			SQLitePath: defaultSQLitePath,
		},
		Chunking: ChunkingConfig{
			MaxChars:     defaultMaxChars,
			OverlapChars: defaultOverlapChars,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Dimensions: defaultEmbeddingDimensions,
		},
		Retrieval: RetrievalConfig{
			TopK:     defaultTopK,
			MinScore: defaultMinScore,
		},
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Target:   defaultLLMTarget,
			Model:    defaultLLMModel,
		},
	}
}
