// Package config loads screener configuration from defaults, an optional
// config.toml, and SCREENER_* environment variables, in increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved screener configuration.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	LLM       LLMConfig       `mapstructure:"llm"`
}

// StorageConfig holds vector store settings.
type StorageConfig struct {
	// Provider selects the store backend ("sqlite" or "memory").
	Provider string `mapstructure:"provider"`

	// SQLitePath is the database file path for the sqlite provider.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ChunkingConfig holds chunker bounds.
type ChunkingConfig struct {
	MaxChars     int `mapstructure:"max_chars"`
	OverlapChars int `mapstructure:"overlap_chars"`
}

// EmbeddingConfig holds embedder settings.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Dimensions int    `mapstructure:"dimensions"`
}

// RetrievalConfig holds retriever settings.
type RetrievalConfig struct {
	TopK     int     `mapstructure:"top_k"`
	MinScore float64 `mapstructure:"min_score"`
}

// LLMConfig holds optional completion service settings. An empty provider
// disables generation; the system then returns evidence-only summaries.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Target   string `mapstructure:"target"`
	Model    string `mapstructure:"model"`
}

// InitViper creates a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.toml from the given
// directory (or the current directory and ~/.screener when empty), and binds
// environment variables with the SCREENER_ prefix.
//
// Config precedence (highest to lowest):
//  1. Environment variables (SCREENER_RETRIEVAL_TOP_K, etc.)
//  2. config.toml file values
//  3. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".screener"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("SCREENER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load resolves the full configuration from a prepared viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of
// truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("storage.provider", d.Storage.Provider)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)

	v.SetDefault("chunking.max_chars", d.Chunking.MaxChars)
	v.SetDefault("chunking.overlap_chars", d.Chunking.OverlapChars)

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	v.SetDefault("retrieval.top_k", d.Retrieval.TopK)
	v.SetDefault("retrieval.min_score", d.Retrieval.MinScore)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.target", d.LLM.Target)
	v.SetDefault("llm.model", d.LLM.Model)
}
