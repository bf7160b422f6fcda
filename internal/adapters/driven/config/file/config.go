// Package file provides TOML-backed configuration for docwizard.
// Configuration lives at ~/.docwizard/config.toml unless overridden.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultDirName  = ".docwizard"
	DefaultFileName = "config.toml"
)

// Config is the persisted application configuration. Zero values are
// replaced with defaults on load, so a partial file is valid.
type Config struct {
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Generator GeneratorConfig `toml:"generator"`
	Index     IndexConfig     `toml:"index"`
}

// ChunkingConfig controls the text splitter.
type ChunkingConfig struct {
	// ChunkSize is the maximum chunk length in runes.
	ChunkSize int `toml:"chunk_size"`

	// Overlap is the overlap window in runes.
	Overlap int `toml:"overlap"`
}

// EmbeddingConfig controls the embedding provider chain. API keys are
// never written to disk; they come from the environment
// (OPENAI_API_KEY, DOCWIZARD_FALLBACK_API_KEY).
type EmbeddingConfig struct {
	// OpenAIModel is the primary remote embedding model.
	OpenAIModel string `toml:"openai_model"`

	// OpenAIBaseURL overrides the primary endpoint.
	OpenAIBaseURL string `toml:"openai_base_url"`

	// FallbackBaseURL is the secondary OpenAI-compatible endpoint.
	// Also settable via DOCWIZARD_FALLBACK_BASE_URL.
	FallbackBaseURL string `toml:"fallback_base_url"`

	// FallbackModel is the secondary endpoint's embedding model.
	FallbackModel string `toml:"fallback_model"`

	// OllamaBaseURL is the local Ollama endpoint.
	OllamaBaseURL string `toml:"ollama_base_url"`

	// OllamaModel is the local embedding model.
	OllamaModel string `toml:"ollama_model"`
}

// GeneratorConfig controls the answer generator.
type GeneratorConfig struct {
	// Model is the chat model used for grounded answers.
	Model string `toml:"model"`
}

// IndexConfig controls the document index backend.
type IndexConfig struct {
	// Backend selects "memory" or "sqlite".
	Backend string `toml:"backend"`

	// DataDir holds the sqlite database. Defaults to ~/.docwizard/data.
	DataDir string `toml:"data_dir"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, DefaultFileName), nil
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults, not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Chunking.ChunkSize <= 0 {
		c.Chunking.ChunkSize = 1000
	}
	if c.Chunking.Overlap <= 0 || c.Chunking.Overlap >= c.Chunking.ChunkSize {
		c.Chunking.Overlap = 200
	}
	if c.Embedding.OpenAIModel == "" {
		c.Embedding.OpenAIModel = "text-embedding-3-small"
	}
	if c.Embedding.FallbackModel == "" {
		c.Embedding.FallbackModel = c.Embedding.OpenAIModel
	}
	if c.Embedding.OllamaBaseURL == "" {
		c.Embedding.OllamaBaseURL = "http://localhost:11434"
	}
	if c.Embedding.OllamaModel == "" {
		c.Embedding.OllamaModel = "all-minilm"
	}
	if c.Generator.Model == "" {
		c.Generator.Model = "gpt-4o-mini"
	}
	if c.Index.Backend == "" {
		c.Index.Backend = "sqlite"
	}
	if c.Index.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Index.DataDir = filepath.Join(home, DefaultDirName, "data")
		}
	}
}
