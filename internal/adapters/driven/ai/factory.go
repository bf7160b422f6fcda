// Package ai assembles the embedding provider chain and the answer
// generator from configuration and environment credentials.
package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/docwizard/docwizard/internal/adapters/driven/config/file"
	"github.com/docwizard/docwizard/internal/adapters/driven/embedding/chain"
	"github.com/docwizard/docwizard/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/docwizard/docwizard/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docwizard/docwizard/internal/adapters/driven/embedding/openai"
	keywordllm "github.com/docwizard/docwizard/internal/adapters/driven/llm/keyword"
	openaillm "github.com/docwizard/docwizard/internal/adapters/driven/llm/openai"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
	"github.com/docwizard/docwizard/internal/logger"
)

// Environment variables carrying credentials. Keys are read from the
// environment only, never from the config file.
const (
	EnvOpenAIKey       = "OPENAI_API_KEY"
	EnvFallbackKey     = "DOCWIZARD_FALLBACK_API_KEY"
	EnvFallbackBaseURL = "DOCWIZARD_FALLBACK_BASE_URL"
)

// ChainDimensions is the vector size every chain tier must produce.
const ChainDimensions = 384

// NewEmbeddingChain builds the tiered provider chain:
//  1. OpenAI remote API (OPENAI_API_KEY)
//  2. secondary OpenAI-compatible endpoint (DOCWIZARD_FALLBACK_API_KEY)
//  3. local Ollama model
//  4. deterministic hashing fallback
//
// Candidates without a plausible credential are excluded before probing;
// the chain then probes the rest in order and adopts the first that works.
func NewEmbeddingChain(ctx context.Context, cfg *file.Config) (*chain.Chain, error) {
	var candidates []driven.EmbeddingService

	if key := os.Getenv(EnvOpenAIKey); CredentialLooksValid(key) {
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     key,
			BaseURL:    cfg.Embedding.OpenAIBaseURL,
			Model:      cfg.Embedding.OpenAIModel,
			Dimensions: ChainDimensions,
			Label:      "openai",
		})
		if err != nil {
			return nil, fmt.Errorf("primary embedding provider: %w", err)
		}
		candidates = append(candidates, svc)
	} else {
		logger.Debug("primary embedding credential absent or placeholder, skipping tier")
	}

	fallbackURL := cfg.Embedding.FallbackBaseURL
	if env := os.Getenv(EnvFallbackBaseURL); env != "" {
		fallbackURL = env
	}
	if key := os.Getenv(EnvFallbackKey); CredentialLooksValid(key) && fallbackURL != "" {
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     key,
			BaseURL:    fallbackURL,
			Model:      cfg.Embedding.FallbackModel,
			Dimensions: ChainDimensions,
			Label:      "openai-fallback",
		})
		if err != nil {
			return nil, fmt.Errorf("secondary embedding provider: %w", err)
		}
		candidates = append(candidates, svc)
	} else {
		logger.Debug("secondary embedding credential absent or placeholder, skipping tier")
	}

	candidates = append(candidates, ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    cfg.Embedding.OllamaBaseURL,
		Model:      cfg.Embedding.OllamaModel,
		Dimensions: ChainDimensions,
	}))

	// The hashing tier guarantees the chain always adopts something.
	candidates = append(candidates, hashing.NewEmbeddingService())

	return chain.New(ctx, candidates)
}

// NewAnswerGenerator selects the answer generator: the OpenAI chat model
// when a plausible credential exists, otherwise the keyword-overlap
// fallback that quotes the best excerpt.
func NewAnswerGenerator(cfg *file.Config) driven.AnswerGenerator {
	if key := os.Getenv(EnvOpenAIKey); CredentialLooksValid(key) {
		gen, err := openaillm.NewAnswerGenerator(openaillm.Config{
			APIKey:  key,
			BaseURL: cfg.Embedding.OpenAIBaseURL,
			Model:   cfg.Generator.Model,
		})
		if err == nil {
			return gen
		}
		logger.Warn("chat generator unavailable: %v, using keyword answerer", err)
	}
	return keywordllm.NewAnswerGenerator()
}
