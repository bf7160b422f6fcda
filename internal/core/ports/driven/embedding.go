package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations include remote APIs (OpenAI and compatible endpoints),
// a local Ollama model, the deterministic hashing fallback, and the
// provider chain that arbitrates between them. Every implementation used
// for indexing must produce vectors of the same dimensionality; mixing
// providers within one document is forbidden.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. Implementations
	// without native batching may iterate Embed.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the provider is usable by making a lightweight
	// request. The chain uses this while probing candidates at startup.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
