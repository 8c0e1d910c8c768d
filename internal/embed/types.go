// Package embed provides text embedding backends for semantic search.
// The Ollama embedder talks to a local model server; the static
// embedder is a deterministic hash-based fallback that works offline.
package embed

import (
	"context"
	"time"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder turns text into vectors.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName identifies the provider and model.
	ModelName() string

	// Ping verifies the backend is reachable and the model available.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Defaults for the Ollama backend.
const (
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "nomic-embed-text"
	DefaultBatchSize   = 32
	DefaultTimeout     = 60 * time.Second
)

// OllamaConfig configures the Ollama embedder.
type OllamaConfig struct {
	Host      string
	Model     string
	BatchSize int
	Timeout   time.Duration
}

// ChromemFunc adapts an Embedder to the function signature chromem
// expects for embedding documents and queries.
func ChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.Embed(ctx, text)
	}
}
