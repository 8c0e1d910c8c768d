package embed

import (
	"fmt"
	"time"
)

// New creates an embedder for the named provider.
func New(provider, host, model string, batchSize int, timeout time.Duration) (Embedder, error) {
	switch provider {
	case "", "ollama":
		return NewOllamaEmbedder(OllamaConfig{
			Host:      host,
			Model:     model,
			BatchSize: batchSize,
			Timeout:   timeout,
		}), nil
	case "static":
		return NewStaticEmbedder(), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}
