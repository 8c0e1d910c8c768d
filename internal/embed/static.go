package embed

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// StaticDimensions is the vector size of the static embedder.
const StaticDimensions = 256

// tokenRegex matches alphanumeric sequences.
var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

// StaticEmbedder generates hash-based embeddings with no network or
// model dependency. Identical text always embeds identically, which
// makes builds reproducible; semantic quality is reduced, so it serves
// tests and offline operation.
type StaticEmbedder struct{}

var _ Embedder = (*StaticEmbedder)(nil)

// NewStaticEmbedder creates a static embedder.
func NewStaticEmbedder() *StaticEmbedder {
	return &StaticEmbedder{}
}

// Embed generates a deterministic unit vector from token and trigram
// hashes. Whitespace-only input yields a zero vector.
func (e *StaticEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, StaticDimensions)
	trimmed := strings.TrimSpace(strings.ToLower(text))
	if trimmed == "" {
		return vec, nil
	}

	for _, token := range tokenRegex.FindAllString(trimmed, -1) {
		addFeature(vec, token, 0.7)
		for i := 0; i+3 <= len(token); i++ {
			addFeature(vec, token[i:i+3], 0.3)
		}
	}

	normalize(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *StaticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the fixed vector size.
func (e *StaticEmbedder) Dimensions() int { return StaticDimensions }

// ModelName identifies the backend.
func (e *StaticEmbedder) ModelName() string { return "static" }

// Ping always succeeds; the static embedder has no backend.
func (e *StaticEmbedder) Ping(context.Context) error { return nil }

// Close is a no-op.
func (e *StaticEmbedder) Close() error { return nil }

func addFeature(vec []float32, feature string, weight float32) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum32()
	idx := int(sum % StaticDimensions)
	// Sign from the high bit spreads features across both directions.
	if sum&0x80000000 != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func normalize(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
}
