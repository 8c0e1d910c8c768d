package search

import (
	"context"

	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/index"
)

// SemanticStrategy queries the vector store for nearest neighbors of
// the query embedding. Similarities already land in [0,1].
type SemanticStrategy struct {
	minSimilarity float32
}

var _ Strategy = (*SemanticStrategy)(nil)

// NewSemanticStrategy creates the vector strategy. Hits below
// minSimilarity are filtered out.
func NewSemanticStrategy(minSimilarity float32) *SemanticStrategy {
	return &SemanticStrategy{minSimilarity: minSimilarity}
}

func (s *SemanticStrategy) Name() string { return StrategySemantic }

// Preflight distinguishes "no embeddings were ever computed" from an
// empty-but-available index. The former is a dependency failure, the
// latter searches fine and returns nothing.
func (s *SemanticStrategy) Preflight(_ context.Context, h *index.Handle) error {
	if !h.Meta.HasStrategy(StrategySemantic) {
		return errors.New(errors.ErrCodeSemanticDataMissing,
			"index has no semantic data; the embedding backend was unavailable when it was built", nil).
			WithDetail("strategy", StrategySemantic).
			WithSuggestion("start the embedding server and rebuild the index")
	}
	if h.EmbedMismatch != "" {
		return errors.Unavailable(StrategySemantic,
			"index embeddings were built with model "+h.Meta.EmbedModel+
				" but the configured embedder is "+h.EmbedMismatch).
			WithSuggestion("rebuild the index or configure the matching embeddings model")
	}
	if h.Vector == nil {
		return errors.Unavailable(StrategySemantic, "no embedding backend configured for queries").
			WithSuggestion("configure the embeddings provider")
	}
	return nil
}

func (s *SemanticStrategy) Search(ctx context.Context, h *index.Handle, req Request) ([]Hit, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	raw, err := h.Vector.Query(ctx, req.Query, limit)
	if err != nil {
		return nil, errors.BackendError(StrategySemantic, err)
	}
	if len(raw) == 0 {
		return []Hit{}, nil
	}

	ids := make([]string, len(raw))
	for i, r := range raw {
		ids[i] = r.ChunkID
	}
	chunks, err := h.Store.GetChunks(ctx, ids)
	if err != nil {
		return nil, errors.BackendError(StrategySemantic, err)
	}

	hits := make([]Hit, 0, len(raw))
	for _, r := range raw {
		if r.Similarity < s.minSimilarity {
			continue
		}
		c, ok := chunks[r.ChunkID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			Path:      c.FilePath,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
			Snippet:   c.Content,
			Score:     float64(r.Similarity),
			Strategy:  StrategySemantic,
		})
	}
	return hits, nil
}
