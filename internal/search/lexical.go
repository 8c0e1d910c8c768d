package search

import (
	"context"

	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/index"
)

// LexicalStrategy queries the Bleve full-text index and rescales the
// engine's BM25 scores into (0,1] by dividing by the top score.
type LexicalStrategy struct{}

var _ Strategy = (*LexicalStrategy)(nil)

// NewLexicalStrategy creates the full-text strategy.
func NewLexicalStrategy() *LexicalStrategy { return &LexicalStrategy{} }

func (s *LexicalStrategy) Name() string { return StrategyLexical }

// Preflight checks the handle carries a lexical index.
func (s *LexicalStrategy) Preflight(_ context.Context, h *index.Handle) error {
	if h.Lexical == nil || !h.Meta.HasStrategy(StrategyLexical) {
		return errors.Unavailable(StrategyLexical, "index has no full-text data").
			WithSuggestion("rebuild the index")
	}
	return nil
}

func (s *LexicalStrategy) Search(ctx context.Context, h *index.Handle, req Request) ([]Hit, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	raw, err := h.Lexical.Search(ctx, req.Query, limit)
	if err != nil {
		return nil, errors.BackendError(StrategyLexical, err)
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
		return nil, errors.BackendError(StrategyLexical, err)
	}

	// Bleve returns hits ordered by score; the first is the maximum.
	top := raw[0].Score
	hits := make([]Hit, 0, len(raw))
	for _, r := range raw {
		c, ok := chunks[r.ChunkID]
		if !ok {
			continue
		}
		score := 1.0
		if top > 0 {
			score = r.Score / top
		}
		hits = append(hits, Hit{
			Path:      c.FilePath,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
			Snippet:   c.Content,
			Score:     score,
			Strategy:  StrategyLexical,
		})
	}
	return hits, nil
}
