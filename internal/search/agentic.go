package search

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/llm"
)

// AgenticStrategy retrieves candidates through the lexical and (when
// available) semantic strategies, then asks a completion model to pick
// and rank the relevant ones. An unreachable model fails fast; it is
// never substituted with another strategy.
type AgenticStrategy struct {
	client    llm.Client
	lexical   *LexicalStrategy
	semantic  *SemanticStrategy
	maxChunks int
}

var _ Strategy = (*AgenticStrategy)(nil)

// NewAgenticStrategy creates the LLM-driven strategy.
func NewAgenticStrategy(client llm.Client, lexical *LexicalStrategy, semantic *SemanticStrategy, maxChunks int) *AgenticStrategy {
	if maxChunks <= 0 {
		maxChunks = 20
	}
	return &AgenticStrategy{client: client, lexical: lexical, semantic: semantic, maxChunks: maxChunks}
}

func (s *AgenticStrategy) Name() string { return StrategyAgentic }

// Preflight pings the model on every call. Endpoint reachability is an
// observable precondition and may change between invocations.
func (s *AgenticStrategy) Preflight(ctx context.Context, _ *index.Handle) error {
	if s.client == nil {
		return errors.Unavailable(StrategyAgentic, "no completion model configured").
			WithSuggestion("configure the llm section in .txtsearch.yaml")
	}
	if err := s.client.Ping(ctx); err != nil {
		return errors.New(errors.ErrCodeModelUnreachable,
			"completion model is unreachable", err).
			WithDetail("strategy", StrategyAgentic).
			WithSuggestion("start the model server or check the llm.host setting")
	}
	return nil
}

func (s *AgenticStrategy) Search(ctx context.Context, h *index.Handle, req Request) ([]Hit, error) {
	candidates, err := s.retrieve(ctx, h, req)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []Hit{}, nil
	}

	prompt := buildSelectionPrompt(req.Query, candidates)
	answer, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, errors.BackendError(StrategyAgentic, err)
	}

	selected, err := parseSelection(answer, len(candidates))
	if err != nil {
		return nil, errors.BackendError(StrategyAgentic, err)
	}

	hits := make([]Hit, 0, len(selected))
	for rank, idx := range selected {
		hit := candidates[idx]
		hit.Strategy = StrategyAgentic
		// Rank order from the model maps onto a descending score scale.
		hit.Score = 1.0 - float64(rank)/float64(len(selected))
		if hit.Score <= 0 {
			hit.Score = 1.0 / float64(len(selected))
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// retrieve gathers candidate chunks from the index-backed strategies,
// deduplicated by path and line span.
func (s *AgenticStrategy) retrieve(ctx context.Context, h *index.Handle, req Request) ([]Hit, error) {
	inner := Request{Query: req.Query, Limit: s.maxChunks}

	candidates, err := s.lexical.Search(ctx, h, inner)
	if err != nil {
		return nil, err
	}

	if s.semantic != nil && s.semantic.Preflight(ctx, h) == nil {
		semHits, err := s.semantic.Search(ctx, h, inner)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, semHits...)
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, hit := range candidates {
		key := fmt.Sprintf("%s:%d-%d", hit.Path, hit.StartLine, hit.EndLine)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, hit)
	}
	if len(unique) > s.maxChunks {
		unique = unique[:s.maxChunks]
	}
	return unique, nil
}

func buildSelectionPrompt(query string, candidates []Hit) string {
	var b strings.Builder
	b.WriteString("You are ranking search results. Given the query and the numbered passages, ")
	b.WriteString("reply with the numbers of the relevant passages, most relevant first, ")
	b.WriteString("separated by commas. Reply with the single word NONE if no passage is relevant.\n\n")
	fmt.Fprintf(&b, "Query: %s\n\nPassages:\n", query)
	for i, hit := range candidates {
		snippet := hit.Snippet
		if len(snippet) > 400 {
			snippet = snippet[:400]
		}
		fmt.Fprintf(&b, "[%d] %s:%d\n%s\n\n", i+1, hit.Path, hit.StartLine, snippet)
	}
	b.WriteString("Answer:")
	return b.String()
}

var selectionNumber = regexp.MustCompile(`\d+`)

// parseSelection extracts the chosen candidate indexes (0-based) from
// the model's reply. NONE means an empty selection; a reply with no
// usable numbers is a backend error, not an empty result.
func parseSelection(answer string, candidateCount int) ([]int, error) {
	if strings.Contains(strings.ToUpper(answer), "NONE") {
		return []int{}, nil
	}

	var selected []int
	seen := make(map[int]struct{})
	for _, m := range selectionNumber.FindAllString(answer, -1) {
		n, err := strconv.Atoi(m)
		if err != nil || n < 1 || n > candidateCount {
			continue
		}
		idx := n - 1
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		selected = append(selected, idx)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("model reply contained no usable selection: %q", truncate(answer, 200))
	}
	return selected, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
