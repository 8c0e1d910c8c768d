package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/llm"
)

// Registry maps strategy names to executors and gates every resolve
// behind the strategy's preflight check. Negative preflight results are
// never cached; an executable or endpoint can appear between calls.
type Registry struct {
	strategies map[string]Strategy
	enabled    map[string]bool
}

// NewRegistry builds the registry from config. client may be nil, which
// leaves the agentic strategy permanently unavailable.
func NewRegistry(cfg *config.Config, client llm.Client) *Registry {
	// Config validation already rejected malformed durations; an unset
	// timeout falls back to the default.
	timeout, err := time.ParseDuration(cfg.Strategies.Literal.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}

	lexical := NewLexicalStrategy()
	semantic := NewSemanticStrategy(cfg.Strategies.Semantic.MinSimilarity)

	r := &Registry{
		strategies: map[string]Strategy{
			StrategyLiteral:  NewLiteralStrategy(cfg.Strategies.Literal.Binary, timeout),
			StrategyLexical:  lexical,
			StrategySemantic: semantic,
			StrategyAgentic:  NewAgenticStrategy(client, lexical, semantic, cfg.Strategies.Agentic.MaxChunks),
		},
		enabled: make(map[string]bool, len(AllStrategies)),
	}
	for _, name := range AllStrategies {
		r.enabled[name] = cfg.StrategyEnabled(name)
	}
	return r
}

// Resolve returns the executor for name after its preflight passes.
func (r *Registry) Resolve(ctx context.Context, name string, h *index.Handle) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	strategy, ok := r.strategies[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownStrategy,
			fmt.Sprintf("unknown strategy %q", name), nil).
			WithSuggestion("use one of: " + strings.Join(AllStrategies, ", "))
	}
	if !r.enabled[name] {
		return nil, errors.New(errors.ErrCodeStrategyDisabled,
			fmt.Sprintf("strategy %q is disabled in configuration", name), nil).
			WithDetail("strategy", name)
	}
	if err := strategy.Preflight(ctx, h); err != nil {
		return nil, err
	}
	return strategy, nil
}
