package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/embed"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/llm"
	"github.com/txtsearch/txtsearch/internal/search"
)

// session bundles the wired components for one CLI invocation.
type session struct {
	root         string
	cfg          *config.Config
	orchestrator *search.Orchestrator
}

func (s *session) Close() {
	_ = s.orchestrator.Close()
}

// newSession loads configuration for the directory and wires the
// orchestrator. The embedder and LLM client are constructed lazily by
// their backends; unreachable hosts surface at preflight, not here.
func newSession(directory string, opts search.Options) (*session, error) {
	root, err := filepath.Abs(directory)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if cfg.Index.Ephemeral {
		opts.Ephemeral = true
	}

	embedder, err := embed.New(
		cfg.Embeddings.Provider,
		cfg.Embeddings.Host,
		cfg.Embeddings.Model,
		cfg.Embeddings.BatchSize,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("embedder setup: %w", err)
	}

	var client llm.Client
	if cfg.StrategyEnabled(search.StrategyAgentic) {
		timeout, _ := time.ParseDuration(cfg.LLM.Timeout)
		ollamaClient, err := llm.NewOllamaClient(llm.Config{
			Host:    cfg.LLM.Host,
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		})
		if err != nil {
			slog.Warn("agentic strategy disabled, LLM client setup failed",
				slog.String("error", err.Error()))
		} else {
			client = ollamaClient
		}
	}

	manager, err := index.NewManager(root, cfg, embedder, slog.Default())
	if err != nil {
		return nil, err
	}

	orchestrator := search.NewOrchestrator(manager, search.NewRegistry(cfg, client), slog.Default(), opts)
	return &session{
		root:         root,
		cfg:          cfg,
		orchestrator: orchestrator,
	}, nil
}
