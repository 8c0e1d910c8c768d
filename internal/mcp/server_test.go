package mcp

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/embed"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/search"
)

func newTestOrchestrator(t *testing.T) *search.Orchestrator {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello world\n"), 0644))

	cfg := config.NewConfig()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	manager, err := index.NewManager(root, cfg, embed.NewStaticEmbedder(), logger)
	require.NoError(t, err)

	o := search.NewOrchestrator(manager, search.NewRegistry(cfg, nil), logger, search.Options{Ephemeral: true})
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func TestNewServerRequiresOrchestrator(t *testing.T) {
	_, err := NewServer(nil, nil)
	require.Error(t, err)
}

func TestServerInfo(t *testing.T) {
	s, err := NewServer(newTestOrchestrator(t), nil)
	require.NoError(t, err)

	name, ver := s.Info()
	assert.Equal(t, "txtsearch", name)
	assert.NotEmpty(t, ver)
	assert.NotNil(t, s.MCPServer())
}

func TestSearchHandler(t *testing.T) {
	s, err := NewServer(newTestOrchestrator(t), nil)
	require.NoError(t, err)

	_, out, err := s.searchHandler(context.Background(), nil, SearchInput{
		Query:    "hello",
		Strategy: "lexical",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Hits)
	assert.Equal(t, "a.txt", out.Hits[0].Path)
	assert.Contains(t, out.Markdown, "Search Results")
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	s, err := NewServer(newTestOrchestrator(t), nil)
	require.NoError(t, err)

	_, _, err = s.searchHandler(context.Background(), nil, SearchInput{Query: "  "})
	require.Error(t, err)
	mcpErr, ok := err.(*MCPError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
}

func TestSearchHandlerUnknownStrategy(t *testing.T) {
	s, err := NewServer(newTestOrchestrator(t), nil)
	require.NoError(t, err)

	_, _, err = s.searchHandler(context.Background(), nil, SearchInput{Query: "hello", Strategy: "fuzzy"})
	require.Error(t, err)
	mcpErr, ok := err.(*MCPError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
}

func TestBuildIndexHandler(t *testing.T) {
	s, err := NewServer(newTestOrchestrator(t), nil)
	require.NoError(t, err)

	_, out, err := s.buildIndexHandler(context.Background(), nil, BuildIndexInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Files)
	assert.Contains(t, out.Strategies, "lexical")
	assert.NotEmpty(t, out.BuildID)
}

func TestIndexStatusHandler(t *testing.T) {
	s, err := NewServer(newTestOrchestrator(t), nil)
	require.NoError(t, err)

	// Build so there is an active index to report.
	_, _, err = s.buildIndexHandler(context.Background(), nil, BuildIndexInput{})
	require.NoError(t, err)

	_, out, err := s.indexStatusHandler(context.Background(), nil, IndexStatusInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.FileCount)
	assert.Contains(t, out.Markdown, "Index Status")
}

func TestServeUnknownTransport(t *testing.T) {
	s, err := NewServer(newTestOrchestrator(t), nil)
	require.NoError(t, err)

	err = s.Serve(context.Background(), "sse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}
