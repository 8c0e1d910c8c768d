package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/search"
	"github.com/txtsearch/txtsearch/pkg/version"
)

const serverName = "txtsearch"

// Server bridges AI clients with the search orchestrator over MCP.
type Server struct {
	mcp          *mcp.Server
	orchestrator *search.Orchestrator
	logger       *slog.Logger
}

// SearchInput defines the input schema for the search tool.
type SearchInput struct {
	Query        string   `json:"query" jsonschema:"the search query to execute"`
	Strategy     string   `json:"strategy,omitempty" jsonschema:"search strategy: literal, lexical, semantic, or agentic (default semantic)"`
	Limit        int      `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
	ContextLines int      `json:"context_lines,omitempty" jsonschema:"lines of surrounding context per hit"`
	FilePatterns []string `json:"file_patterns,omitempty" jsonschema:"glob patterns restricting results by path"`
}

// SearchOutput defines the output schema for the search tool.
type SearchOutput struct {
	Markdown string       `json:"markdown" jsonschema:"markdown-formatted result listing"`
	Hits     []search.Hit `json:"hits" jsonschema:"structured hit list"`
}

// BuildIndexInput defines the input schema for the build_index tool.
type BuildIndexInput struct {
	IncludePatterns []string `json:"include_patterns,omitempty" jsonschema:"glob patterns selecting files to index"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty" jsonschema:"glob patterns excluding files from the index"`
}

// BuildIndexOutput defines the output schema for the build_index tool.
type BuildIndexOutput struct {
	BuildID    string   `json:"build_id"`
	Files      int      `json:"files"`
	Chunks     int      `json:"chunks"`
	Skipped    int      `json:"skipped"`
	Strategies []string `json:"strategies"`
	Duration   string   `json:"duration"`
}

// IndexStatusInput is the (empty) input schema for index_status.
type IndexStatusInput struct{}

// IndexStatusOutput defines the output schema for index_status.
type IndexStatusOutput struct {
	Markdown   string   `json:"markdown"`
	BuildID    string   `json:"build_id"`
	FileCount  int      `json:"file_count"`
	ChunkCount int      `json:"chunk_count"`
	Strategies []string `json:"strategies"`
	EmbedModel string   `json:"embed_model,omitempty"`
}

// NewServer creates a new MCP server over the given orchestrator.
func NewServer(orchestrator *search.Orchestrator, logger *slog.Logger) (*Server, error) {
	if orchestrator == nil {
		return nil, errors.New("orchestrator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		orchestrator: orchestrator,
		logger:       logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		nil,
	)
	s.registerTools()

	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return serverName, version.Version
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed directory tree. Strategies: literal (exact text via ripgrep), lexical (full-text ranking), semantic (meaning-based vector search, default), agentic (LLM re-ranking over retrieved passages).",
	}, s.searchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "build_index",
		Description: "Build or rebuild the search index for the configured root. Searches keep working against the previous build until the new one commits.",
	}, s.buildIndexHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_status",
		Description: "Report the active index build: file and chunk counts, available strategies, and the embedding model. Use before semantic searches to verify semantic data exists.",
	}, s.indexStatusHandler)

	s.logger.Info("MCP tools registered", slog.Int("count", 3))
}

func (s *Server) searchHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, NewInvalidParamsError("query parameter is required and must be a non-empty string")
	}

	start := time.Now()
	requestID := generateRequestID()
	s.logger.Info("search started",
		slog.String("request_id", requestID),
		slog.String("query", input.Query),
		slog.String("strategy", input.Strategy))

	resp, err := s.orchestrator.Search(ctx, search.Request{
		Query:        input.Query,
		Strategy:     input.Strategy,
		Limit:        input.Limit,
		ContextLines: input.ContextLines,
		FilePatterns: input.FilePatterns,
	})
	if err != nil {
		s.logger.Error("search failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, SearchOutput{}, MapError(err)
	}

	s.logger.Info("search completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
		slog.Int("result_count", len(resp.Hits)))

	hits := resp.Hits
	if hits == nil {
		hits = []search.Hit{}
	}
	return nil, SearchOutput{
		Markdown: FormatSearchResults(resp),
		Hits:     hits,
	}, nil
}

func (s *Server) buildIndexHandler(ctx context.Context, _ *mcp.CallToolRequest, input BuildIndexInput) (
	*mcp.CallToolResult,
	BuildIndexOutput,
	error,
) {
	start := time.Now()
	requestID := generateRequestID()
	s.logger.Info("build_index started", slog.String("request_id", requestID))

	stats, err := s.orchestrator.BuildIndex(ctx, index.BuildOptions{
		IncludePatterns: input.IncludePatterns,
		ExcludePatterns: input.ExcludePatterns,
	})
	if err != nil {
		s.logger.Error("build_index failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, BuildIndexOutput{}, MapError(err)
	}

	s.logger.Info("build_index completed",
		slog.String("request_id", requestID),
		slog.String("build_id", stats.BuildID),
		slog.Int("files", stats.Files),
		slog.Int("chunks", stats.Chunks))

	return nil, BuildIndexOutput{
		BuildID:    stats.BuildID,
		Files:      stats.Files,
		Chunks:     stats.Chunks,
		Skipped:    stats.Skipped,
		Strategies: stats.Strategies,
		Duration:   stats.Duration.String(),
	}, nil
}

func (s *Server) indexStatusHandler(ctx context.Context, _ *mcp.CallToolRequest, _ IndexStatusInput) (
	*mcp.CallToolResult,
	*IndexStatusOutput,
	error,
) {
	meta, err := s.orchestrator.Status(ctx)
	if err != nil {
		return nil, nil, MapError(err)
	}

	return nil, &IndexStatusOutput{
		Markdown:   FormatIndexStatus(meta),
		BuildID:    meta.BuildID,
		FileCount:  meta.FileCount,
		ChunkCount: meta.ChunkCount,
		Strategies: meta.Strategies,
		EmbedModel: meta.EmbedModel,
	}, nil
}

// Serve runs the server over the given transport until ctx is canceled.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("starting MCP server", slog.String("transport", transport))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && err != context.Canceled {
			s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
			return err
		}
		s.logger.Info("MCP server stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// generateRequestID creates a short unique request ID for log correlation.
func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
