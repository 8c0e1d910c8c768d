// Package search dispatches queries to capability-checked strategy
// executors and normalizes their results into one hit schema. Four
// strategies exist: literal (ripgrep), lexical (full-text), semantic
// (vector similarity), and agentic (LLM re-ranking over retrieval).
package search

import (
	"context"
	"time"

	"github.com/txtsearch/txtsearch/internal/index"
)

// Strategy names.
const (
	StrategyLiteral  = "literal"
	StrategyLexical  = "lexical"
	StrategySemantic = "semantic"
	StrategyAgentic  = "agentic"
)

// AllStrategies lists the known strategy names.
var AllStrategies = []string{StrategyLiteral, StrategyLexical, StrategySemantic, StrategyAgentic}

// ExactMatchScore is the fixed score for literal matches.
const ExactMatchScore = 1.0

// DefaultLimit bounds result sets when the caller does not.
const DefaultLimit = 10

// Request is one search invocation.
type Request struct {
	Query         string   `json:"query"`
	Strategy      string   `json:"strategy"`
	Limit         int      `json:"limit"`
	ContextLines  int      `json:"context_lines"`
	FilePatterns  []string `json:"file_patterns,omitempty"`
	CaseSensitive bool     `json:"case_sensitive"`
}

// Hit is the canonical result unit. Scores are in [0,1]; literal hits
// are pinned at ExactMatchScore, lexical scores are rescaled by the top
// engine score, semantic scores are cosine similarities.
type Hit struct {
	Path      string    `json:"path"`
	StartLine int       `json:"start_line"`
	EndLine   int       `json:"end_line"`
	Snippet   string    `json:"snippet"`
	Score     float64   `json:"score"`
	Strategy  string    `json:"strategy"`
	Context   []string  `json:"context,omitempty"`
	BuiltAt   time.Time `json:"built_at"`
}

// Response wraps an ordered hit list with invocation details.
type Response struct {
	Hits     []Hit         `json:"hits"`
	Strategy string        `json:"strategy"`
	Query    string        `json:"query"`
	BuildID  string        `json:"build_id,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Strategy executes searches against an opened index handle.
type Strategy interface {
	Name() string

	// Preflight verifies the strategy can run right now: observable
	// preconditions (executables, endpoints) are re-checked on every
	// call, data availability is read from the handle's metadata.
	Preflight(ctx context.Context, h *index.Handle) error

	// Search runs the query. Hits come back unnormalized; ordering and
	// limit are enforced by the orchestrator.
	Search(ctx context.Context, h *index.Handle, req Request) ([]Hit, error)
}
