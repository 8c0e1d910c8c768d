// Package preflight validates the external dependencies each search
// strategy needs: the ripgrep executable, the embedding endpoint, the
// completion model, and the on-disk index. The doctor command runs all
// checks; the search path re-checks per strategy at resolve time.
package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/embed"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/llm"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a degraded but usable state.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// CheckResult holds the result of a single check.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Required bool        `json:"required"`
}

// IsCritical reports whether a required check failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Checker runs dependency checks against a configuration.
type Checker struct {
	cfg *config.Config
}

// New creates a Checker for the given configuration.
func New(cfg *config.Config) *Checker {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Checker{cfg: cfg}
}

// RunAll runs every check for root and returns the results in a fixed
// order. Only the write-permission check is required; each strategy
// degrades individually when its dependency is missing.
func (c *Checker) RunAll(ctx context.Context, root string) []CheckResult {
	return []CheckResult{
		c.CheckWritePermissions(root),
		c.CheckRipgrep(),
		c.CheckEmbedder(ctx),
		c.CheckLLM(ctx),
		c.CheckIndex(root),
	}
}

// HasCriticalFailures reports whether any required check failed.
func HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// CheckWritePermissions verifies the index directory can be created.
func (c *Checker) CheckWritePermissions(root string) CheckResult {
	result := CheckResult{Name: "write permissions", Required: true}

	probe := filepath.Join(root, ".txtsearch-probe")
	f, err := os.Create(probe)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot write under %s", root)
		result.Details = err.Error()
		return result
	}
	_ = f.Close()
	_ = os.Remove(probe)

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%s is writable", root)
	return result
}

// CheckRipgrep verifies the literal strategy's executable is on PATH.
func (c *Checker) CheckRipgrep() CheckResult {
	result := CheckResult{Name: "ripgrep"}

	binary := c.cfg.Strategies.Literal.Binary
	if binary == "" {
		binary = "rg"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("%q not found on PATH, literal search unavailable", binary)
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("found %s", path)
	return result
}

// CheckEmbedder verifies the embedding endpoint answers.
func (c *Checker) CheckEmbedder(ctx context.Context) CheckResult {
	result := CheckResult{Name: "embedder"}

	embedder, err := embed.New(
		c.cfg.Embeddings.Provider,
		c.cfg.Embeddings.Host,
		c.cfg.Embeddings.Model,
		c.cfg.Embeddings.BatchSize,
		0,
	)
	if err != nil {
		result.Status = StatusFail
		result.Message = "embedder misconfigured"
		result.Details = err.Error()
		return result
	}
	defer func() { _ = embedder.Close() }()

	if err := embedder.Ping(ctx); err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("embedding model %q unreachable, builds will be lexical-only", embedder.ModelName())
		result.Details = err.Error()
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("model %q ready (%d dimensions)", embedder.ModelName(), embedder.Dimensions())
	return result
}

// CheckLLM verifies the completion model behind the agentic strategy.
func (c *Checker) CheckLLM(ctx context.Context) CheckResult {
	result := CheckResult{Name: "completion model"}

	client, err := llm.NewOllamaClient(llm.Config{
		Host:  c.cfg.LLM.Host,
		Model: c.cfg.LLM.Model,
	})
	if err != nil {
		result.Status = StatusWarn
		result.Message = "completion client misconfigured, agentic search unavailable"
		result.Details = err.Error()
		return result
	}

	if err := client.Ping(ctx); err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("model %q unreachable, agentic search unavailable", client.ModelName())
		result.Details = err.Error()
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("model %q ready", client.ModelName())
	return result
}

// CheckIndex reports whether a committed build exists for root.
func (c *Checker) CheckIndex(root string) CheckResult {
	result := CheckResult{Name: "index"}

	layout, err := index.NewLayout(root)
	if err != nil {
		result.Status = StatusFail
		result.Message = "index layout unavailable"
		result.Details = err.Error()
		return result
	}
	buildID, err := layout.CurrentBuildID()
	if err != nil {
		result.Status = StatusFail
		result.Message = "index state unreadable"
		result.Details = err.Error()
		return result
	}
	if buildID == "" {
		result.Status = StatusWarn
		result.Message = "no index built yet, run 'txtsearch index'"
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("active build %s", buildID)
	return result
}
