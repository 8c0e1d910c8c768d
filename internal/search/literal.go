package search

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/index"
)

// LiteralStrategy shells out to ripgrep for exact matching over the
// source tree. The subprocess gets an explicit argv, never a shell.
type LiteralStrategy struct {
	binary  string
	timeout time.Duration
}

var _ Strategy = (*LiteralStrategy)(nil)

// NewLiteralStrategy creates the ripgrep-backed strategy.
func NewLiteralStrategy(binary string, timeout time.Duration) *LiteralStrategy {
	if binary == "" {
		binary = "rg"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LiteralStrategy{binary: binary, timeout: timeout}
}

func (s *LiteralStrategy) Name() string { return StrategyLiteral }

// Preflight looks up the executable on every call; availability can
// change between invocations.
func (s *LiteralStrategy) Preflight(_ context.Context, _ *index.Handle) error {
	if _, err := exec.LookPath(s.binary); err != nil {
		return errors.New(errors.ErrCodeExecutableMissing,
			fmt.Sprintf("ripgrep executable %q not found in PATH", s.binary), err).
			WithDetail("strategy", StrategyLiteral).
			WithSuggestion("install ripgrep or set the binary path in config")
	}
	return nil
}

// rgMatch is the subset of ripgrep's --json match event we consume.
type rgMatch struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
		Lines struct {
			Text string `json:"text"`
		} `json:"lines"`
		LineNumber int `json:"line_number"`
	} `json:"data"`
}

// Search runs ripgrep over the indexed root in fixed-string mode and
// converts match events to hits with the exact-match score.
func (s *LiteralStrategy) Search(ctx context.Context, h *index.Handle, req Request) ([]Hit, error) {
	root := h.Meta.Root

	args := []string{"--json", "--fixed-strings", "--no-config"}
	if !req.CaseSensitive {
		args = append(args, "--ignore-case")
	}
	if req.Limit > 0 {
		args = append(args, "--max-count", fmt.Sprintf("%d", req.Limit))
	}
	for _, pattern := range req.FilePatterns {
		args = append(args, "--glob", pattern)
	}
	// The index directory never counts as source.
	args = append(args, "--glob", "!.txtsearch")
	args = append(args, "--", req.Query, root)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Exit code 1 means no matches.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return []Hit{}, nil
		}
		if ctx.Err() != nil {
			return nil, errors.BackendError(StrategyLiteral, ctx.Err())
		}
		return nil, errors.BackendError(StrategyLiteral,
			fmt.Errorf("ripgrep failed: %w: %s", err, strings.TrimSpace(stderr.String())))
	}

	var hits []Hit
	scanner := bufio.NewScanner(&stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var event rgMatch
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		if event.Type != "match" {
			continue
		}

		relPath, err := filepath.Rel(root, event.Data.Path.Text)
		if err != nil {
			relPath = event.Data.Path.Text
		}
		hits = append(hits, Hit{
			Path:      filepath.ToSlash(relPath),
			StartLine: event.Data.LineNumber,
			EndLine:   event.Data.LineNumber,
			Snippet:   strings.TrimRight(event.Data.Lines.Text, "\n"),
			Score:     ExactMatchScore,
			Strategy:  StrategyLiteral,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.BackendError(StrategyLiteral, err)
	}
	return hits, nil
}
