// Package llm wraps the completion model used by agentic search.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Defaults for the Ollama completion backend.
const (
	DefaultHost    = "http://localhost:11434"
	DefaultModel   = "qwen3:0.6b"
	DefaultTimeout = 60 * time.Second
)

// Client generates completions.
type Client interface {
	// Complete returns the model's response to a prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// Ping verifies the model is reachable.
	Ping(ctx context.Context) error

	// ModelName identifies the backend.
	ModelName() string
}

// Config configures an Ollama-backed client.
type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// OllamaClient implements Client through langchaingo's Ollama binding.
type OllamaClient struct {
	llm     *ollama.LLM
	config  Config
	timeout time.Duration
}

var _ Client = (*OllamaClient)(nil)

// NewOllamaClient creates a client. The server is not probed here;
// call Ping to verify availability.
func NewOllamaClient(cfg Config) (*OllamaClient, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	model, err := ollama.New(
		ollama.WithServerURL(cfg.Host),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &OllamaClient{llm: model, config: cfg, timeout: cfg.Timeout}, nil
}

// Complete generates a single response for the prompt.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Ping issues a minimal completion to verify the model responds.
func (c *OllamaClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := llms.GenerateFromSinglePrompt(ctx, c.llm, "Reply with OK.",
		llms.WithTemperature(0), llms.WithMaxTokens(4))
	if err != nil {
		return fmt.Errorf("model %s unreachable at %s: %w", c.config.Model, c.config.Host, err)
	}
	return nil
}

// ModelName identifies the backend.
func (c *OllamaClient) ModelName() string {
	return "ollama/" + c.config.Model
}
