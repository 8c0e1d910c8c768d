// Package config manages txtsearch configuration loading and validation.
//
// Configuration precedence (highest wins):
//  1. Environment variables (TXTSEARCH_*)
//  2. Project config (.txtsearch.yaml in the search root)
//  3. User config (~/.txtsearch/config.yaml)
//  4. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project-level configuration file name.
const ConfigFileName = ".txtsearch.yaml"

// Config is the top-level txtsearch configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Paths      PathsConfig      `yaml:"paths"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Strategies StrategiesConfig `yaml:"strategies"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	LLM        LLMConfig        `yaml:"llm"`
	Index      IndexConfig      `yaml:"index"`
	Server     ServerConfig     `yaml:"server"`
}

// PathsConfig controls which files are scanned into the index.
type PathsConfig struct {
	// Include holds glob patterns matched against base names.
	Include []string `yaml:"include,omitempty"`
	// Exclude holds glob patterns for directories and files to skip.
	Exclude []string `yaml:"exclude,omitempty"`
	// MaxFileSize is the largest file (bytes) eligible for indexing.
	MaxFileSize int64 `yaml:"max_file_size,omitempty"`
	// FollowSymlinks enables following symbolic links during the walk.
	FollowSymlinks bool `yaml:"follow_symlinks,omitempty"`
	// RespectGitignore honors .gitignore files during the walk. Nil
	// means enabled.
	RespectGitignore *bool `yaml:"respect_gitignore,omitempty"`
}

// GitignoreEnabled reports whether .gitignore files are honored.
func (p *PathsConfig) GitignoreEnabled() bool {
	return p.RespectGitignore == nil || *p.RespectGitignore
}

// ChunkingConfig controls how file contents split into chunks.
type ChunkingConfig struct {
	Size    int `yaml:"size,omitempty"`
	Overlap int `yaml:"overlap,omitempty"`
}

// StrategiesConfig holds per-strategy settings.
type StrategiesConfig struct {
	Literal  LiteralConfig  `yaml:"literal"`
	Lexical  LexicalConfig  `yaml:"lexical"`
	Semantic SemanticConfig `yaml:"semantic"`
	Agentic  AgenticConfig  `yaml:"agentic"`
}

// LiteralConfig configures the ripgrep-backed literal strategy.
type LiteralConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	// Binary is the ripgrep executable name or path.
	Binary string `yaml:"binary,omitempty"`
	// Timeout is the subprocess deadline, e.g. "30s".
	Timeout string `yaml:"timeout,omitempty"`
}

// LexicalConfig configures the full-text strategy.
type LexicalConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// SemanticConfig configures the vector search strategy.
type SemanticConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	// MinSimilarity filters hits below this cosine similarity.
	MinSimilarity float32 `yaml:"min_similarity,omitempty"`
}

// AgenticConfig configures the LLM-driven strategy.
type AgenticConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	// MaxChunks bounds how many candidate chunks are sent to the model.
	MaxChunks int `yaml:"max_chunks,omitempty"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider is "ollama" or "static". Static is deterministic and
	// used for tests and offline operation.
	Provider  string `yaml:"provider,omitempty"`
	Model     string `yaml:"model,omitempty"`
	Host      string `yaml:"host,omitempty"`
	BatchSize int    `yaml:"batch_size,omitempty"`
}

// LLMConfig configures the completion model used by the agentic strategy.
type LLMConfig struct {
	Host    string `yaml:"host,omitempty"`
	Model   string `yaml:"model,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// IndexConfig controls index persistence and build behavior.
type IndexConfig struct {
	// Ephemeral keeps all index state in memory, nothing on disk.
	Ephemeral bool `yaml:"ephemeral,omitempty"`
	// Workers bounds indexing concurrency; 0 means NumCPU.
	Workers int `yaml:"workers,omitempty"`
	// KeepBuilds is how many superseded builds to retain for pruning.
	KeepBuilds int `yaml:"keep_builds,omitempty"`
}

// ServerConfig configures the HTTP and MCP front ends.
type ServerConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// defaultIncludePatterns mirrors the file types indexed out of the box.
var defaultIncludePatterns = []string{
	"*.py", "*.js", "*.ts", "*.md", "*.txt", "*.json", "*.yaml", "*.yml",
}

var defaultExcludePatterns = []string{
	".git", ".txtsearch", "node_modules", "__pycache__", ".venv", "venv",
	"dist", "build", "target", ".idea", ".vscode",
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	on := true
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Include:     append([]string{}, defaultIncludePatterns...),
			Exclude:     append([]string{}, defaultExcludePatterns...),
			MaxFileSize: 10 * 1024 * 1024,
		},
		Chunking: ChunkingConfig{
			Size:    512,
			Overlap: 50,
		},
		Strategies: StrategiesConfig{
			Literal:  LiteralConfig{Enabled: &on, Binary: "rg", Timeout: "30s"},
			Lexical:  LexicalConfig{Enabled: &on},
			Semantic: SemanticConfig{Enabled: &on, MinSimilarity: 0},
			Agentic:  AgenticConfig{Enabled: &on, MaxChunks: 20},
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "ollama",
			Model:     "nomic-embed-text",
			Host:      "http://localhost:11434",
			BatchSize: 32,
		},
		LLM: LLMConfig{
			Host:    "http://localhost:11434",
			Model:   "qwen3:0.6b",
			Timeout: "60s",
		},
		Index: IndexConfig{
			Workers:    runtime.NumCPU(),
			KeepBuilds: 2,
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:8765",
			LogLevel: "info",
		},
	}
}

// Load resolves the effective configuration for a search root.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(dir string) error {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return c.loadYAML(yamlPath)
	}

	ymlPath := filepath.Join(dir, ".txtsearch.yml")
	if _, err := os.Stat(ymlPath); err == nil {
		return c.loadYAML(ymlPath)
	}

	// No config file is fine, defaults apply.
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

func loadUserConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}
	path := filepath.Join(home, ".txtsearch", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &parsed, nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if len(other.Paths.Include) > 0 {
		c.Paths.Include = other.Paths.Include
	}
	if len(other.Paths.Exclude) > 0 {
		c.Paths.Exclude = other.Paths.Exclude
	}
	if other.Paths.MaxFileSize != 0 {
		c.Paths.MaxFileSize = other.Paths.MaxFileSize
	}
	if other.Paths.FollowSymlinks {
		c.Paths.FollowSymlinks = true
	}
	if other.Paths.RespectGitignore != nil {
		c.Paths.RespectGitignore = other.Paths.RespectGitignore
	}
	if other.Chunking.Size != 0 {
		c.Chunking.Size = other.Chunking.Size
	}
	if other.Chunking.Overlap != 0 {
		c.Chunking.Overlap = other.Chunking.Overlap
	}
	mergeLiteral(&c.Strategies.Literal, &other.Strategies.Literal)
	if other.Strategies.Lexical.Enabled != nil {
		c.Strategies.Lexical.Enabled = other.Strategies.Lexical.Enabled
	}
	mergeSemantic(&c.Strategies.Semantic, &other.Strategies.Semantic)
	mergeAgentic(&c.Strategies.Agentic, &other.Strategies.Agentic)
	if other.Embeddings.Provider != "" {
		c.Embeddings.Provider = other.Embeddings.Provider
	}
	if other.Embeddings.Model != "" {
		c.Embeddings.Model = other.Embeddings.Model
	}
	if other.Embeddings.Host != "" {
		c.Embeddings.Host = other.Embeddings.Host
	}
	if other.Embeddings.BatchSize != 0 {
		c.Embeddings.BatchSize = other.Embeddings.BatchSize
	}
	if other.LLM.Host != "" {
		c.LLM.Host = other.LLM.Host
	}
	if other.LLM.Model != "" {
		c.LLM.Model = other.LLM.Model
	}
	if other.LLM.Timeout != "" {
		c.LLM.Timeout = other.LLM.Timeout
	}
	if other.Index.Ephemeral {
		c.Index.Ephemeral = true
	}
	if other.Index.Workers != 0 {
		c.Index.Workers = other.Index.Workers
	}
	if other.Index.KeepBuilds != 0 {
		c.Index.KeepBuilds = other.Index.KeepBuilds
	}
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
}

func mergeLiteral(dst, src *LiteralConfig) {
	if src.Enabled != nil {
		dst.Enabled = src.Enabled
	}
	if src.Binary != "" {
		dst.Binary = src.Binary
	}
	if src.Timeout != "" {
		dst.Timeout = src.Timeout
	}
}

func mergeSemantic(dst, src *SemanticConfig) {
	if src.Enabled != nil {
		dst.Enabled = src.Enabled
	}
	if src.MinSimilarity != 0 {
		dst.MinSimilarity = src.MinSimilarity
	}
}

func mergeAgentic(dst, src *AgenticConfig) {
	if src.Enabled != nil {
		dst.Enabled = src.Enabled
	}
	if src.MaxChunks != 0 {
		dst.MaxChunks = src.MaxChunks
	}
}

// applyEnvOverrides applies TXTSEARCH_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TXTSEARCH_OLLAMA_HOST"); v != "" {
		c.Embeddings.Host = v
		c.LLM.Host = v
	}
	if v := os.Getenv("TXTSEARCH_EMBED_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("TXTSEARCH_EMBED_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("TXTSEARCH_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("TXTSEARCH_RIPGREP"); v != "" {
		c.Strategies.Literal.Binary = v
	}
	if v := os.Getenv("TXTSEARCH_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("TXTSEARCH_EPHEMERAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Index.Ephemeral = b
		}
	}
	if v := os.Getenv("TXTSEARCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Index.Workers = n
		}
	}
}

// Validate checks the final configuration for invalid values.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must be non-negative, got %d", c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be smaller than chunking.size, got %d >= %d",
			c.Chunking.Overlap, c.Chunking.Size)
	}
	if c.Paths.MaxFileSize <= 0 {
		return fmt.Errorf("paths.max_file_size must be positive, got %d", c.Paths.MaxFileSize)
	}

	if c.Embeddings.Provider != "" {
		validProviders := map[string]bool{"ollama": true, "static": true}
		if !validProviders[strings.ToLower(c.Embeddings.Provider)] {
			return fmt.Errorf("embeddings.provider must be 'ollama' or 'static', got %s", c.Embeddings.Provider)
		}
	}

	if c.Strategies.Literal.Timeout != "" {
		d, err := time.ParseDuration(c.Strategies.Literal.Timeout)
		if err != nil {
			return fmt.Errorf("strategies.literal.timeout is not a valid duration: %q", c.Strategies.Literal.Timeout)
		}
		if d <= 0 {
			return fmt.Errorf("strategies.literal.timeout must be positive, got %s", c.Strategies.Literal.Timeout)
		}
	}

	if c.Strategies.Semantic.MinSimilarity < 0 || c.Strategies.Semantic.MinSimilarity > 1 {
		return fmt.Errorf("strategies.semantic.min_similarity must be between 0 and 1, got %f",
			c.Strategies.Semantic.MinSimilarity)
	}
	if c.Strategies.Agentic.MaxChunks < 0 {
		return fmt.Errorf("strategies.agentic.max_chunks must be non-negative, got %d",
			c.Strategies.Agentic.MaxChunks)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	if c.Index.Workers < 0 {
		return fmt.Errorf("index.workers must be non-negative, got %d", c.Index.Workers)
	}
	if c.Index.KeepBuilds < 1 {
		return fmt.Errorf("index.keep_builds must be at least 1, got %d", c.Index.KeepBuilds)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// StrategyEnabled reports whether a strategy is switched on in config.
// Unknown names report false.
func (c *Config) StrategyEnabled(name string) bool {
	switch name {
	case "literal":
		return c.Strategies.Literal.Enabled == nil || *c.Strategies.Literal.Enabled
	case "lexical":
		return c.Strategies.Lexical.Enabled == nil || *c.Strategies.Lexical.Enabled
	case "semantic":
		return c.Strategies.Semantic.Enabled == nil || *c.Strategies.Semantic.Enabled
	case "agentic":
		return c.Strategies.Agentic.Enabled == nil || *c.Strategies.Agentic.Enabled
	}
	return false
}
