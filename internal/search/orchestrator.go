package search

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/store"
	"github.com/txtsearch/txtsearch/internal/telemetry"
)

// Options configures an orchestrator session.
type Options struct {
	// Ephemeral keeps all index state in memory for this session.
	Ephemeral bool
	// IngestIfMissing triggers exactly one synchronous build when the
	// root has no active index at search time.
	IngestIfMissing bool
}

// Orchestrator is the façade front ends call: BuildIndex and Search.
// It resolves the active index handle once per session and adopts new
// handles after builds.
type Orchestrator struct {
	manager  *index.Manager
	registry *Registry
	logger   *slog.Logger
	opts     Options

	mu       sync.Mutex
	handle   *index.Handle
	reader   *contextReader
	ingested bool
}

// NewOrchestrator creates an orchestrator over a manager and registry.
func NewOrchestrator(manager *index.Manager, registry *Registry, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{manager: manager, registry: registry, logger: logger, opts: opts}
}

// BuildIndex runs a full build and adopts the resulting index as the
// session's active handle.
func (o *Orchestrator) BuildIndex(ctx context.Context, buildOpts index.BuildOptions) (*index.BuildStats, error) {
	start := time.Now()
	stats, err := o.buildIndex(ctx, buildOpts)
	if err != nil {
		telemetry.ObserveBuild(time.Since(start), 0, 0, err)
		return nil, err
	}
	telemetry.ObserveBuild(stats.Duration, stats.Files, stats.Chunks, nil)
	return stats, nil
}

func (o *Orchestrator) buildIndex(ctx context.Context, buildOpts index.BuildOptions) (*index.BuildStats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.opts.Ephemeral {
		handle, stats, err := o.manager.BuildEphemeral(ctx, buildOpts)
		if err != nil {
			return nil, err
		}
		o.adoptLocked(handle)
		return stats, nil
	}

	stats, err := o.manager.Build(ctx, buildOpts)
	if err != nil {
		return nil, err
	}
	handle, err := o.manager.Open(ctx)
	if err != nil {
		return nil, err
	}
	o.adoptLocked(handle)
	return stats, nil
}

// Search validates the request, resolves the strategy through the
// registry's preflight, executes it, and normalizes the results.
func (o *Orchestrator) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := o.search(ctx, req)
	hits := 0
	if resp != nil {
		hits = len(resp.Hits)
	}
	telemetry.ObserveSearch(req.Strategy, time.Since(start), hits, err)
	return resp, err
}

func (o *Orchestrator) search(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New(errors.ErrCodeQueryEmpty, "query must not be empty", nil)
	}
	if req.Strategy == "" {
		req.Strategy = StrategySemantic
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	for _, pattern := range req.FilePatterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidGlob,
				fmt.Sprintf("invalid file pattern %q", pattern), err)
		}
	}

	handle, reader, err := o.acquire(ctx)
	if err != nil {
		return nil, err
	}

	strategy, err := o.registry.Resolve(ctx, req.Strategy, handle)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	hits, err := strategy.Search(ctx, handle, req)
	if err != nil {
		return nil, err
	}

	hits = normalize(hits, req.Limit)
	for i := range hits {
		hits[i].BuiltAt = handle.Meta.CreatedAt
		if req.ContextLines > 0 {
			hits[i].Context = reader.surrounding(hits[i].Path, hits[i].StartLine, hits[i].EndLine, req.ContextLines)
		}
	}

	o.logger.Debug("search complete",
		slog.String("strategy", strategy.Name()),
		slog.Int("hits", len(hits)),
		slog.Duration("duration", time.Since(start)))

	return &Response{
		Hits:     hits,
		Strategy: strategy.Name(),
		Query:    req.Query,
		BuildID:  handle.BuildID,
		Duration: time.Since(start),
	}, nil
}

// acquire returns the session handle, building the index first when
// ingest-if-missing applies. The build happens at most once per session.
func (o *Orchestrator) acquire(ctx context.Context) (*index.Handle, *contextReader, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle != nil {
		return o.handle, o.reader, nil
	}

	if o.opts.Ephemeral {
		handle, _, err := o.manager.BuildEphemeral(ctx, index.BuildOptions{})
		if err != nil {
			return nil, nil, err
		}
		o.adoptLocked(handle)
		return o.handle, o.reader, nil
	}

	if !o.manager.Exists() {
		if !o.opts.IngestIfMissing || o.ingested {
			return nil, nil, errors.New(errors.ErrCodeNoIndex,
				"no index has been built for this root", nil).
				WithSuggestion("run 'txtsearch index' or pass --ingest-if-missing")
		}
		o.logger.Info("no active index, building before first search")
		if _, err := o.manager.Build(ctx, index.BuildOptions{}); err != nil {
			return nil, nil, err
		}
		o.ingested = true
	}

	handle, err := o.manager.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	o.adoptLocked(handle)
	return o.handle, o.reader, nil
}

// adoptLocked swaps in a new handle. Callers hold o.mu.
func (o *Orchestrator) adoptLocked(handle *index.Handle) {
	if o.handle != nil {
		_ = o.handle.Close()
	}
	o.handle = handle
	reader, err := newContextReader(o.manager.Root())
	if err == nil {
		o.reader = reader
	}
}

// Status reports the active build's metadata.
func (o *Orchestrator) Status(ctx context.Context) (*store.IndexMetadata, error) {
	o.mu.Lock()
	if o.handle != nil {
		meta := o.handle.Meta
		o.mu.Unlock()
		return meta, nil
	}
	o.mu.Unlock()
	return o.manager.Status(ctx)
}

// Close releases the session handle.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.handle == nil {
		return nil
	}
	err := o.handle.Close()
	o.handle = nil
	return err
}
