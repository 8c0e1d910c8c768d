package index

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/txtsearch/txtsearch/internal/chunk"
	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/embed"
	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/scanner"
	"github.com/txtsearch/txtsearch/internal/store"
)

// BuildOptions overrides per-build settings.
type BuildOptions struct {
	// IncludePatterns replaces the configured include patterns when
	// non-empty.
	IncludePatterns []string
	// ExcludePatterns extends the configured exclude patterns.
	ExcludePatterns []string
}

// BuildStats summarizes a completed build.
type BuildStats struct {
	BuildID    string        `json:"build_id"`
	Files      int           `json:"files"`
	Chunks     int           `json:"chunks"`
	Skipped    int           `json:"skipped"`
	Strategies []string      `json:"strategies"`
	Duration   time.Duration `json:"duration"`
}

// Builder assembles index builds.
type Builder struct {
	cfg      *config.Config
	embedder embed.Embedder
	logger   *slog.Logger
}

// NewBuilder creates a Builder. embedder may be nil, in which case
// builds carry no semantic data.
func NewBuilder(cfg *config.Config, embedder embed.Embedder, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, embedder: embedder, logger: logger}
}

// fileResult is one scanned file with its chunks, produced by the
// parallel read phase and written sequentially for determinism.
type fileResult struct {
	record *store.FileRecord
	chunks []chunk.Chunk
	failed bool
}

// buildInto assembles a complete index in dir. An empty dir builds
// everything in memory. The returned handle owns the opened backends.
func (b *Builder) buildInto(ctx context.Context, root, dir, buildID string, opts BuildOptions) (*Handle, *BuildStats, error) {
	start := time.Now()

	include := b.cfg.Paths.Include
	if len(opts.IncludePatterns) > 0 {
		include = opts.IncludePatterns
	}
	// The index directory is excluded unconditionally so a build never
	// walks its own staging area, whatever the configured patterns say.
	exclude := append([]string{indexDirName}, b.cfg.Paths.Exclude...)
	exclude = append(exclude, opts.ExcludePatterns...)

	files, skips, err := scanner.New().ScanAll(ctx, root, scanner.Options{
		IncludePatterns:  include,
		ExcludePatterns:  exclude,
		MaxFileSize:      b.cfg.Paths.MaxFileSize,
		FollowSymlinks:   b.cfg.Paths.FollowSymlinks,
		RespectGitignore: b.cfg.Paths.GitignoreEnabled(),
	})
	if err != nil {
		return nil, nil, errors.BuildFailure("scan", err)
	}
	for _, skip := range skips {
		b.logger.Debug("file skipped",
			slog.String("path", skip.Path),
			slog.String("reason", string(skip.Reason)))
	}

	// Read and split files in parallel; results keep scan order so the
	// write phase is deterministic.
	splitter := chunk.NewSplitter(b.cfg.Chunking.Size, b.cfg.Chunking.Overlap)
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	workers := b.cfg.Index.Workers
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, file := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			content, readErr := os.ReadFile(file.AbsPath)
			if readErr != nil {
				b.logger.Warn("failed to read file, skipping",
					slog.String("path", file.Path),
					slog.String("error", readErr.Error()))
				results[i] = fileResult{failed: true}
				return nil
			}

			results[i] = fileResult{
				record: &store.FileRecord{
					ID:          store.FileID(file.Path),
					Path:        file.Path,
					Size:        file.Size,
					ModTime:     file.ModTime,
					ContentHash: chunk.HashContent(content),
				},
				chunks: splitter.Split(file.Path, content),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, errors.BuildFailure("read", err)
	}

	// Open the backends and write sequentially.
	metaPath, lexicalPath, vectorPath := "", "", ""
	if dir != "" {
		metaPath = MetaDBPath(dir)
		lexicalPath = LexicalPath(dir)
		vectorPath = VectorPath(dir)
	}

	metaStore, err := store.NewSQLiteStore(metaPath)
	if err != nil {
		return nil, nil, errors.BuildFailure("open metadata store", err)
	}
	handle := &Handle{BuildID: buildID, Dir: dir, Store: metaStore}

	lexical, err := store.NewBleveIndex(lexicalPath)
	if err != nil {
		_ = handle.Close()
		return nil, nil, errors.BuildFailure("open lexical index", err)
	}
	handle.Lexical = lexical

	stats := &BuildStats{BuildID: buildID, Skipped: len(skips)}
	var allChunks []chunk.Chunk
	for _, res := range results {
		if res.failed {
			stats.Skipped++
			continue
		}
		res.record.ChunkCount = len(res.chunks)
		if err := metaStore.UpsertFile(ctx, res.record); err != nil {
			_ = handle.Close()
			return nil, nil, errors.BuildFailure("write metadata", err)
		}
		if err := metaStore.InsertChunks(ctx, res.record.ID, res.chunks); err != nil {
			_ = handle.Close()
			return nil, nil, errors.BuildFailure("write chunks", err)
		}
		if err := lexical.IndexChunks(ctx, res.chunks); err != nil {
			_ = handle.Close()
			return nil, nil, errors.BuildFailure("index lexical", err)
		}
		allChunks = append(allChunks, res.chunks...)
		stats.Files++
		stats.Chunks += len(res.chunks)
	}
	stats.Strategies = []string{"lexical"}

	// Semantic data is built only when the embedder answers. A dead
	// model server degrades the build instead of failing it.
	if b.embedder != nil && b.cfg.StrategyEnabled("semantic") {
		if pingErr := b.embedder.Ping(ctx); pingErr != nil {
			b.logger.Warn("embedder unavailable, build will have no semantic data",
				slog.String("error", pingErr.Error()))
		} else {
			vector, vErr := store.NewChromemIndex(vectorPath, embed.ChromemFunc(b.embedder))
			if vErr != nil {
				_ = handle.Close()
				return nil, nil, errors.BuildFailure("open vector index", vErr)
			}
			handle.Vector = vector
			if err := vector.AddChunks(ctx, allChunks); err != nil {
				_ = handle.Close()
				return nil, nil, errors.BuildFailure("embed chunks", err)
			}
			stats.Strategies = append(stats.Strategies, "semantic")
		}
	}

	meta := &store.IndexMetadata{
		BuildID:       buildID,
		SchemaVersion: store.SchemaVersion,
		CreatedAt:     time.Now().UTC(),
		Root:          root,
		FileCount:     stats.Files,
		ChunkCount:    stats.Chunks,
		SkippedCount:  stats.Skipped,
		Strategies:    stats.Strategies,
		ChunkSize:     b.cfg.Chunking.Size,
		ChunkOverlap:  b.cfg.Chunking.Overlap,
	}
	if handle.Vector != nil {
		meta.EmbedModel = b.embedder.ModelName()
	}
	if err := metaStore.SaveMetadata(ctx, meta); err != nil {
		_ = handle.Close()
		return nil, nil, errors.BuildFailure("save metadata", err)
	}
	handle.Meta = meta

	stats.Duration = time.Since(start)
	b.logger.Info("index build complete",
		slog.String("build_id", buildID),
		slog.Int("files", stats.Files),
		slog.Int("chunks", stats.Chunks),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("duration", stats.Duration))

	return handle, stats, nil
}
