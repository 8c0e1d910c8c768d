package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/renameio"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/embed"
	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/store"
)

// Manager owns the index lifecycle for one search root: building,
// atomically publishing, opening, and pruning builds.
type Manager struct {
	layout   *Layout
	cfg      *config.Config
	embedder embed.Embedder
	logger   *slog.Logger
}

// NewManager creates a Manager for root. embedder may be nil; builds
// then carry no semantic data and semantic search is unavailable.
func NewManager(root string, cfg *config.Config, embedder embed.Embedder, logger *slog.Logger) (*Manager, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.New(errors.ErrCodeRootMissing,
			fmt.Sprintf("search root does not exist: %s", root), err)
	}
	if !info.IsDir() {
		return nil, errors.InvalidInput(fmt.Sprintf("search root is not a directory: %s", root))
	}

	layout, err := NewLayout(root)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{layout: layout, cfg: cfg, embedder: embedder, logger: logger}, nil
}

// Root returns the absolute search root.
func (m *Manager) Root() string { return m.layout.Root }

// Exists reports whether a published build is present.
func (m *Manager) Exists() bool {
	id, err := m.layout.CurrentBuildID()
	return err == nil && id != ""
}

// Build assembles a new persisted index and atomically publishes it.
// Concurrent builds on the same root are rejected.
func (m *Manager) Build(ctx context.Context, opts BuildOptions) (*BuildStats, error) {
	if err := os.MkdirAll(m.layout.BuildsDir(), 0755); err != nil {
		return nil, errors.BuildFailure("prepare index directory", err)
	}

	lock := flock.New(m.layout.LockFile())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.BuildFailure("acquire build lock", err)
	}
	if !locked {
		return nil, errors.New(errors.ErrCodeBuildInProgress,
			"another build is already running for this root", nil).
			WithSuggestion("wait for the running build to finish")
	}
	defer func() { _ = lock.Unlock() }()

	buildID := NewBuildID()
	staging := m.layout.StagingDir(buildID)
	if err := os.MkdirAll(staging, 0755); err != nil {
		return nil, errors.BuildFailure("create staging directory", err)
	}
	// A failed build leaves nothing behind.
	success := false
	defer func() {
		if !success {
			_ = os.RemoveAll(staging)
		}
	}()

	builder := NewBuilder(m.cfg, m.embedder, m.logger)
	handle, stats, err := builder.buildInto(ctx, m.layout.Root, staging, buildID, opts)
	if err != nil {
		return nil, err
	}
	// Backends must be closed before the directory moves.
	if err := handle.Close(); err != nil {
		return nil, errors.BuildFailure("close build backends", err)
	}

	finalDir := m.layout.BuildDir(buildID)
	if err := os.Rename(staging, finalDir); err != nil {
		return nil, errors.BuildFailure("publish build directory", err)
	}
	// The pointer write is the commit point.
	if err := renameio.WriteFile(m.layout.CurrentFile(), []byte(buildID+"\n"), 0644); err != nil {
		_ = os.RemoveAll(finalDir)
		return nil, errors.BuildFailure("update current pointer", err)
	}
	success = true

	m.prune(buildID)
	return stats, nil
}

// BuildEphemeral assembles an in-memory index and returns its handle.
// Nothing is written to disk and no lock is taken.
func (m *Manager) BuildEphemeral(ctx context.Context, opts BuildOptions) (*Handle, *BuildStats, error) {
	builder := NewBuilder(m.cfg, m.embedder, m.logger)
	return builder.buildInto(ctx, m.layout.Root, "", NewBuildID(), opts)
}

// Open opens the active build for reading.
func (m *Manager) Open(ctx context.Context) (*Handle, error) {
	buildID, err := m.layout.CurrentBuildID()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndexCorrupt, err)
	}
	if buildID == "" {
		return nil, errors.New(errors.ErrCodeNoIndex,
			"no index has been built for this root", nil).
			WithSuggestion("run 'txtsearch index' first")
	}

	dir := m.layout.BuildDir(buildID)
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.New(errors.ErrCodeIndexCorrupt,
			fmt.Sprintf("current build %s is missing on disk", buildID), err).
			WithSuggestion("rebuild the index")
	}

	metaStore, err := store.NewSQLiteStore(MetaDBPath(dir))
	if err != nil {
		return nil, errors.New(errors.ErrCodeIndexCorrupt, "failed to open metadata store", err)
	}
	handle := &Handle{BuildID: buildID, Dir: dir, Store: metaStore}

	meta, err := metaStore.LoadMetadata(ctx)
	if err != nil || meta == nil {
		_ = handle.Close()
		return nil, errors.New(errors.ErrCodeIndexCorrupt,
			"build metadata is missing or unreadable", err).
			WithSuggestion("rebuild the index")
	}
	if meta.SchemaVersion != store.SchemaVersion {
		_ = handle.Close()
		return nil, errors.New(errors.ErrCodeIndexCorrupt,
			fmt.Sprintf("index schema version %d does not match %d", meta.SchemaVersion, store.SchemaVersion), nil).
			WithSuggestion("rebuild the index")
	}
	handle.Meta = meta

	lexical, err := store.OpenBleveIndex(LexicalPath(dir))
	if err != nil {
		_ = handle.Close()
		return nil, errors.New(errors.ErrCodeIndexCorrupt,
			fmt.Sprintf("lexical index for build %s is missing or unreadable", buildID), err).
			WithSuggestion("rebuild the index")
	}
	handle.Lexical = lexical

	if meta.HasStrategy("semantic") && m.embedder != nil {
		if meta.EmbedModel != "" && meta.EmbedModel != m.embedder.ModelName() {
			m.logger.Warn("embedding model differs from the one the index was built with, semantic search disabled",
				slog.String("index_model", meta.EmbedModel),
				slog.String("configured_model", m.embedder.ModelName()))
			handle.EmbedMismatch = m.embedder.ModelName()
		} else {
			vector, err := store.NewChromemIndex(VectorPath(dir), embed.ChromemFunc(m.embedder))
			if err != nil {
				_ = handle.Close()
				return nil, errors.New(errors.ErrCodeIndexCorrupt, "failed to open vector index", err)
			}
			handle.Vector = vector
		}
	}

	return handle, nil
}

// Status returns the active build's metadata without opening the
// search backends.
func (m *Manager) Status(ctx context.Context) (*store.IndexMetadata, error) {
	handle, err := m.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer handle.Close()
	return handle.Meta, nil
}

// prune removes stale staging directories and superseded builds beyond
// the configured retention. Runs under the build lock.
func (m *Manager) prune(currentID string) {
	entries, err := os.ReadDir(m.layout.BuildsDir())
	if err != nil {
		return
	}

	var old []string
	for _, entry := range entries {
		name := entry.Name()
		if name == currentID {
			continue
		}
		if strings.HasPrefix(name, stagingPrefix) {
			_ = os.RemoveAll(filepath.Join(m.layout.BuildsDir(), name))
			continue
		}
		old = append(old, name)
	}

	keep := m.cfg.Index.KeepBuilds - 1
	if keep < 0 {
		keep = 0
	}
	if len(old) <= keep {
		return
	}
	// Build IDs sort chronologically; drop the oldest surplus.
	sort.Strings(old)
	for _, name := range old[:len(old)-keep] {
		path := filepath.Join(m.layout.BuildsDir(), name)
		if err := os.RemoveAll(path); err != nil {
			m.logger.Warn("failed to prune old build",
				slog.String("build", name),
				slog.String("error", err.Error()))
		} else {
			m.logger.Debug("pruned old build", slog.String("build", name))
		}
	}
}
