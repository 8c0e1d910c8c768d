// Package store holds the persistence backends for a built index: a
// SQLite metadata store, a Bleve full-text index, and a chromem vector
// index. Each backend supports a file-backed persistent mode and an
// in-memory ephemeral mode.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/txtsearch/txtsearch/internal/chunk"
)

// SchemaVersion is bumped when the persisted layout changes shape.
const SchemaVersion = 1

// FileRecord describes one indexed file.
type FileRecord struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"` // Relative to the search root
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	ContentHash string    `json:"content_hash"`
	ChunkCount  int       `json:"chunk_count"`
}

// FileID derives a stable identifier from a relative path.
func FileID(relPath string) string {
	sum := sha256.Sum256([]byte(relPath))
	return hex.EncodeToString(sum[:])[:16]
}

// IndexMetadata records what a build contains and how it was produced.
type IndexMetadata struct {
	BuildID       string    `json:"build_id"`
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	Root          string    `json:"root"`
	FileCount     int       `json:"file_count"`
	ChunkCount    int       `json:"chunk_count"`
	SkippedCount  int       `json:"skipped_count"`
	// Strategies lists the index-backed strategies this build has data
	// for, e.g. ["lexical", "semantic"].
	Strategies   []string `json:"strategies"`
	EmbedModel   string   `json:"embed_model,omitempty"`
	ChunkSize    int      `json:"chunk_size"`
	ChunkOverlap int      `json:"chunk_overlap"`
}

// HasStrategy reports whether the build carries data for a strategy.
func (m *IndexMetadata) HasStrategy(name string) bool {
	for _, s := range m.Strategies {
		if s == name {
			return true
		}
	}
	return false
}

// MetadataStore persists files, chunks, and build metadata.
type MetadataStore interface {
	UpsertFile(ctx context.Context, file *FileRecord) error
	InsertChunks(ctx context.Context, fileID string, chunks []chunk.Chunk) error
	GetChunk(ctx context.Context, id string) (*chunk.Chunk, error)
	GetChunks(ctx context.Context, ids []string) (map[string]*chunk.Chunk, error)
	FileByPath(ctx context.Context, relPath string) (*FileRecord, error)
	ListFiles(ctx context.Context) ([]*FileRecord, error)
	ChunkCount(ctx context.Context) (int, error)
	SaveMetadata(ctx context.Context, meta *IndexMetadata) error
	LoadMetadata(ctx context.Context) (*IndexMetadata, error)
	Close() error
}

// LexicalHit is one full-text match.
type LexicalHit struct {
	ChunkID string
	Score   float64
}

// LexicalIndex is the full-text search backend.
type LexicalIndex interface {
	IndexChunks(ctx context.Context, chunks []chunk.Chunk) error
	Search(ctx context.Context, query string, limit int) ([]LexicalHit, error)
	DocCount() (uint64, error)
	Close() error
}

// VectorHit is one similarity match.
type VectorHit struct {
	ChunkID    string
	Similarity float32
}

// VectorIndex is the embedding similarity backend.
type VectorIndex interface {
	AddChunks(ctx context.Context, chunks []chunk.Chunk) error
	Query(ctx context.Context, query string, k int) ([]VectorHit, error)
	Count() int
	Close() error
}
