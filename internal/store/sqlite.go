package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/txtsearch/txtsearch/internal/chunk"
)

// SQLiteStore implements MetadataStore on SQLite. A single connection
// is used; the modernc driver is not safe for concurrent writers on
// one database handle.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

var _ MetadataStore = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS files (
	id           TEXT PRIMARY KEY,
	path         TEXT NOT NULL UNIQUE,
	size         INTEGER NOT NULL,
	mod_time     INTEGER NOT NULL,
	content_hash TEXT NOT NULL,
	chunk_count  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS chunks (
	id           TEXT PRIMARY KEY,
	file_id      TEXT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	file_path    TEXT NOT NULL,
	idx          INTEGER NOT NULL,
	content      TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	start_offset INTEGER NOT NULL,
	end_offset   INTEGER NOT NULL,
	start_line   INTEGER NOT NULL,
	end_line     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_file ON chunks(file_id);
CREATE INDEX IF NOT EXISTS idx_chunks_path ON chunks(file_path);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// NewSQLiteStore opens or creates the metadata database at path.
// An empty path creates an in-memory store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The modernc driver needs a single connection for consistent
	// pragma state and safe writes.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = MEMORY",
	}
	if path != "" {
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// UpsertFile inserts or replaces a file record.
func (s *SQLiteStore) UpsertFile(ctx context.Context, file *FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (id, path, size, mod_time, content_hash, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			id = excluded.id,
			size = excluded.size,
			mod_time = excluded.mod_time,
			content_hash = excluded.content_hash,
			chunk_count = excluded.chunk_count`,
		file.ID, file.Path, file.Size, file.ModTime.UnixNano(), file.ContentHash, file.ChunkCount)
	if err != nil {
		return fmt.Errorf("failed to upsert file %s: %w", file.Path, err)
	}
	return nil
}

// InsertChunks writes a file's chunks in one transaction, replacing any
// previous chunks for that file.
func (s *SQLiteStore) InsertChunks(ctx context.Context, fileID string, chunks []chunk.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, file_id, file_path, idx, content, content_hash,
			start_offset, end_offset, start_line, end_line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, fileID, c.FilePath, c.Index,
			c.Content, c.ContentHash, c.StartOffset, c.EndOffset, c.StartLine, c.EndLine); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

const chunkColumns = `id, file_path, idx, content, content_hash,
	start_offset, end_offset, start_line, end_line`

func scanChunk(row interface{ Scan(...any) error }) (*chunk.Chunk, error) {
	var c chunk.Chunk
	err := row.Scan(&c.ID, &c.FilePath, &c.Index, &c.Content, &c.ContentHash,
		&c.StartOffset, &c.EndOffset, &c.StartLine, &c.EndLine)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetChunk fetches one chunk by ID. Returns nil, nil when absent.
func (s *SQLiteStore) GetChunk(ctx context.Context, id string) (*chunk.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+chunkColumns+` FROM chunks WHERE id = ?`, id)
	c, err := scanChunk(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chunk %s: %w", id, err)
	}
	return c, nil
}

// GetChunks fetches chunks for a set of IDs. Missing IDs are absent
// from the returned map.
func (s *SQLiteStore) GetChunks(ctx context.Context, ids []string) (map[string]*chunk.Chunk, error) {
	if len(ids) == 0 {
		return map[string]*chunk.Chunk{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chunkColumns+` FROM chunks WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*chunk.Chunk, len(ids))
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		out[c.ID] = c
	}
	return out, rows.Err()
}

// FileByPath fetches a file record by relative path. Returns nil, nil
// when absent.
func (s *SQLiteStore) FileByPath(ctx context.Context, relPath string) (*FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	var f FileRecord
	var modTime int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, path, size, mod_time, content_hash, chunk_count
		FROM files WHERE path = ?`, relPath).
		Scan(&f.ID, &f.Path, &f.Size, &modTime, &f.ContentHash, &f.ChunkCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", relPath, err)
	}
	f.ModTime = time.Unix(0, modTime)
	return &f, nil
}

// ListFiles returns all file records ordered by path.
func (s *SQLiteStore) ListFiles(ctx context.Context) ([]*FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, size, mod_time, content_hash, chunk_count
		FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []*FileRecord
	for rows.Next() {
		var f FileRecord
		var modTime int64
		if err := rows.Scan(&f.ID, &f.Path, &f.Size, &modTime, &f.ContentHash, &f.ChunkCount); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		f.ModTime = time.Unix(0, modTime)
		files = append(files, &f)
	}
	return files, rows.Err()
}

// ChunkCount returns the total number of stored chunks.
func (s *SQLiteStore) ChunkCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, fmt.Errorf("store is closed")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

const metadataKey = "index_metadata"

// SaveMetadata persists the build metadata as JSON.
func (s *SQLiteStore) SaveMetadata(ctx context.Context, meta *IndexMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metadataKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

// LoadMetadata reads the build metadata. Returns nil, nil when the
// store has never been finalized.
func (s *SQLiteStore) LoadMetadata(ctx context.Context) (*IndexMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, metadataKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}

	var meta IndexMetadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &meta, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.path != "" {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}
	return s.db.Close()
}
