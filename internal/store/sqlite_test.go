package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txtsearch/txtsearch/internal/chunk"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testChunks(filePath string, contents ...string) []chunk.Chunk {
	fileHash := chunk.HashContent([]byte(filePath))
	chunks := make([]chunk.Chunk, len(contents))
	offset := 0
	for i, content := range contents {
		chunks[i] = chunk.Chunk{
			ID:          chunk.ID(filePath, fileHash, i),
			FilePath:    filePath,
			Index:       i,
			Content:     content,
			ContentHash: chunk.HashContent([]byte(content)),
			StartOffset: offset,
			EndOffset:   offset + len(content),
			StartLine:   i + 1,
			EndLine:     i + 1,
		}
		offset += len(content) + 1
	}
	return chunks
}

func TestSQLiteStoreFileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := &FileRecord{
		ID:          FileID("a.txt"),
		Path:        "a.txt",
		Size:        12,
		ModTime:     time.Now().Truncate(time.Millisecond),
		ContentHash: chunk.HashContent([]byte("hello world\n")),
		ChunkCount:  1,
	}
	require.NoError(t, s.UpsertFile(ctx, file))

	got, err := s.FileByPath(ctx, "a.txt")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, file.ID, got.ID)
	assert.Equal(t, file.ContentHash, got.ContentHash)
	assert.True(t, file.ModTime.Equal(got.ModTime))

	missing, err := s.FileByPath(ctx, "absent.txt")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStoreUpsertReplacesFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := &FileRecord{ID: FileID("a.txt"), Path: "a.txt", Size: 1, ModTime: time.Now(), ContentHash: "h1"}
	require.NoError(t, s.UpsertFile(ctx, file))

	file.Size = 99
	file.ContentHash = "h2"
	require.NoError(t, s.UpsertFile(ctx, file))

	got, err := s.FileByPath(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Size)
	assert.Equal(t, "h2", got.ContentHash)

	files, err := s.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSQLiteStoreChunks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fileID := FileID("a.txt")
	require.NoError(t, s.UpsertFile(ctx, &FileRecord{ID: fileID, Path: "a.txt", ModTime: time.Now()}))

	chunks := testChunks("a.txt", "first chunk", "second chunk", "third chunk")
	require.NoError(t, s.InsertChunks(ctx, fileID, chunks))

	count, err := s.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := s.GetChunk(ctx, chunks[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second chunk", got.Content)
	assert.Equal(t, 1, got.Index)

	byID, err := s.GetChunks(ctx, []string{chunks[0].ID, chunks[2].ID, "nonexistent"})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Equal(t, "first chunk", byID[chunks[0].ID].Content)

	// Re-inserting replaces the file's chunks.
	require.NoError(t, s.InsertChunks(ctx, fileID, testChunks("a.txt", "only chunk")))
	count, err = s.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStoreMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.LoadMetadata(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)

	meta := &IndexMetadata{
		BuildID:       "b-123",
		SchemaVersion: SchemaVersion,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		Root:          "/tmp/project",
		FileCount:     2,
		ChunkCount:    5,
		Strategies:    []string{"lexical", "semantic"},
		EmbedModel:    "nomic-embed-text",
		ChunkSize:     512,
		ChunkOverlap:  50,
	}
	require.NoError(t, s.SaveMetadata(ctx, meta))

	got, err := s.LoadMetadata(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meta.BuildID, got.BuildID)
	assert.True(t, got.HasStrategy("lexical"))
	assert.True(t, got.HasStrategy("semantic"))
	assert.False(t, got.HasStrategy("agentic"))
}

func TestSQLiteStorePersistsToDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertFile(ctx, &FileRecord{ID: FileID("x.txt"), Path: "x.txt", ModTime: time.Now()}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.FileByPath(ctx, "x.txt")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestFileIDStable(t *testing.T) {
	assert.Equal(t, FileID("a/b.txt"), FileID("a/b.txt"))
	assert.NotEqual(t, FileID("a.txt"), FileID("b.txt"))
	assert.Len(t, FileID("a.txt"), 16)
}
