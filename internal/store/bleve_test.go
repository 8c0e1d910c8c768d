package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBleve(t *testing.T) *BleveIndex {
	t.Helper()
	idx, err := NewBleveIndex("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestBleveIndexAndSearch(t *testing.T) {
	idx := newTestBleve(t)
	ctx := context.Background()

	chunks := testChunks("doc.txt",
		"the quick brown fox jumps over the lazy dog",
		"a completely unrelated passage about databases",
		"another fox sighting in the brown forest",
	)
	require.NoError(t, idx.IndexChunks(ctx, chunks))

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	hits, err := idx.Search(ctx, "fox", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Positive(t, h.Score)
		assert.Contains(t, []string{chunks[0].ID, chunks[2].ID}, h.ChunkID)
	}
}

func TestBleveSearchEmptyQuery(t *testing.T) {
	idx := newTestBleve(t)

	hits, err := idx.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBleveSearchNoMatches(t *testing.T) {
	idx := newTestBleve(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexChunks(ctx, testChunks("a.txt", "hello world")))

	hits, err := idx.Search(ctx, "zyzzyva", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBleveSearchLimit(t *testing.T) {
	idx := newTestBleve(t)
	ctx := context.Background()

	var contents []string
	for i := 0; i < 10; i++ {
		contents = append(contents, "shared term appears here")
	}
	require.NoError(t, idx.IndexChunks(ctx, testChunks("many.txt", contents...)))

	hits, err := idx.Search(ctx, "shared", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestBlevePersistsToDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lexical.bleve")
	ctx := context.Background()

	idx, err := NewBleveIndex(dir)
	require.NoError(t, err)
	require.NoError(t, idx.IndexChunks(ctx, testChunks("a.txt", "persistent content")))
	require.NoError(t, idx.Close())

	reopened, err := OpenBleveIndex(dir)
	require.NoError(t, err)
	defer reopened.Close()

	hits, err := reopened.Search(ctx, "persistent", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestBleveOpenRequiresExistingIndex(t *testing.T) {
	_, err := OpenBleveIndex(filepath.Join(t.TempDir(), "absent.bleve"))
	require.Error(t, err)
}

func TestBleveCorruptIndexIsNeverCleared(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lexical.bleve")
	require.NoError(t, os.WriteFile(dir, []byte("not a bleve index"), 0644))

	_, err := NewBleveIndex(dir)
	require.Error(t, err)
	_, err = OpenBleveIndex(dir)
	require.Error(t, err)

	// The unreadable data survives for inspection; only a rebuild may
	// replace it.
	data, err := os.ReadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, "not a bleve index", string(data))
}
