package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/txtsearch/txtsearch/internal/chunk"
)

// BleveIndex implements LexicalIndex on Bleve's BM25 scoring.
type BleveIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	closed bool
}

var _ LexicalIndex = (*BleveIndex)(nil)

// lexicalDoc is the shape Bleve indexes per chunk.
type lexicalDoc struct {
	Content string `json:"content"`
	Path    string `json:"path"`
}

// NewBleveIndex opens or creates a Bleve index at path. An empty path
// creates an in-memory index. A directory that exists but fails to
// open is reported as an error, never cleared; only a rebuild may
// replace index data.
func NewBleveIndex(path string) (*BleveIndex, error) {
	indexMapping := bleve.NewIndexMapping()

	var idx bleve.Index
	var err error
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, indexMapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open lexical index: %w", err)
	}

	return &BleveIndex{index: idx, path: path}, nil
}

// OpenBleveIndex opens an existing Bleve index for reading. Unlike
// NewBleveIndex it never creates one: a missing or unreadable
// directory is an error, so a reader cannot mask absent lexical data
// as an empty index.
func OpenBleveIndex(path string) (*BleveIndex, error) {
	idx, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexical index at %s: %w", path, err)
	}
	return &BleveIndex{index: idx, path: path}, nil
}

// IndexChunks adds chunks to the index in one batch.
func (b *BleveIndex) IndexChunks(ctx context.Context, chunks []chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("index is closed")
	}

	batch := b.index.NewBatch()
	for _, c := range chunks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := batch.Index(c.ID, lexicalDoc{Content: c.Content, Path: c.FilePath}); err != nil {
			return fmt.Errorf("failed to batch chunk %s: %w", c.ID, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index batch: %w", err)
	}
	return nil
}

// Search runs a match query over chunk content. Raw Bleve scores are
// returned; normalization happens upstream.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]LexicalHit, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	if strings.TrimSpace(query) == "" {
		return []LexicalHit{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("content")

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = limit

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lexical search failed: %w", err)
	}

	hits := make([]LexicalHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, LexicalHit{ChunkID: hit.ID, Score: hit.Score})
	}
	return hits, nil
}

// DocCount returns the number of indexed chunks.
func (b *BleveIndex) DocCount() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, fmt.Errorf("index is closed")
	}
	return b.index.DocCount()
}

// Close releases the index.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.index.Close()
}
