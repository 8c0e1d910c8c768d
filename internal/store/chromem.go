package store

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/txtsearch/txtsearch/internal/chunk"
)

// chunkCollection is the single chromem collection holding chunk vectors.
const chunkCollection = "chunks"

// ChromemIndex implements VectorIndex on chromem-go, an embedded pure
// Go vector database with gob file persistence.
type ChromemIndex struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
	closed     bool
}

var _ VectorIndex = (*ChromemIndex)(nil)

// NewChromemIndex opens or creates a vector index at dir using embed
// for both document and query embeddings. An empty dir creates an
// in-memory index.
func NewChromemIndex(dir string, embed chromem.EmbeddingFunc) (*ChromemIndex, error) {
	var db *chromem.DB
	var err error
	if dir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector index at %s: %w", dir, err)
		}
	}

	col, err := db.GetOrCreateCollection(chunkCollection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector collection: %w", err)
	}

	return &ChromemIndex{db: db, collection: col}, nil
}

// AddChunks embeds and stores chunk contents.
func (v *ChromemIndex) AddChunks(ctx context.Context, chunks []chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return fmt.Errorf("vector index is closed")
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:      c.ID,
			Content: c.Content,
			Metadata: map[string]string{
				"path": c.FilePath,
			},
		})
	}

	if err := v.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add vectors: %w", err)
	}
	return nil
}

// Query embeds the query text and returns the k nearest chunks by
// cosine similarity. k is capped at the collection size; an empty
// collection returns no hits.
func (v *ChromemIndex) Query(ctx context.Context, query string, k int) ([]VectorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return nil, fmt.Errorf("vector index is closed")
	}

	count := v.collection.Count()
	if count == 0 {
		return []VectorHit{}, nil
	}
	if k <= 0 || k > count {
		k = count
	}

	results, err := v.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	hits := make([]VectorHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, VectorHit{ChunkID: r.ID, Similarity: r.Similarity})
	}
	return hits, nil
}

// Count returns the number of stored vectors.
func (v *ChromemIndex) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return 0
	}
	return v.collection.Count()
}

// Close marks the index closed. chromem persists writes as they happen,
// so there is nothing to flush.
func (v *ChromemIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}
