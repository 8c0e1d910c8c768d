package index

import (
	"github.com/txtsearch/txtsearch/internal/store"
)

// Handle is an opened build: the metadata store plus the index-backed
// search backends it contains. A handle stays valid even if a newer
// build is published while it is open.
type Handle struct {
	BuildID string
	// Dir is the build directory, empty for an ephemeral build.
	Dir     string
	Meta    *store.IndexMetadata
	Store   store.MetadataStore
	Lexical store.LexicalIndex
	// Vector is nil when the build carries no semantic data.
	Vector store.VectorIndex
	// EmbedMismatch names the configured embedding model when it
	// differs from the one the build was embedded with. Vector is left
	// nil in that case; querying in a different embedding space would
	// return silently wrong neighbors.
	EmbedMismatch string
}

// Close releases all backends. Errors from individual backends do not
// stop the others from closing; the first error is returned.
func (h *Handle) Close() error {
	var first error
	if h.Vector != nil {
		if err := h.Vector.Close(); err != nil && first == nil {
			first = err
		}
	}
	if h.Lexical != nil {
		if err := h.Lexical.Close(); err != nil && first == nil {
			first = err
		}
	}
	if h.Store != nil {
		if err := h.Store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
