package search

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// contextCacheSize bounds how many files stay in memory for context
// line lookups.
const contextCacheSize = 128

// contextReader serves surrounding source lines for hits, caching
// split file contents per search session.
type contextReader struct {
	root  string
	cache *lru.Cache[string, []string]
}

func newContextReader(root string) (*contextReader, error) {
	cache, err := lru.New[string, []string](contextCacheSize)
	if err != nil {
		return nil, err
	}
	return &contextReader{root: root, cache: cache}, nil
}

// lines returns the file's lines, 0-indexed.
func (r *contextReader) lines(relPath string) ([]string, error) {
	if cached, ok := r.cache.Get(relPath); ok {
		return cached, nil
	}
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	r.cache.Add(relPath, lines)
	return lines, nil
}

// surrounding returns n lines before startLine and after endLine
// (1-based, inclusive). A file that cannot be read yields nil; context
// is an enrichment, not a requirement.
func (r *contextReader) surrounding(relPath string, startLine, endLine, n int) []string {
	if n <= 0 {
		return nil
	}
	lines, err := r.lines(relPath)
	if err != nil {
		return nil
	}

	from := startLine - 1 - n
	if from < 0 {
		from = 0
	}
	to := endLine + n
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return nil
	}
	out := make([]string, to-from)
	copy(out, lines[from:to])
	return out
}
