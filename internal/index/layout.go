// Package index builds and manages search indexes for a directory
// tree. A persisted index lives under <root>/.txtsearch/: each build
// writes into its own directory under builds/, and a CURRENT pointer
// file names the active build. The pointer is replaced atomically, so
// readers either see the previous complete build or the new one, never
// a partial state.
package index

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// indexDirName is the per-root directory holding all index state.
	indexDirName = ".txtsearch"

	currentFileName = "CURRENT"
	lockFileName    = "build.lock"
	buildsDirName   = "builds"
	stagingPrefix   = ".staging-"

	// Component names inside a build directory.
	metaDBName     = "meta.db"
	lexicalDirName = "lexical.bleve"
	vectorDirName  = "semantic"
)

// Layout resolves the on-disk paths for one search root.
type Layout struct {
	Root string // Absolute search root
}

// NewLayout validates root and returns its layout.
func NewLayout(root string) (*Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	return &Layout{Root: abs}, nil
}

// Dir is the index directory for the root.
func (l *Layout) Dir() string { return filepath.Join(l.Root, indexDirName) }

// CurrentFile is the pointer file naming the active build.
func (l *Layout) CurrentFile() string { return filepath.Join(l.Dir(), currentFileName) }

// LockFile is the advisory build lock.
func (l *Layout) LockFile() string { return filepath.Join(l.Dir(), lockFileName) }

// BuildsDir holds one directory per build.
func (l *Layout) BuildsDir() string { return filepath.Join(l.Dir(), buildsDirName) }

// BuildDir is the final directory for a build.
func (l *Layout) BuildDir(buildID string) string {
	return filepath.Join(l.BuildsDir(), buildID)
}

// StagingDir is where a build is assembled before the atomic rename.
func (l *Layout) StagingDir(buildID string) string {
	return filepath.Join(l.BuildsDir(), stagingPrefix+buildID)
}

// MetaDBPath is the SQLite metadata database inside a build directory.
func MetaDBPath(buildDir string) string { return filepath.Join(buildDir, metaDBName) }

// LexicalPath is the Bleve index inside a build directory.
func LexicalPath(buildDir string) string { return filepath.Join(buildDir, lexicalDirName) }

// VectorPath is the chromem directory inside a build directory.
func VectorPath(buildDir string) string { return filepath.Join(buildDir, vectorDirName) }

// CurrentBuildID reads the active build ID. Returns "" when no build
// has been published.
func (l *Layout) CurrentBuildID() (string, error) {
	data, err := os.ReadFile(l.CurrentFile())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read current pointer: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// NewBuildID generates a sortable, unique build identifier.
func NewBuildID() string {
	var suffix [4]byte
	_, _ = rand.Read(suffix[:])
	return time.Now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(suffix[:])
}
