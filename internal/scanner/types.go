// Package scanner discovers indexable text files under a search root.
// It walks the tree in deterministic lexical order, applies include and
// exclude patterns, and classifies files as text or binary. Individual
// unreadable entries are reported and skipped, never aborting the walk.
package scanner

import "time"

// SkipReason explains why a file was not selected for indexing.
type SkipReason string

const (
	// SkipExcluded means the path matched an exclude pattern.
	SkipExcluded SkipReason = "excluded"
	// SkipNotIncluded means no include pattern matched the base name.
	SkipNotIncluded SkipReason = "not_included"
	// SkipBinary means the classifier detected binary content.
	SkipBinary SkipReason = "binary"
	// SkipTooLarge means the file exceeded the size limit.
	SkipTooLarge SkipReason = "too_large"
	// SkipSymlink means the entry is a symbolic link and following is off.
	SkipSymlink SkipReason = "symlink"
	// SkipIgnored means the path matched a .gitignore rule.
	SkipIgnored SkipReason = "gitignored"
	// SkipUnreadable means the file could not be opened or statted.
	SkipUnreadable SkipReason = "unreadable"
)

// FileInfo describes a discovered indexable file.
type FileInfo struct {
	Path    string    // Relative to the search root, forward slashes
	AbsPath string    // Absolute path on disk
	Size    int64     // Size in bytes
	ModTime time.Time // Last modification time
}

// SkipEvent describes a file or directory that was passed over.
type SkipEvent struct {
	Path   string
	Reason SkipReason
	Err    error // Set for SkipUnreadable
}

// ScanEvent is streamed from Scan. Exactly one of File or Skip is set.
type ScanEvent struct {
	File *FileInfo
	Skip *SkipEvent
}

// Options configures a scan.
type Options struct {
	// IncludePatterns are glob patterns matched against base names.
	// Empty means include everything text.
	IncludePatterns []string

	// ExcludePatterns are glob patterns matched against base names and
	// path segments. Matching directories are pruned whole.
	ExcludePatterns []string

	// MaxFileSize is the largest eligible file in bytes (0 = 10MB).
	MaxFileSize int64

	// FollowSymlinks enables following symbolic links.
	FollowSymlinks bool

	// RespectGitignore honors .gitignore files found during the walk.
	RespectGitignore bool
}

// DefaultMaxFileSize bounds files eligible for indexing.
const DefaultMaxFileSize = 10 * 1024 * 1024
