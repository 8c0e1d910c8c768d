package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/txtsearch/txtsearch/internal/gitignore"
)

// Scanner walks a search root and streams eligible files.
type Scanner struct{}

// New creates a Scanner.
func New() *Scanner {
	return &Scanner{}
}

// Scan walks rootDir and streams one ScanEvent per entry considered.
// Events arrive in lexical path order. The channel closes when the walk
// finishes or ctx is canceled.
func (s *Scanner) Scan(ctx context.Context, rootDir string, opts Options) (<-chan ScanEvent, error) {
	if rootDir == "" {
		rootDir = "."
	}
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", absRoot)
	}

	maxFileSize := opts.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	events := make(chan ScanEvent, 64)
	go func() {
		defer close(events)
		s.walk(ctx, absRoot, opts, maxFileSize, events)
	}()
	return events, nil
}

// ScanAll runs Scan to completion and returns selected files in lexical
// path order, plus the skip events observed along the way.
func (s *Scanner) ScanAll(ctx context.Context, rootDir string, opts Options) ([]*FileInfo, []SkipEvent, error) {
	events, err := s.Scan(ctx, rootDir, opts)
	if err != nil {
		return nil, nil, err
	}

	var files []*FileInfo
	var skips []SkipEvent
	for ev := range events {
		if ev.File != nil {
			files = append(files, ev.File)
		} else if ev.Skip != nil {
			skips = append(skips, *ev.Skip)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// WalkDir already yields lexical order; keep the guarantee explicit.
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, skips, nil
}

func (s *Scanner) walk(ctx context.Context, absRoot string, opts Options, maxFileSize int64, events chan<- ScanEvent) {
	emit := func(ev ScanEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var ignore *gitignore.Matcher
	if opts.RespectGitignore {
		ignore = gitignore.New()
	}

	_ = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if err != nil {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipUnreadable, Err: err}}) {
				return ctx.Err()
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if relPath != "." {
				if matchesAny(relPath, opts.ExcludePatterns) {
					return filepath.SkipDir
				}
				if ignore != nil && ignore.Match(relPath, true) {
					return filepath.SkipDir
				}
			}
			// Directories are visited before their contents, so rules
			// from a nested .gitignore apply to everything below it.
			if ignore != nil {
				base := relPath
				if base == "." {
					base = ""
				}
				ignoreFile := filepath.Join(path, ".gitignore")
				if _, statErr := os.Stat(ignoreFile); statErr == nil {
					_ = ignore.AddFromFile(ignoreFile, base)
				}
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 && !opts.FollowSymlinks {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipSymlink}}) {
				return ctx.Err()
			}
			return nil
		}

		if matchesAny(relPath, opts.ExcludePatterns) {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipExcluded}}) {
				return ctx.Err()
			}
			return nil
		}

		if ignore != nil && ignore.Match(relPath, false) {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipIgnored}}) {
				return ctx.Err()
			}
			return nil
		}

		if len(opts.IncludePatterns) > 0 && !matchesAny(relPath, opts.IncludePatterns) {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipNotIncluded}}) {
				return ctx.Err()
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipUnreadable, Err: infoErr}}) {
				return ctx.Err()
			}
			return nil
		}

		if info.Size() > maxFileSize {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipTooLarge}}) {
				return ctx.Err()
			}
			return nil
		}

		binary, classErr := IsBinaryFile(path)
		if classErr != nil {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipUnreadable, Err: classErr}}) {
				return ctx.Err()
			}
			return nil
		}
		if binary {
			if !emit(ScanEvent{Skip: &SkipEvent{Path: relPath, Reason: SkipBinary}}) {
				return ctx.Err()
			}
			return nil
		}

		if !emit(ScanEvent{File: &FileInfo{
			Path:    relPath,
			AbsPath: path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}}) {
			return ctx.Err()
		}
		return nil
	})
}

// matchesAny matches a relative path against glob patterns. Patterns
// without a separator match the base name and every path segment, so
// "node_modules" excludes the directory anywhere in the tree. Patterns
// with separators match the full relative path.
func matchesAny(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	base := filepath.Base(relPath)
	segments := splitSegments(relPath)
	for _, pattern := range patterns {
		if hasSeparator(pattern) {
			if ok, _ := filepath.Match(pattern, relPath); ok {
				return true
			}
			continue
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		for _, seg := range segments {
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}

func hasSeparator(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '/' {
			return true
		}
	}
	return false
}

func splitSegments(relPath string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(relPath); i++ {
		if relPath[i] == '/' {
			segs = append(segs, relPath[start:i])
			start = i + 1
		}
	}
	segs = append(segs, relPath[start:])
	return segs
}
